package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/middleware"
	"github.com/noah-isme/classwork-tracker-api/internal/service"
	"github.com/noah-isme/classwork-tracker-api/internal/utils"
)

// StudentHandler wires the student profile endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student profile endpoints with their route guards.
func (h *StudentHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/profile", withGuards(guards, h.profile)...)
	router.Patch("/profile", withGuards(guards, h.updateProfile)...)
}

func (h *StudentHandler) profile(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	student, err := h.service.Get(c.Context(), sess.ActorID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", student)
}

func (h *StudentHandler) updateProfile(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	var payload dto.StudentProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.UpdateProfile(c.Context(), sess.ActorID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile updated", student)
}

func (h *StudentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrDuplicateStudent):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidation) || isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *StudentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
