package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/middleware"
	"github.com/noah-isme/classwork-tracker-api/internal/service"
	"github.com/noah-isme/classwork-tracker-api/internal/session"
	"github.com/noah-isme/classwork-tracker-api/internal/utils"
)

// ClassHandler wires class management and roster HTTP routes.
type ClassHandler struct {
	service  service.ClassService
	sessions *session.Manager
	logger   zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(service service.ClassService, sessions *session.Manager, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service:  service,
		sessions: sessions,
		logger:   logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register attaches teacher-facing class endpoints to the router group.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.rename)
	router.Delete("/:id", h.delete)
	router.Post("/:id/regenerate-code", h.regenerateCode)
	router.Get("/:id/students", h.roster)
	router.Delete("/:id/students/:studentID", h.removeStudent)
}

// RegisterJoin attaches the public join endpoint. Joining establishes the
// student session, so it sits outside the guarded groups.
func (h *ClassHandler) RegisterJoin(router fiber.Router) {
	router.Post("/join", h.join)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	classes, err := h.service.ListForTeacher(c.Context(), sess.ActorID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.Create(c.Context(), sess.ActorID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.service.Get(c.Context(), sess.ActorID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "class retrieved", class)
}

func (h *ClassHandler) rename(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.Rename(c.Context(), sess.ActorID, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "class renamed", class)
}

func (h *ClassHandler) regenerateCode(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	class, err := h.service.RegenerateCode(c.Context(), sess.ActorID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "access code regenerated", class)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), sess.ActorID, id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "class deleted", fiber.Map{"id": id})
}

func (h *ClassHandler) roster(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	students, err := h.service.Roster(c.Context(), sess.ActorID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster retrieved", students)
}

func (h *ClassHandler) removeStudent(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveStudent(c.Context(), sess.ActorID, classID, studentID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student removed", fiber.Map{"id": studentID})
}

func (h *ClassHandler) join(c *fiber.Ctx) error {
	var payload dto.JoinRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	joined, err := h.service.Join(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.sessions.Establish(c, session.Session{
		Role:        session.RoleStudent,
		ActorID:     joined.Student.ID,
		ClassID:     joined.Class.ID,
		DisplayName: joined.Student.Name,
	}); err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "joined class", joined)
}

func (h *ClassHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrNotClassOwner):
		return utils.SendError(c, fiber.StatusForbidden, "class belongs to another teacher")
	case errors.Is(err, service.ErrAccessCodeExhausted):
		return h.internalError(c, err)
	case errors.Is(err, service.ErrValidation) || isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ClassHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
