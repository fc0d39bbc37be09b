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

// AuthHandler wires teacher account and session endpoints.
type AuthHandler struct {
	service  service.AuthService
	sessions *session.Manager
	logger   zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, sessions *session.Manager, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
}

// RegisterSessionRoutes attaches the session introspection endpoint. It lives
// outside the /auth group because it serves teachers and students alike.
func (h *AuthHandler) RegisterSessionRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/me", withGuards(guards, h.me)...)
}

// RegisterAccountRoutes attaches the teacher self-deletion endpoint.
func (h *AuthHandler) RegisterAccountRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Delete("/account", withGuards(guards, h.deleteAccount)...)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.establishTeacher(c, teacher); err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher registered", teacher)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.Authenticate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.establishTeacher(c, teacher); err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "login successful", teacher)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "not signed in")
	}

	return utils.SendSuccess(c, "session retrieved", fiber.Map{
		"role":         sess.Role,
		"actor_id":     sess.ActorID,
		"class_id":     sess.ClassID,
		"display_name": sess.DisplayName,
		"issued_at":    sess.IssuedAt,
	})
}

func (h *AuthHandler) deleteAccount(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	if err := h.service.DeleteTeacher(c.Context(), sess.ActorID); err != nil {
		return h.handleError(c, err)
	}

	h.sessions.Clear(c)
	return utils.SendSuccess(c, "account deleted", nil)
}

func (h *AuthHandler) establishTeacher(c *fiber.Ctx, teacher dto.TeacherResponse) error {
	return h.sessions.Establish(c, session.Session{
		Role:        session.RoleTeacher,
		ActorID:     teacher.ID,
		DisplayName: teacher.Username,
	})
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return utils.SendError(c, fiber.StatusConflict, "username already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrTeacherNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
	case errors.Is(err, service.ErrValidation) || isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AuthHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
