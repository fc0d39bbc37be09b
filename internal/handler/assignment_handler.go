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

// AssignmentHandler wires assignment HTTP routes for teachers and students.
type AssignmentHandler struct {
	assignments service.AssignmentService
	submissions service.SubmissionService
	logger      zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments service.AssignmentService, submissions service.SubmissionService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		submissions: submissions,
		logger:      logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// RegisterClassRoutes attaches the per-class assignment endpoints to the
// teacher-guarded classes group.
func (h *AssignmentHandler) RegisterClassRoutes(router fiber.Router) {
	router.Get("/:id/assignments", h.listForClass)
	router.Post("/:id/assignments", h.create)
}

// RegisterTeacherRoutes attaches the teacher-facing assignment endpoints.
// Guards attach per route because teacher and student routes share the
// /assignments prefix.
func (h *AssignmentHandler) RegisterTeacherRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Delete("/:id", withGuards(guards, h.delete)...)
	router.Get("/:id/submissions", withGuards(guards, h.listSubmissions)...)
	router.Put("/:id/submissions/:studentID", withGuards(guards, h.setStudentStatus)...)
}

// RegisterStudentRoutes attaches the student-facing assignment endpoints.
func (h *AssignmentHandler) RegisterStudentRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Get("", withGuards(guards, h.listForStudent)...)
	router.Put("/:id/status", withGuards(guards, h.setOwnStatus)...)
}

func (h *AssignmentHandler) listForClass(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignments, err := h.assignments.ListForClass(c.Context(), sess.ActorID, classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.assignments.Create(c.Context(), sess.ActorID, classID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.assignments.Delete(c.Context(), sess.ActorID, id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment deleted", fiber.Map{"id": id})
}

func (h *AssignmentHandler) listSubmissions(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	statuses, err := h.submissions.ListForAssignment(c.Context(), sess.ActorID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission statuses retrieved", statuses)
}

func (h *AssignmentHandler) setStudentStatus(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmissionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.submissions.SetStatusAsTeacher(c.Context(), sess.ActorID, assignmentID, studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission status updated", submission)
}

func (h *AssignmentHandler) listForStudent(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	statuses, err := h.submissions.ListForStudent(c.Context(), sess.ClassID, sess.ActorID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", statuses)
}

func (h *AssignmentHandler) setOwnStatus(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromContext(c)

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmissionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.submissions.SetStatusAsStudent(c.Context(), sess.ActorID, assignmentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission status updated", submission)
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrNotClassOwner):
		return utils.SendError(c, fiber.StatusForbidden, "class belongs to another teacher")
	case errors.Is(err, service.ErrValidation) || isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AssignmentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
