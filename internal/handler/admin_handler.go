package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
	"github.com/noah-isme/classwork-tracker-api/internal/service"
	"github.com/noah-isme/classwork-tracker-api/internal/utils"
)

// AdminHandler exposes raw table editing, CSV round trips, and the activity
// feed. Every route sits behind the admin secret gate.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches admin endpoints to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/tables/:table", h.listTable)
	router.Patch("/tables/:table/:id", h.updateRow)
	router.Delete("/tables/:table/:id", h.deleteRow)
	router.Get("/tables/:table/export", h.exportTable)
	router.Post("/tables/:table/import", h.importTable)
	router.Get("/activity", h.listActivity)
}

func (h *AdminHandler) listTable(c *fiber.Ctx) error {
	table, err := h.service.ListTable(c.Context(), c.Params("table"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "table retrieved", table)
}

func (h *AdminHandler) updateRow(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AdminRowUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.UpdateRow(c.Context(), c.Params("table"), id, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "row updated", fiber.Map{"id": id})
}

func (h *AdminHandler) deleteRow(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteRow(c.Context(), c.Params("table"), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "row deleted", fiber.Map{"id": id})
}

func (h *AdminHandler) exportTable(c *fiber.Ctx) error {
	table := c.Params("table")

	data, err := h.service.ExportTable(c.Context(), table)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.csv", table))
	return c.Send(data)
}

func (h *AdminHandler) importTable(c *fiber.Ctx) error {
	data := c.Body()
	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "could not read upload")
		}
		defer opened.Close()

		buf, err := io.ReadAll(opened)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "could not read upload")
		}
		data = buf
	}

	if len(data) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "empty import payload")
	}

	count, err := h.service.ImportTable(c.Context(), c.Params("table"), data)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "table imported", fiber.Map{"rows": count})
}

func (h *AdminHandler) listActivity(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	filter := repository.ActivityLogFilter{
		ActorRole:  c.Query("actor_role"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Page:       page,
		PageSize:   pageSize,
	}

	entries, total, err := h.service.ListActivity(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity retrieved", fiber.Map{
		"entries": entries,
		"total":   total,
	})
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrUnknownTable):
		return utils.SendError(c, fiber.StatusNotFound, "unknown table")
	case errors.Is(err, service.ErrRowNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "row not found")
	case errors.Is(err, service.ErrUnsupportedImport):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrValidation) || isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AdminHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
