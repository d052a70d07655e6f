package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	templateService *services.TemplateService
	log             *zap.Logger
}

func NewTemplateHandler(templateService *services.TemplateService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, log: log}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}

	templates, err := h.templateService.List(c.UserContext(), sid, c.Query("search"))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: templates})
}

func (h *TemplateHandler) Save(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}
	var req services.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	t, err := h.templateService.Save(c.UserContext(), sid, req)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid template id")
	}
	var req services.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	t, err := h.templateService.Update(c.UserContext(), sid, id, req)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid template id")
	}
	return h.delete(c, []uuid.UUID{id})
}

// DeleteMany removes the templates listed in {"ids": [...]}.
func (h *TemplateHandler) DeleteMany(c *fiber.Ctx) error {
	var body struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	return h.delete(c, body.IDs)
}

func (h *TemplateHandler) delete(c *fiber.Ctx, ids []uuid.UUID) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}

	n, err := h.templateService.Delete(c.UserContext(), sid, ids)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"deleted": n}})
}
