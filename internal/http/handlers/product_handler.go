package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type ProductHandler struct {
	productService *services.ProductService
	log            *zap.Logger
}

func NewProductHandler(productService *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, log: log}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.productService.Create(c.UserContext(), middleware.GetUID(c), &p); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: p})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}

	p, err := h.productService.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: p})
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		ProgressStatus: queryString(c, "progress_status"),
		ProductType:    queryString(c, "product_type"),
		ReviewType:     queryString(c, "review_type"),
		Search:         c.Query("search"),
		Limit:          queryInt(c, "limit", 100),
		Offset:         queryInt(c, "offset", 0),
	}

	products, err := h.productService.List(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: products})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	p.ID = id

	if err := h.productService.Update(c.UserContext(), middleware.GetUID(c), &p); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: p})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.productService.Delete(c.UserContext(), middleware.GetUID(c), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ProductHandler) BulkUpdate(c *fiber.Ctx) error {
	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	n, err := h.productService.BulkUpdate(c.UserContext(), middleware.GetUID(c), req.IDs, req.Field, req.Value)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"updated": n}})
}

// Links

func (h *ProductHandler) CreateLink(c *fiber.Ctx) error {
	var req dto.CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	link := &models.Link{Title: req.Title, Content: req.Content, ProductID: req.ProductID}
	if err := h.productService.CreateLink(c.UserContext(), middleware.GetUID(c), link); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: link})
}

func (h *ProductHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.productService.ListLinks(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: links})
}

// GetLink is public: it backs the dynamic review form.
func (h *ProductHandler) GetLink(c *fiber.Ctx) error {
	form, err := h.productService.GetLink(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: form})
}

func (h *ProductHandler) DeleteLink(c *fiber.Ctx) error {
	if err := h.productService.DeleteLink(c.UserContext(), middleware.GetUID(c), c.Params("id")); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
