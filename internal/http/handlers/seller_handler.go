package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type SellerHandler struct {
	sellerService *services.SellerService
	log           *zap.Logger
}

func NewSellerHandler(sellerService *services.SellerService, log *zap.Logger) *SellerHandler {
	return &SellerHandler{sellerService: sellerService, log: log}
}

func (h *SellerHandler) ListSellers(c *fiber.Ctx) error {
	sellers, err := h.sellerService.List(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sellers})
}

// Profile returns the calling seller with the current deposit.
func (h *SellerHandler) Profile(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}

	seller, err := h.sellerService.Get(c.UserContext(), sid)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: seller})
}

func (h *SellerHandler) AdjustDeposit(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid seller id")
	}
	var req dto.AdjustDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	balance, err := h.sellerService.AdjustDeposit(c.UserContext(), middleware.GetUID(c), id, req.Amount)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"deposit": balance.String()}})
}

func (h *SellerHandler) DeleteSeller(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid seller id")
	}

	if err := h.sellerService.Delete(c.UserContext(), middleware.GetUID(c), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
