package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService *services.AccountService
	log            *zap.Logger
}

func NewAccountHandler(accountService *services.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, log: log}
}

func (h *AccountHandler) MergeAccounts(c *fiber.Ctx) error {
	var req services.MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.DestUID == "" || req.DestPhone == "" || req.SourceUID == "" || req.SourcePhone == "" {
		return fail(c, fiber.StatusBadRequest, "missing params")
	}

	res, err := h.accountService.Merge(c.UserContext(), middleware.GetUID(c), req)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.MergeResponse{Success: true, Data: res})
}

func (h *AccountHandler) Members(c *fiber.Ctx) error {
	members, err := h.accountService.Members(c.UserContext(), c.Query("search"), queryInt(c, "limit", 100), queryInt(c, "offset", 0))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: members})
}

func (h *AccountHandler) SubAccounts(c *fiber.Ctx) error {
	subs, err := h.accountService.SubAccounts(c.UserContext(), middleware.GetUID(c))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: subs})
}

func (h *AccountHandler) AddSubAccount(c *fiber.Ctx) error {
	var sub models.SubAccount
	if err := c.BodyParser(&sub); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.accountService.AddSubAccount(c.UserContext(), middleware.GetUID(c), &sub); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: sub})
}

func (h *AccountHandler) RemoveSubAccount(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid sub-account id")
	}

	if err := h.accountService.RemoveSubAccount(c.UserContext(), middleware.GetUID(c), id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *AccountHandler) Addresses(c *fiber.Ctx) error {
	addrs, err := h.accountService.Addresses(c.UserContext(), middleware.GetUID(c))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: addrs})
}

func (h *AccountHandler) AddAddress(c *fiber.Ctx) error {
	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	addr, err := h.accountService.AddAddress(c.UserContext(), middleware.GetUID(c), req.Address)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: addr})
}
