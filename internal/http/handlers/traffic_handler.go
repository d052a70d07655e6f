package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

type TrafficHandler struct {
	trafficService *services.TrafficService
	cfg            *config.Config
	log            *zap.Logger
}

func NewTrafficHandler(trafficService *services.TrafficService, cfg *config.Config, log *zap.Logger) *TrafficHandler {
	return &TrafficHandler{trafficService: trafficService, cfg: cfg, log: log}
}

func (h *TrafficHandler) Catalog(c *fiber.Ctx) error {
	products, err := h.trafficService.Catalog(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: products})
}

func (h *TrafficHandler) ReplaceCatalog(c *fiber.Ctx) error {
	var products []models.TrafficProduct
	if err := c.BodyParser(&products); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	saved, err := h.trafficService.ReplaceCatalog(c.UserContext(), middleware.GetUID(c), products)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: saved})
}

func (h *TrafficHandler) Order(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}
	var order services.TrafficOrder
	if err := c.BodyParser(&order); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.trafficService.Order(c.UserContext(), sid, order)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *TrafficHandler) ListRequests(c *fiber.Ctx) error {
	filter := repositories.TrafficFilter{
		Status: queryString(c, "status"),
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}

	requests, err := h.trafficService.List(c.UserContext(), actor(c, h.cfg), filter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: requests})
}

func (h *TrafficHandler) PaymentReceived(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid traffic request id")
	}
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}
	var req dto.ReceivedRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.trafficService.SetPaymentReceived(c.UserContext(), sid, id, req.Received); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *TrafficHandler) SetDeposit(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid traffic request id")
	}
	var req dto.DepositCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	t, err := h.trafficService.SetDeposit(c.UserContext(), middleware.GetUID(c), id, req.Confirmed)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}
