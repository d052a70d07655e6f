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

type CampaignHandler struct {
	campaignService *services.CampaignService
	settingsService *services.SettingsService
	cfg             *config.Config
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, settingsService *services.SettingsService, cfg *config.Config, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, settingsService: settingsService, cfg: cfg, log: log}
}

func (h *CampaignHandler) Quote(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}
	var req services.ReserveRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	quote, err := h.campaignService.Quote(c.UserContext(), sid, req)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: quote})
}

func (h *CampaignHandler) Reserve(c *fiber.Ctx) error {
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}
	var req services.ReserveRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.campaignService.Reserve(c.UserContext(), sid, req)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *CampaignHandler) listFilter(c *fiber.Ctx) (repositories.CampaignFilter, error) {
	filter := repositories.CampaignFilter{
		Status: queryString(c, "status"),
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if month := c.Query("month"); month != "" {
		from, to, err := services.MonthRange(month)
		if err != nil {
			return filter, err
		}
		filter.From, filter.To = &from, &to
	}
	return filter, nil
}

// ListCampaigns serves both the seller's own list and the admin list.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	filter, err := h.listFilter(c)
	if err != nil {
		return serviceError(c, h.log, err)
	}

	campaigns, err := h.campaignService.List(c.UserContext(), actor(c, h.cfg), filter)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}

	campaign, err := h.campaignService.Get(c.UserContext(), actor(c, h.cfg), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}
	var patch services.CampaignPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.campaignService.UpdateItem(c.UserContext(), actor(c, h.cfg), id, patch)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: updated})
}

func (h *CampaignHandler) PaymentReceived(c *fiber.Ctx) error {
	var req dto.PaymentReceivedRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	n, err := h.campaignService.SetPaymentReceived(c.UserContext(), actor(c, h.cfg), req.IDs, req.Received)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"updated": n}})
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}
	sid, ok := sellerID(c)
	if !ok {
		return fail(c, fiber.StatusForbidden, "seller account required")
	}

	if err := h.campaignService.Delete(c.UserContext(), sid, id); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Admin

func (h *CampaignHandler) ChangeStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	campaign, err := h.campaignService.ChangeStatus(c.UserContext(), middleware.GetUID(c), id, req.Status)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) History(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}

	logs, err := h.campaignService.History(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}

func (h *CampaignHandler) CancelSellerFault(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}
	var req dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	res, err := h.campaignService.CancelSellerFault(c.UserContext(), middleware.GetUID(c), id, req.Quantity)
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *CampaignHandler) SetPaymentType(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid campaign id")
	}
	var req dto.PaymentTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.campaignService.SetPaymentType(c.UserContext(), middleware.GetUID(c), id, req.PaymentType); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// Calendar

func (h *CampaignHandler) Calendar(c *fiber.Ctx) error {
	days, err := h.campaignService.Calendar(c.UserContext(), actor(c, h.cfg), c.Query("month"))
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: days})
}

func (h *CampaignHandler) SetCapacity(c *fiber.Ctx) error {
	var req dto.CapacityRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.campaignService.SetCapacity(c.UserContext(), middleware.GetUID(c), c.Params("date"), req.Capacity); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) ReservationSettings(c *fiber.Ctx) error {
	rs, err := h.settingsService.Reservation(c.UserContext())
	if err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rs})
}

func (h *CampaignHandler) UpdateReservationSettings(c *fiber.Ctx) error {
	var req dto.ReservationSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	rs := models.ReservationSettings{AllowSameDay: req.AllowSameDay}
	if err := h.settingsService.UpdateReservation(c.UserContext(), middleware.GetUID(c), rs); err != nil {
		return serviceError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rs})
}
