package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/http/dto"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/pricing"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaFee struct {
	DeliveryType string `json:"delivery_type"`
	ReviewType   string `json:"review_type"`
	Fee          int64  `json:"fee"`
}

// GetFees lists every offered delivery/review combination with its base fee.
func (h *MetaHandler) GetFees(c *fiber.Ctx) error {
	var fees []MetaFee
	for _, d := range []pricing.DeliveryType{pricing.DeliveryOnSite, pricing.DeliveryEmptyBox} {
		for _, r := range pricing.ReviewTypesFor(d) {
			fees = append(fees, MetaFee{DeliveryType: string(d), ReviewType: string(r), Fee: pricing.BaseFee(d, r)})
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"fees":             fees,
		"sunday_surcharge": pricing.SundaySurcharge,
		"agency_fee_rate":  pricing.AgencyFeeRate.String(),
		"vat_rate":         pricing.VATRate.String(),
	}})
}

func (h *MetaHandler) GetStatuses(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"campaign": models.ValidCampaignTransitions,
		"review":   models.ValidReviewTransitions,
		"traffic":  models.ValidTrafficTransitions,
		"progress": models.AllProgressStatuses,
		"payment":  []string{pricing.PaymentCashReceipt, pricing.PaymentFree},
	}})
}
