package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusPending           = "예약 대기"
	CampaignStatusConfirmed         = "예약 확정"
	CampaignStatusPurchased         = "구매완료"
	CampaignStatusReviewed          = "리뷰완료"
	CampaignStatusSellerFaultCancel = "판매자귀책취소"
)

// Valid campaign transitions: from -> []to. Backward steps are admin corrections.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusPending:           {CampaignStatusConfirmed, CampaignStatusSellerFaultCancel},
	CampaignStatusConfirmed:         {CampaignStatusPending, CampaignStatusPurchased, CampaignStatusSellerFaultCancel},
	CampaignStatusPurchased:         {CampaignStatusConfirmed, CampaignStatusReviewed, CampaignStatusSellerFaultCancel},
	CampaignStatusReviewed:          {CampaignStatusPurchased},
	CampaignStatusSellerFaultCancel: {},
}

func IsValidCampaignTransition(from, to string) bool {
	return isValidTransition(ValidCampaignTransitions, from, to)
}

func isValidTransition(table map[string][]string, from, to string) bool {
	allowed, ok := table[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID                        uuid.UUID  `json:"id"`
	SellerID                  uuid.UUID  `json:"seller_id"`
	ProductID                 *uuid.UUID `json:"product_id,omitempty"`
	Date                      time.Time  `json:"date"`
	DeliveryType              string     `json:"delivery_type"`
	ReviewType                string     `json:"review_type"`
	Quantity                  int        `json:"quantity"`
	ProductName               string     `json:"product_name"`
	ProductOption             string     `json:"product_option"`
	ProductPrice              string     `json:"product_price"` // numeric as string
	ProductURL                string     `json:"product_url"`
	Keywords                  string     `json:"keywords"`
	ReviewGuide               string     `json:"review_guide"`
	Remarks                   string     `json:"remarks"`
	Status                    string     `json:"status"`
	PaymentReceived           bool       `json:"payment_received"`
	PaymentType               string     `json:"payment_type"`
	IsVATApplied              bool       `json:"is_vat_applied"`
	ReviewFee                 int64      `json:"review_fee"`
	ProductPriceWithAgencyFee string     `json:"product_price_with_agency_fee"`
	Subtotal                  int64      `json:"subtotal"`
	VAT                       int64      `json:"vat"`
	FinalTotalAmount          int64      `json:"final_total_amount"`
	ItemTotal                 string     `json:"item_total"`
	ConfirmedAt               *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

// CampaignWithSeller embeds Campaign and adds the seller nickname for admin screens.
type CampaignWithSeller struct {
	Campaign
	SellerNickname *string `json:"seller_nickname,omitempty"`
}

// DailyCapacity is the ceiling on confirmed campaign quantity for one calendar day.
type DailyCapacity struct {
	Date     time.Time `json:"date"`
	Capacity int       `json:"capacity"`
}

type ReservationSettings struct {
	AllowSameDay bool `json:"allow_same_day"`
}
