package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Auth

type ReviewerLoginRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Reviews

type ConfirmImagesRequest struct {
	URLs []string `json:"urls"`
}

type IDsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// Accounts

type AddressRequest struct {
	Address string `json:"address"`
}

// Products

type BulkUpdateRequest struct {
	IDs   []uuid.UUID `json:"ids"`
	Field string      `json:"field"`
	Value string      `json:"value"`
}

type CreateLinkRequest struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
}

// Campaigns

type PaymentReceivedRequest struct {
	IDs      []uuid.UUID `json:"ids"`
	Received bool        `json:"received"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type CancelRequest struct {
	Quantity int `json:"quantity"` // 0 cancels the whole campaign
}

type PaymentTypeRequest struct {
	PaymentType string `json:"payment_type"`
}

type CapacityRequest struct {
	Capacity int `json:"capacity"`
}

type ReservationSettingsRequest struct {
	AllowSameDay bool `json:"allow_same_day"`
}

// Traffic

type ReceivedRequest struct {
	Received bool `json:"received"`
}

type DepositCheckRequest struct {
	Confirmed bool `json:"confirmed"`
}

// Sellers

type AdjustDepositRequest struct {
	Amount decimal.Decimal `json:"amount"` // negative debits
}

type RankSearchRequest struct {
	Keyword    string `json:"keyword"`
	ProductURL string `json:"product_url"`
}
