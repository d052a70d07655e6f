package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductTemplate is a saved reservation form a seller can reuse.
// A seller holds at most one template per (product_url, product_option).
type ProductTemplate struct {
	ID            uuid.UUID `json:"id"`
	SellerID      uuid.UUID `json:"seller_id"`
	DeliveryType  string    `json:"delivery_type"`
	ReviewType    string    `json:"review_type"`
	Quantity      int       `json:"quantity"`
	ProductName   string    `json:"product_name"`
	ProductOption string    `json:"product_option"`
	ProductPrice  string    `json:"product_price"` // numeric as string
	ProductURL    string    `json:"product_url"`
	Keywords      string    `json:"keywords"`
	ReviewGuide   string    `json:"review_guide"`
	Remarks       string    `json:"remarks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
