package models

import (
	"time"

	"github.com/google/uuid"
)

// Traffic request statuses
const (
	TrafficStatusUnconfirmed = "미확정"
	TrafficStatusConfirmed   = "예약 확정"
)

var ValidTrafficTransitions = map[string][]string{
	TrafficStatusUnconfirmed: {TrafficStatusConfirmed},
	TrafficStatusConfirmed:   {},
}

func IsValidTrafficTransition(from, to string) bool {
	return isValidTransition(ValidTrafficTransitions, from, to)
}

// TrafficProduct is one row of the traffic-boost catalog.
type TrafficProduct struct {
	ID           uuid.UUID `json:"id"`
	Category     string    `json:"category"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	RetailPrice  int64     `json:"retail_price"`
	DiscountRate float64   `json:"discount_rate"`
	SortOrder    int       `json:"sort_order"`
	SalePrice    int64     `json:"sale_price"`
}

type TrafficRequest struct {
	ID               uuid.UUID  `json:"id"`
	SellerID         uuid.UUID  `json:"seller_id"`
	Category         string     `json:"category"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	SalePrice        int64      `json:"sale_price"`
	Quantity         int        `json:"quantity"`
	RequestDate      time.Time  `json:"request_date"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	Status           string     `json:"status"`
	PaymentReceived  bool       `json:"payment_received"`
	DepositConfirmed bool       `json:"deposit_confirmed"`
	ItemTotal        int64      `json:"item_total"`
	FinalItemAmount  int64      `json:"final_item_amount"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
