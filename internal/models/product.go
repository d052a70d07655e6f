package models

import (
	"time"

	"github.com/google/uuid"
)

// Product progress statuses
const (
	ProgressBefore  = "진행전"
	ProgressActive  = "진행중"
	ProgressDone    = "진행완료"
	ProgressPartial = "일부완료"
	ProgressOnHold  = "보류"
)

var AllProgressStatuses = []string{ProgressBefore, ProgressActive, ProgressDone, ProgressPartial, ProgressOnHold}

func IsValidProgressStatus(s string) bool {
	for _, p := range AllProgressStatuses {
		if p == s {
			return true
		}
	}
	return false
}

type Product struct {
	ID             uuid.UUID  `json:"id"`
	ProductName    string     `json:"product_name"`
	ReviewType     string     `json:"review_type"`  // payment kind: 현영 / 자율결제
	ProductType    string     `json:"product_type"` // delivery: 실배송 / 빈박스
	ReviewOption   string     `json:"review_option"`
	ProgressStatus string     `json:"progress_status"`
	ReviewDate     *time.Time `json:"review_date,omitempty"`
	Guide          string     `json:"guide"`
	ProductURL     string     `json:"product_url"`
	Keywords       string     `json:"keywords"`
	Quantity       int        `json:"quantity"`
	SellerID       *uuid.UUID `json:"seller_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Link is a shareable review form prefilled by an admin.
type Link struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	GeneratedLink string     `json:"generated_link"`
	CreatedAt     time.Time  `json:"created_at"`
}
