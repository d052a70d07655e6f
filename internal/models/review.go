package models

import (
	"time"

	"github.com/google/uuid"
)

// Review statuses
const (
	ReviewStatusSubmitted       = "submitted"
	ReviewStatusReviewCompleted = "review_completed"
	ReviewStatusVerified        = "verified"
	ReviewStatusRejected        = "rejected"
	ReviewStatusSettled         = "settled"
)

var ValidReviewTransitions = map[string][]string{
	ReviewStatusSubmitted:       {ReviewStatusReviewCompleted, ReviewStatusVerified, ReviewStatusRejected},
	ReviewStatusReviewCompleted: {ReviewStatusVerified, ReviewStatusRejected},
	ReviewStatusVerified:        {ReviewStatusSettled, ReviewStatusRejected},
	ReviewStatusRejected:        {ReviewStatusSubmitted},
	ReviewStatusSettled:         {},
}

func IsValidReviewTransition(from, to string) bool {
	return isValidTransition(ValidReviewTransitions, from, to)
}

type Review struct {
	ID                uuid.UUID           `json:"id"`
	UUIDReview        *string             `json:"uuid_review,omitempty"`
	MainAccountID     *string             `json:"main_account_id,omitempty"`
	SubAccountID      *uuid.UUID          `json:"sub_account_id,omitempty"`
	ProductID         *uuid.UUID          `json:"product_id,omitempty"`
	ProductName       string              `json:"product_name"`
	ReviewType        string              `json:"review_type"`
	Name              string              `json:"name"`
	PhoneNumber       string              `json:"phone_number"`
	Address           string              `json:"address"`
	Bank              string              `json:"bank"`
	BankNumber        string              `json:"bank_number"`
	AccountHolderName string              `json:"account_holder_name"`
	OrderNumber       string              `json:"order_number"`
	RewardAmount      string              `json:"reward_amount"`
	ParticipantID     string              `json:"participant_id"`
	PaymentType       string              `json:"payment_type"`
	ProductType       string              `json:"product_type"`
	ReviewOption      string              `json:"review_option"`
	ImageURLs         map[string][]string `json:"image_urls,omitempty"`
	ConfirmImageURLs  []string            `json:"confirm_image_urls,omitempty"`
	Status            string              `json:"status"`
	RejectionReason   *string             `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	ConfirmedAt       *time.Time          `json:"confirmed_at,omitempty"`
	VerifiedAt        *time.Time          `json:"verified_at,omitempty"`
	RejectedAt        *time.Time          `json:"rejected_at,omitempty"`
	SettledAt         *time.Time          `json:"settled_at,omitempty"`
}

// DisplayStatus mirrors what reviewers see: a submitted review with
// confirmation images already counts as completed.
func (r *Review) DisplayStatus() string {
	if (r.Status == ReviewStatusSubmitted || r.Status == "") && len(r.ConfirmImageURLs) > 0 {
		return ReviewStatusReviewCompleted
	}
	if r.Status == "" {
		return ReviewStatusSubmitted
	}
	return r.Status
}
