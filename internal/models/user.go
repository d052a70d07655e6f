package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a reviewer's main account. Its id is derived from name and phone.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// UserWithStats adds review counters for the member management screen.
type UserWithStats struct {
	User
	SubAccountCount int        `json:"sub_account_count"`
	ReviewCount     int        `json:"review_count"`
	LastReviewAt    *time.Time `json:"last_review_at,omitempty"`
}

// SubAccount is an alternate purchasing identity of a main account.
type SubAccount struct {
	ID                uuid.UUID `json:"id"`
	MainAccountID     string    `json:"main_account_id"`
	Name              string    `json:"name"`
	PhoneNumber       string    `json:"phone_number"`
	Address           string    `json:"address"`
	Bank              string    `json:"bank"`
	BankNumber        string    `json:"bank_number"`
	AccountHolderName string    `json:"account_holder_name"`
	ParticipantID     string    `json:"participant_id"`
	CreatedAt         time.Time `json:"created_at"`
}

type Address struct {
	ID            uuid.UUID `json:"id"`
	MainAccountID string    `json:"main_account_id"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
}
