package models

import (
	"time"

	"github.com/google/uuid"
)

type Seller struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Nickname       string    `json:"nickname"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	BusinessNumber string    `json:"business_number"`
	Deposit        string    `json:"deposit"` // numeric as string
	CreatedAt      time.Time `json:"created_at"`
}

type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
