package dto

import (
	"time"

	"github.com/google/uuid"
)

// AccountRead is a read-optimized DTO for account queries and API responses.
type AccountRead struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	AccountNumber  string    `json:"accountNumber"`
	AccountType    string    `json:"accountType"`
	Balance        float64   `json:"balance"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	OverdraftLimit float64   `json:"overdraftLimit"`
	InterestRate   float64   `json:"interestRate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AccountCreate is the input for opening a new account.
type AccountCreate struct {
	UserID      uuid.UUID
	AccountType string
	Currency    string
}

// AccountSearchResult is the minimal projection returned when searching for
// a recipient account by number. The owner's email is masked before it
// leaves the core.
type AccountSearchResult struct {
	ID            uuid.UUID `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	OwnerName     string    `json:"ownerName"`
	OwnerEmail    string    `json:"ownerEmail"`
}
