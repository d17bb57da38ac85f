package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRead is a read-optimized DTO for ledger entries.
type TransactionRead struct {
	ID            uuid.UUID  `json:"id"`
	Reference     string     `json:"reference"`
	FromAccountID *uuid.UUID `json:"fromAccountId,omitempty"`
	ToAccountID   *uuid.UUID `json:"toAccountId,omitempty"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Pagination describes the window of a paged query result.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// TransactionPage is one page of an account's transaction history,
// newest first.
type TransactionPage struct {
	Transactions []TransactionRead `json:"transactions"`
	Pagination   Pagination        `json:"pagination"`
}
