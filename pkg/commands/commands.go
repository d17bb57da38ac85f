// Package commands contains command DTOs for service and handler
// orchestration.
package commands

import "github.com/google/uuid"

// Deposit is the command for crediting an account. Deposits are accepted to
// any active account, so there is no caller field.
type Deposit struct {
	AccountID   uuid.UUID
	Amount      float64
	Description string
	// Reference is the idempotency token. Left empty, the engine generates
	// one; a retry must carry the reference of the original attempt.
	Reference string
}

// Withdraw is the command for debiting an account owned by UserID.
type Withdraw struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	Amount      float64
	Description string
	Reference   string
}

// Transfer is the command for moving funds between two accounts. UserID must
// own FromAccountID.
type Transfer struct {
	UserID        uuid.UUID
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        float64
	Description   string
	Reference     string
}
