package dto

import "github.com/google/uuid"

// DirectoryAccount is the per-account projection in the recipient directory.
type DirectoryAccount struct {
	ID            uuid.UUID `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
}

// DirectoryUser is one entry of the recipient directory: another user with
// at least one active account, email masked.
type DirectoryUser struct {
	ID        uuid.UUID          `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Accounts  []DirectoryAccount `json:"accounts"`
}
