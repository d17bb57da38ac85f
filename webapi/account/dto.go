package account

// CreateAccountRequest is the body for opening a new account. Both fields
// are optional; the defaults are a USD checking account.
type CreateAccountRequest struct {
	AccountType string `json:"accountType" validate:"omitempty,oneof=checking savings credit"`
	Currency    string `json:"currency" validate:"omitempty,len=3,uppercase"`
}
