package transaction

// DepositRequest is the body for crediting an account.
type DepositRequest struct {
	AccountID   string  `json:"accountId" validate:"required,uuid"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=500"`
	Reference   string  `json:"reference" validate:"omitempty,max=64"`
}

// WithdrawRequest is the body for debiting an owned account.
type WithdrawRequest struct {
	AccountID   string  `json:"accountId" validate:"required,uuid"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=500"`
	Reference   string  `json:"reference" validate:"omitempty,max=64"`
}

// TransferRequest is the body for moving funds between accounts. The
// destination is either an account id or an account number; exactly one must
// be set.
type TransferRequest struct {
	FromAccountID   string  `json:"fromAccountId" validate:"required,uuid"`
	ToAccountID     string  `json:"toAccountId" validate:"omitempty,uuid"`
	ToAccountNumber string  `json:"toAccountNumber" validate:"omitempty,min=3,max=32"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Description     string  `json:"description" validate:"required,max=500"`
	Reference       string  `json:"reference" validate:"omitempty,max=64"`
}
