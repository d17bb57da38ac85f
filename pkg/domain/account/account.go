// Package account contains the account aggregate and the transaction ledger
// entry. All balance-changing rules live here; services orchestrate
// persistence around them.
package account

import (
	"fmt"
	"time"

	"github.com/corebank/ledger/pkg/currency"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/money"
	"github.com/google/uuid"
)

// Type classifies an account.
type Type string

// Supported account types.
const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
	TypeCredit   Type = "credit"
)

// ValidType reports whether t is a known account type.
func ValidType(t Type) bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCredit:
		return true
	}
	return false
}

// Status is the lifecycle state of an account. Accounts are never deleted,
// only status-transitioned.
type Status string

// Account statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusFrozen   Status = "frozen"
)

// Account is the aggregate for a user's balance in one currency.
//
// Invariants:
//   - Exactly one immutable owner (UserID).
//   - Balance >= -OverdraftLimit after every committed mutation.
//   - Balance and OverdraftLimit always share the account currency.
//
// Version carries the optimistic-concurrency token; the store rejects a
// balance write whose version is stale.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Number         string
	Type           Type
	Balance        money.Money
	OverdraftLimit money.Money
	InterestRate   float64
	Status         Status
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Builder provides a fluent API for constructing Account instances, both for
// new accounts and for hydration from the store.
type Builder struct {
	id             uuid.UUID
	userID         uuid.UUID
	number         string
	accountType    Type
	balance        int64
	overdraftLimit int64
	interestRate   float64
	currency       currency.Code
	status         Status
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// New creates a Builder with sensible defaults: fresh UUID, checking type,
// default currency, active status, zero balance and overdraft.
func New() *Builder {
	return &Builder{
		id:          uuid.New(),
		accountType: TypeChecking,
		currency:    currency.DefaultCurrency,
		status:      StatusActive,
		createdAt:   time.Now().UTC(),
	}
}

// WithID sets the account id.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. Mandatory.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithNumber sets the externally searchable account number. Mandatory.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

// WithCurrency sets the account currency.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithBalance sets the balance in the smallest currency unit. Used for
// hydration and test setup.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithOverdraftLimit sets the overdraft limit in the smallest currency unit.
func (b *Builder) WithOverdraftLimit(limit int64) *Builder {
	b.overdraftLimit = limit
	return b
}

// WithInterestRate sets the interest rate attribute. Accrual is out of scope.
func (b *Builder) WithInterestRate(rate float64) *Builder {
	b.interestRate = rate
	return b
}

// WithStatus sets the lifecycle status.
func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

// WithVersion sets the optimistic-concurrency version. Hydration only.
func (b *Builder) WithVersion(v int64) *Builder {
	b.version = v
	return b
}

// WithCreatedAt sets the creation timestamp. Hydration only.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. Hydration only.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !currency.IsValidCurrencyFormat(string(b.currency)) ||
		!currency.IsSupported(string(b.currency)) {
		return nil, common.ErrInvalidCurrencyCode
	}
	if b.userID == uuid.Nil {
		return nil, fmt.Errorf("%w: userID is required", common.ErrInvalidInput)
	}
	if len(b.number) < 3 {
		return nil, fmt.Errorf("%w: account number must be at least 3 characters",
			common.ErrInvalidInput)
	}
	if !ValidType(b.accountType) {
		return nil, fmt.Errorf("%w: unknown account type %q",
			common.ErrInvalidInput, b.accountType)
	}
	if b.overdraftLimit < 0 {
		return nil, fmt.Errorf("%w: overdraft limit cannot be negative",
			common.ErrInvalidInput)
	}
	balance, err := money.NewFromData(b.balance, string(b.currency))
	if err != nil {
		return nil, err
	}
	overdraft, err := money.NewFromData(b.overdraftLimit, string(b.currency))
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:             b.id,
		UserID:         b.userID,
		Number:         b.number,
		Type:           b.accountType,
		Balance:        balance,
		OverdraftLimit: overdraft,
		InterestRate:   b.interestRate,
		Status:         b.status,
		Version:        b.version,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.updatedAt,
	}, nil
}

// Currency returns the account currency.
func (a *Account) Currency() currency.Code {
	return a.Balance.Currency()
}

// IsActive reports whether the account accepts money movement.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// OwnedBy reports whether the account belongs to the given user.
func (a *Account) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// CanDebit reports whether debiting amount keeps the balance within the
// overdraft limit. Currencies must match.
func (a *Account) CanDebit(amount money.Money) (bool, error) {
	post, err := a.Balance.Subtract(amount)
	if err != nil {
		return false, err
	}
	floor := a.OverdraftLimit.Negate()
	below, err := post.LessThan(floor)
	if err != nil {
		return false, err
	}
	return !below, nil
}

// Debit removes funds from the account.
// Invariants enforced:
//   - Amount must be positive.
//   - Amount currency must match the account currency.
//   - Post-debit balance must satisfy balance >= -overdraftLimit.
func (a *Account) Debit(amount money.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: debit amount must be positive", common.ErrInvalidAmount)
	}
	if !a.Balance.IsSameCurrency(amount) {
		return common.ErrCurrencyMismatch
	}
	ok, err := a.CanDebit(amount)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInsufficientFunds
	}
	post, err := a.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	a.Balance = post
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Credit adds funds to the account.
// Invariants enforced:
//   - Amount must be positive.
//   - Amount currency must match the account currency.
func (a *Account) Credit(amount money.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: credit amount must be positive", common.ErrInvalidAmount)
	}
	if !a.Balance.IsSameCurrency(amount) {
		return common.ErrCurrencyMismatch
	}
	post, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = post
	a.UpdatedAt = time.Now().UTC()
	return nil
}
