package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/money"
	"github.com/google/uuid"
)

// MaxDescriptionLength bounds the free-text description on a ledger entry.
const MaxDescriptionLength = 500

// TransactionType classifies a ledger entry.
type TransactionType string

// Ledger entry types.
const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
	TransactionPayment    TransactionType = "payment"
)

// TransactionStatus is the lifecycle state of a ledger entry. The only
// permitted transitions are pending -> completed and pending -> failed.
type TransactionStatus string

// Ledger entry statuses.
const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is one immutable money-movement event.
//
// Shape invariants by type:
//   - transfer:   FromAccountID and ToAccountID set and distinct
//   - deposit:    only ToAccountID set
//   - withdrawal: only FromAccountID set
//
// Reference is a globally unique idempotency and audit token; replaying an
// operation with the same reference must not produce a second entry.
type Transaction struct {
	ID            uuid.UUID
	Reference     string
	FromAccountID *uuid.UUID
	ToAccountID   *uuid.UUID
	Amount        money.Money
	Type          TransactionType
	Description   string
	Status        TransactionStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewReference generates a new transaction reference. The millisecond
// timestamp keeps references roughly sortable; the uuid fragment makes them
// unique.
func NewReference() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("TXN-%d-%s", time.Now().UTC().UnixMilli(), frag)
}

// NewDeposit creates a pending deposit entry crediting the given account.
func NewDeposit(toAccountID uuid.UUID, amount money.Money, description, reference string) (*Transaction, error) {
	t := &Transaction{
		ID:          uuid.New(),
		Reference:   reference,
		ToAccountID: &toAccountID,
		Amount:      amount,
		Type:        TransactionDeposit,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewWithdrawal creates a pending withdrawal entry debiting the given account.
func NewWithdrawal(fromAccountID uuid.UUID, amount money.Money, description, reference string) (*Transaction, error) {
	t := &Transaction{
		ID:            uuid.New(),
		Reference:     reference,
		FromAccountID: &fromAccountID,
		Amount:        amount,
		Type:          TransactionWithdrawal,
		Description:   description,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTransfer creates a pending transfer entry between two distinct accounts.
func NewTransfer(fromAccountID, toAccountID uuid.UUID, amount money.Money, description, reference string) (*Transaction, error) {
	if fromAccountID == toAccountID {
		return nil, common.ErrSelfTransfer
	}
	t := &Transaction{
		ID:            uuid.New(),
		Reference:     reference,
		FromAccountID: &fromAccountID,
		ToAccountID:   &toAccountID,
		Amount:        amount,
		Type:          TransactionTransfer,
		Description:   description,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTransactionFromData hydrates a Transaction from stored data, bypassing
// invariants. Repository use only.
func NewTransactionFromData(
	id uuid.UUID,
	reference string,
	fromAccountID, toAccountID *uuid.UUID,
	amount money.Money,
	txType TransactionType,
	description string,
	status TransactionStatus,
	created, updated time.Time,
) *Transaction {
	return &Transaction{
		ID:            id,
		Reference:     reference,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Type:          txType,
		Description:   description,
		Status:        status,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}
}

func (t *Transaction) validate() error {
	if t.Reference == "" {
		return fmt.Errorf("%w: transaction reference is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is required", common.ErrInvalidInput)
	}
	if len(t.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters",
			common.ErrInvalidInput, MaxDescriptionLength)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount must be positive", common.ErrInvalidAmount)
	}
	return nil
}

// Complete transitions the entry from pending to completed.
func (t *Transaction) Complete() error {
	return t.transition(StatusCompleted)
}

// Fail transitions the entry from pending to failed.
func (t *Transaction) Fail() error {
	return t.transition(StatusFailed)
}

func (t *Transaction) transition(target TransactionStatus) error {
	if t.Status != StatusPending {
		return common.ErrTransactionFinalized
	}
	t.Status = target
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Terminal reports whether the entry has left pending status and is
// immutable from now on.
func (t *Transaction) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}
