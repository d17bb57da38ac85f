// Package repository defines the data-access contracts the service layer
// depends on. Implementations live under infra (GORM/Postgres) and
// internal/fixtures (in-memory, for tests).
package repository

import (
	"context"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/google/uuid"
)

// AccountRepository is the durable keyed store for accounts.
//
// UpdateBalance is the single balance-write primitive and is conditional on
// the account's Version: a stale version yields common.ErrConflict and no
// write. GetForUpdate additionally takes a row lock when called inside a
// UnitOfWork.Do scope, so two concurrent commits against the same account
// serialize at the store.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByNumber(ctx context.Context, number string) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	// UpdateBalance persists the account's balance if its Version is still
	// current, then bumps a.Version to match the store.
	UpdateBalance(ctx context.Context, a *account.Account) error
}

// TransactionRepository is the append-only transaction ledger. Create fails
// with common.ErrConflict when the reference already exists (unique index),
// which is what makes retries idempotent.
type TransactionRepository interface {
	Create(ctx context.Context, t *account.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*account.Transaction, error)
	// ListByAccount returns entries where the account appears on either side,
	// newest first, plus the total count before windowing.
	ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]*account.Transaction, int64, error)
}

// UserRepository provides read access to users for ownership joins and the
// recipient directory.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	// ListOthers returns up to limit users excluding the given one.
	ListOthers(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]*user.User, error)
	Create(ctx context.Context, u *user.User) error
}
