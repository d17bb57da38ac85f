package repository

import (
	"context"
	"time"

	"github.com/corebank/ledger/pkg/currency"
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to the given
// session.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapStoreError(err, common.ErrAccountNotFound)
	}
	return toDomainAccount(&m)
}

// GetForUpdate takes a FOR UPDATE row lock, so it must run inside a
// transaction scope to be of any use.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapStoreError(err, common.ErrAccountNotFound)
	}
	return toDomainAccount(&m)
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "number = ?", number).Error; err != nil {
		return nil, mapStoreError(err, common.ErrAccountNotFound)
	}
	return toDomainAccount(&m)
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *accountRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(account.StatusActive)))
}

func (r *accountRepository) list(ctx context.Context, q *gorm.DB) ([]*account.Account, error) {
	var models []Account
	if err := q.Order("number ASC").Find(&models).Error; err != nil {
		return nil, mapStoreError(err, common.ErrAccountNotFound)
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		a, err := toDomainAccount(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := toModelAccount(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return mapStoreError(err, common.ErrAccountNotFound)
	}
	return nil
}

// UpdateBalance writes the balance conditionally on the version the account
// was read with. Zero rows affected means another commit got there first.
func (r *accountRepository) UpdateBalance(ctx context.Context, a *account.Account) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"balance":    a.Balance.Amount(),
			"version":    a.Version + 1,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return mapStoreError(res.Error, common.ErrAccountNotFound)
	}
	if res.RowsAffected == 0 {
		return common.ErrConflict
	}
	a.Version++
	return nil
}

func toDomainAccount(m *Account) (*account.Account, error) {
	return account.New().
		WithID(m.ID).
		WithUserID(m.UserID).
		WithNumber(m.Number).
		WithType(account.Type(m.Type)).
		WithCurrency(currency.Code(m.Currency)).
		WithBalance(m.Balance).
		WithOverdraftLimit(m.OverdraftLimit).
		WithInterestRate(m.InterestRate).
		WithStatus(account.Status(m.Status)).
		WithVersion(m.Version).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}

func toModelAccount(a *account.Account) *Account {
	return &Account{
		ID:             a.ID,
		UserID:         a.UserID,
		Number:         a.Number,
		Type:           string(a.Type),
		Balance:        a.Balance.Amount(),
		OverdraftLimit: a.OverdraftLimit.Amount(),
		InterestRate:   a.InterestRate,
		Currency:       a.Currency().String(),
		Status:         string(a.Status),
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
