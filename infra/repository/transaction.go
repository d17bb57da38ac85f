package repository

import (
	"context"
	"fmt"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/money"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger repository bound to the given
// session.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *account.Transaction) error {
	m := toModelTransaction(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return mapStoreError(err, common.ErrNotFound)
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapStoreError(err, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound))
	}
	return toDomainTransaction(&m)
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*account.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "reference = ?", reference).Error; err != nil {
		return nil, mapStoreError(err,
			fmt.Errorf("transaction reference %s: %w", reference, common.ErrNotFound))
	}
	return toDomainTransaction(&m)
}

func (r *transactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	offset, limit int,
) ([]*account.Transaction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, mapStoreError(err, common.ErrNotFound)
	}

	var models []Transaction
	err := base.
		Order("created_at DESC, seq DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, mapStoreError(err, common.ErrNotFound)
	}

	result := make([]*account.Transaction, 0, len(models))
	for i := range models {
		t, err := toDomainTransaction(&models[i])
		if err != nil {
			return nil, 0, err
		}
		result = append(result, t)
	}
	return result, total, nil
}

func toModelTransaction(t *account.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		Reference:     t.Reference,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount.Amount(),
		Currency:      t.Amount.Currency().String(),
		Type:          string(t.Type),
		Description:   t.Description,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toDomainTransaction(m *Transaction) (*account.Transaction, error) {
	amount, err := money.NewFromData(m.Amount, m.Currency)
	if err != nil {
		return nil, err
	}
	return account.NewTransactionFromData(
		m.ID,
		m.Reference,
		m.FromAccountID,
		m.ToAccountID,
		amount,
		account.TransactionType(m.Type),
		m.Description,
		account.TransactionStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
