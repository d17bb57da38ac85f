package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/money"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func accountRows(accountID, userID uuid.UUID, balance, version int64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "user_id", "number", "type", "balance", "overdraft_limit",
		"interest_rate", "currency", "status", "version", "created_at", "updated_at",
	}).AddRow(accountID, userID, "1000000001", "checking", balance, 0,
		0.0, "USD", "active", version, now, now)
}

func TestAccountRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	accountID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "accounts" WHERE id = \$1(.+)`).
		WithArgs(accountID, 1).
		WillReturnRows(accountRows(accountID, userID, 10_000, 3))

	a, err := repo.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, accountID, a.ID)
	assert.Equal(t, userID, a.UserID)
	assert.Equal(t, int64(10_000), a.Balance.Amount())
	assert.Equal(t, int64(3), a.Version)

	mock.ExpectQuery(`SELECT (.+) FROM "accounts" WHERE id = \$1(.+)`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	a, err = repo.Get(context.Background(), uuid.New())
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestAccountRepository_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	accountID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "accounts" WHERE id = \$1(.+)FOR UPDATE`).
		WithArgs(accountID, 1).
		WillReturnRows(accountRows(accountID, uuid.New(), 0, 0))

	a, err := repo.GetForUpdate(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, accountID, a.ID)
}

func newVersionedAccount(t *testing.T, version int64) *account.Account {
	t.Helper()
	a, err := account.New().
		WithUserID(uuid.New()).
		WithNumber("1000000001").
		WithBalance(5000).
		WithVersion(version).
		Build()
	require.NoError(t, err)
	return a
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	a := newVersionedAccount(t, 2)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateBalance(context.Background(), a))
	assert.Equal(t, int64(3), a.Version, "version is bumped after a successful write")
}

func TestAccountRepository_UpdateBalance_StaleVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	a := newVersionedAccount(t, 2)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateBalance(context.Background(), a)
	assert.True(t, errors.Is(err, common.ErrConflict))
	assert.Equal(t, int64(2), a.Version, "version untouched when the write is rejected")
}

func TestTransactionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := transactionRepository{db: db}

	amount, err := money.New(100, "USD")
	require.NoError(t, err)
	entry, err := account.NewDeposit(uuid.New(), amount, "payroll", account.NewReference())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), entry))
}

func TestTransactionRepository_Create_DuplicateReference(t *testing.T) {
	db, mock := newMockDB(t)
	repo := transactionRepository{db: db}

	amount, err := money.New(100, "USD")
	require.NoError(t, err)
	entry, err := account.NewDeposit(uuid.New(), amount, "payroll", account.NewReference())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err = repo.Create(context.Background(), entry)
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestTransactionRepository_GetByReference_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := transactionRepository{db: db}

	mock.ExpectQuery(`SELECT (.+) FROM "transactions" WHERE reference = \$1(.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	entry, err := repo.GetByReference(context.Background(), "TXN-MISSING")
	assert.Nil(t, entry)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUserRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := userRepository{db: db}
	userID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at", "updated_at"}).
		AddRow(userID, "Jane", "Doe", "jane.doe@example.com", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1(.+)`).
		WithArgs(userID, 1).
		WillReturnRows(rows)

	u, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.FullName())

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = \$1(.+)`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	u, err = repo.Get(context.Background(), uuid.New())
	assert.Nil(t, u)
	assert.True(t, errors.Is(err, common.ErrUserNotFound))
}

func TestUoW_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("boom")
	err := uow.Do(context.Background(), func(uow repository.UnitOfWork) error {
		return sentinel
	})
	assert.True(t, errors.Is(err, sentinel))
	assert.NoError(t, mock.ExpectationsWereMet())
}
