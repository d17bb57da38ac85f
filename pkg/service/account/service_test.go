package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/corebank/ledger/internal/fixtures"
	"github.com/corebank/ledger/pkg/commands"
	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/currency"
	domain "github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/dto"
	accountsvc "github.com/corebank/ledger/pkg/service/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) (*fixtures.Store, *accountsvc.Service) {
	t.Helper()
	store := fixtures.NewStore()
	svc := accountsvc.NewService(config.Deps{
		Uow:    fixtures.NewUnitOfWork(store),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return store, svc
}

type seedOpt func(b *domain.Builder) *domain.Builder

func seedAccount(
	t *testing.T,
	store *fixtures.Store,
	userID uuid.UUID,
	number string,
	balance int64,
	opts ...seedOpt,
) *domain.Account {
	t.Helper()
	b := domain.New().WithUserID(userID).WithNumber(number).WithBalance(balance)
	for _, opt := range opts {
		b = opt(b)
	}
	a, err := b.Build()
	require.NoError(t, err)
	store.SeedAccount(a)
	return a
}

func withStatus(s domain.Status) seedOpt {
	return func(b *domain.Builder) *domain.Builder { return b.WithStatus(s) }
}

func withCurrency(c currency.Code) seedOpt {
	return func(b *domain.Builder) *domain.Builder { return b.WithCurrency(c) }
}

func withOverdraft(limit int64) seedOpt {
	return func(b *domain.Builder) *domain.Builder { return b.WithOverdraftLimit(limit) }
}

func currentBalance(t *testing.T, store *fixtures.Store, id uuid.UUID) int64 {
	t.Helper()
	repo, err := fixtures.NewUnitOfWork(store).AccountRepository()
	require.NoError(t, err)
	a, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return a.Balance.Amount()
}

func ledgerCount(t *testing.T, store *fixtures.Store, accountID uuid.UUID) int64 {
	t.Helper()
	repo, err := fixtures.NewUnitOfWork(store).TransactionRepository()
	require.NoError(t, err)
	_, total, err := repo.ListByAccount(context.Background(), accountID, 0, 1)
	require.NoError(t, err)
	return total
}

func TestCreateAccount(t *testing.T) {
	_, svc := newEnv(t)
	userID := uuid.New()

	got, err := svc.CreateAccount(context.Background(), dto.AccountCreate{
		UserID:      userID,
		AccountType: "savings",
		Currency:    "EUR",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "savings", got.AccountType)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "active", got.Status)
	assert.Zero(t, got.Balance)
	assert.Len(t, got.AccountNumber, 10)

	accts, err := svc.ListAccounts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, got.ID, accts[0].ID)
}

func TestCreateAccount_UnsupportedCurrency(t *testing.T) {
	_, svc := newEnv(t)
	_, err := svc.CreateAccount(context.Background(), dto.AccountCreate{
		UserID:   uuid.New(),
		Currency: "XYZ",
	})
	assert.True(t, errors.Is(err, common.ErrInvalidCurrencyCode))
}

func TestDeposit(t *testing.T) {
	store, svc := newEnv(t)
	owner := uuid.New()
	a := seedAccount(t, store, owner, "1000000001", 10_000)

	got, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      25.50,
		Description: "payroll",
	})
	require.NoError(t, err)

	assert.Equal(t, "deposit", got.Type)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 25.50, got.Amount)
	assert.Nil(t, got.FromAccountID)
	require.NotNil(t, got.ToAccountID)
	assert.Equal(t, a.ID, *got.ToAccountID)
	assert.NotEmpty(t, got.Reference)

	assert.Equal(t, int64(12_550), currentBalance(t, store, a.ID))
	assert.Equal(t, int64(1), ledgerCount(t, store, a.ID))
}

func TestDeposit_InactiveAccount(t *testing.T) {
	store, svc := newEnv(t)
	a := seedAccount(t, store, uuid.New(), "1000000001", 0, withStatus(domain.StatusFrozen))

	_, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      10,
		Description: "blocked",
	})
	assert.True(t, errors.Is(err, common.ErrAccountInactive))
	assert.Equal(t, int64(0), ledgerCount(t, store, a.ID))
}

func TestDeposit_TooManyDecimals(t *testing.T) {
	store, svc := newEnv(t)
	a := seedAccount(t, store, uuid.New(), "1000000001", 0)

	_, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      10.123,
		Description: "sub-cent",
	})
	assert.True(t, errors.Is(err, common.ErrInvalidAmount))
}

func TestDeposit_MissingAccount(t *testing.T) {
	_, svc := newEnv(t)
	_, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   uuid.New(),
		Amount:      10,
		Description: "nowhere",
	})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestWithdraw(t *testing.T) {
	store, svc := newEnv(t)
	owner := uuid.New()
	a := seedAccount(t, store, owner, "1000000001", 10_000)

	got, err := svc.Withdraw(context.Background(), commands.Withdraw{
		UserID:      owner,
		AccountID:   a.ID,
		Amount:      30,
		Description: "atm",
	})
	require.NoError(t, err)

	assert.Equal(t, "withdrawal", got.Type)
	assert.Equal(t, "completed", got.Status)
	require.NotNil(t, got.FromAccountID)
	assert.Equal(t, a.ID, *got.FromAccountID)
	assert.Nil(t, got.ToAccountID)
	assert.Equal(t, int64(7000), currentBalance(t, store, a.ID))
}

func TestWithdraw_NotOwner(t *testing.T) {
	store, svc := newEnv(t)
	a := seedAccount(t, store, uuid.New(), "1000000001", 10_000)

	_, err := svc.Withdraw(context.Background(), commands.Withdraw{
		UserID:      uuid.New(),
		AccountID:   a.ID,
		Amount:      10,
		Description: "not mine",
	})
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, int64(10_000), currentBalance(t, store, a.ID))
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	store, svc := newEnv(t)
	owner := uuid.New()
	a := seedAccount(t, store, owner, "1000000001", 5000)

	_, err := svc.Withdraw(context.Background(), commands.Withdraw{
		UserID:      owner,
		AccountID:   a.ID,
		Amount:      50.01,
		Description: "too much",
	})
	assert.True(t, errors.Is(err, common.ErrInsufficientFunds))
	assert.Equal(t, int64(5000), currentBalance(t, store, a.ID))
	assert.Equal(t, int64(0), ledgerCount(t, store, a.ID))
}

func TestWithdraw_IntoOverdraft(t *testing.T) {
	store, svc := newEnv(t)
	owner := uuid.New()
	a := seedAccount(t, store, owner, "1000000001", 1000, withOverdraft(5000))

	_, err := svc.Withdraw(context.Background(), commands.Withdraw{
		UserID:      owner,
		AccountID:   a.ID,
		Amount:      60,
		Description: "overdraft",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-5000), currentBalance(t, store, a.ID))

	_, err = svc.Withdraw(context.Background(), commands.Withdraw{
		UserID:      owner,
		AccountID:   a.ID,
		Amount:      0.01,
		Description: "past the floor",
	})
	assert.True(t, errors.Is(err, common.ErrInsufficientFunds))
}

func TestTransfer(t *testing.T) {
	store, svc := newEnv(t)
	alice, bob := uuid.New(), uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 10_000)
	dst := seedAccount(t, store, bob, "1000000002", 5000)

	got, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        alice,
		FromAccountID: src.ID,
		ToAccountID:   dst.ID,
		Amount:        40,
		Description:   "rent",
	})
	require.NoError(t, err)

	assert.Equal(t, "transfer", got.Type)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, int64(6000), currentBalance(t, store, src.ID))
	assert.Equal(t, int64(9000), currentBalance(t, store, dst.ID))

	// One entry, visible from both sides.
	assert.Equal(t, int64(1), ledgerCount(t, store, src.ID))
	assert.Equal(t, int64(1), ledgerCount(t, store, dst.ID))
}

func TestTransfer_ConservesTotal(t *testing.T) {
	store, svc := newEnv(t)
	alice, bob := uuid.New(), uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 10_000)
	dst := seedAccount(t, store, bob, "1000000002", 5000)

	for i := 0; i < 5; i++ {
		_, err := svc.Transfer(context.Background(), commands.Transfer{
			UserID:        alice,
			FromAccountID: src.ID,
			ToAccountID:   dst.ID,
			Amount:        12.34,
			Description:   "installment",
		})
		require.NoError(t, err)
	}

	total := currentBalance(t, store, src.ID) + currentBalance(t, store, dst.ID)
	assert.Equal(t, int64(15_000), total)
}

func TestTransfer_SelfTransfer(t *testing.T) {
	store, svc := newEnv(t)
	owner := uuid.New()
	a := seedAccount(t, store, owner, "1000000001", 10_000)

	_, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        owner,
		FromAccountID: a.ID,
		ToAccountID:   a.ID,
		Amount:        -5, // self-transfer is rejected before the amount is inspected
		Description:   "loop",
	})
	assert.True(t, errors.Is(err, common.ErrSelfTransfer))
	assert.Equal(t, int64(10_000), currentBalance(t, store, a.ID))
}

func TestTransfer_NotOwner(t *testing.T) {
	store, svc := newEnv(t)
	src := seedAccount(t, store, uuid.New(), "1000000001", 10_000)
	dst := seedAccount(t, store, uuid.New(), "1000000002", 0)

	_, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        uuid.New(),
		FromAccountID: src.ID,
		ToAccountID:   dst.ID,
		Amount:        10,
		Description:   "someone else's money",
	})
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestTransfer_MissingDestination(t *testing.T) {
	store, svc := newEnv(t)
	alice := uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 10_000)

	_, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        alice,
		FromAccountID: src.ID,
		ToAccountID:   uuid.New(),
		Amount:        10,
		Description:   "void",
	})
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Equal(t, int64(10_000), currentBalance(t, store, src.ID))
}

func TestTransfer_InactiveDestination(t *testing.T) {
	store, svc := newEnv(t)
	alice := uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 10_000)
	dst := seedAccount(t, store, uuid.New(), "1000000002", 0, withStatus(domain.StatusInactive))

	_, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        alice,
		FromAccountID: src.ID,
		ToAccountID:   dst.ID,
		Amount:        10,
		Description:   "closed door",
	})
	assert.True(t, errors.Is(err, common.ErrAccountInactive))
}

func TestTransfer_CurrencyMismatch(t *testing.T) {
	store, svc := newEnv(t)
	alice := uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 10_000)
	dst := seedAccount(t, store, uuid.New(), "1000000002", 0, withCurrency(currency.EUR))

	_, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        alice,
		FromAccountID: src.ID,
		ToAccountID:   dst.ID,
		Amount:        10,
		Description:   "wrong rail",
	})
	assert.True(t, errors.Is(err, common.ErrCurrencyMismatch))
	assert.Equal(t, int64(10_000), currentBalance(t, store, src.ID))
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	store, svc := newEnv(t)
	alice := uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 1000)
	dst := seedAccount(t, store, uuid.New(), "1000000002", 0)

	_, err := svc.Transfer(context.Background(), commands.Transfer{
		UserID:        alice,
		FromAccountID: src.ID,
		ToAccountID:   dst.ID,
		Amount:        10.01,
		Description:   "too much",
	})
	assert.True(t, errors.Is(err, common.ErrInsufficientFunds))
	assert.Equal(t, int64(1000), currentBalance(t, store, src.ID))
	assert.Equal(t, int64(0), currentBalance(t, store, dst.ID))
}

func TestDeposit_RetriesTransientFailure(t *testing.T) {
	store, svc := newEnv(t)
	a := seedAccount(t, store, uuid.New(), "1000000001", 0)
	store.FailNextCommit(common.ErrStorageFailure)

	_, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      10,
		Description: "flaky store",
	})
	require.NoError(t, err)

	// Applied exactly once despite the rolled-back first attempt.
	assert.Equal(t, int64(1000), currentBalance(t, store, a.ID))
	assert.Equal(t, int64(1), ledgerCount(t, store, a.ID))
}

func TestDeposit_GivesUpAfterRetryLimit(t *testing.T) {
	store, svc := newEnv(t)
	a := seedAccount(t, store, uuid.New(), "1000000001", 0)
	for i := 0; i < 3; i++ {
		store.FailNextCommit(common.ErrStorageFailure)
	}

	_, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      10,
		Description: "dead store",
	})
	assert.True(t, errors.Is(err, common.ErrStorageFailure))
	assert.Equal(t, int64(0), currentBalance(t, store, a.ID))
	assert.Equal(t, int64(0), ledgerCount(t, store, a.ID))
}

func TestDeposit_IdempotentReference(t *testing.T) {
	store, svc := newEnv(t)
	a := seedAccount(t, store, uuid.New(), "1000000001", 0)
	ref := domain.NewReference()

	first, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      10,
		Description: "original",
		Reference:   ref,
	})
	require.NoError(t, err)

	second, err := svc.Deposit(context.Background(), commands.Deposit{
		AccountID:   a.ID,
		Amount:      10,
		Description: "replay",
		Reference:   ref,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1000), currentBalance(t, store, a.ID), "credited exactly once")
	assert.Equal(t, int64(1), ledgerCount(t, store, a.ID))
}

func TestWithdraw_ConcurrentOneWinner(t *testing.T) {
	store, svc := newEnv(t)
	owner := uuid.New()
	a := seedAccount(t, store, owner, "1000000001", 10_000)

	const workers = 2
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(context.Background(), commands.Withdraw{
				UserID:      owner,
				AccountID:   a.ID,
				Amount:      70,
				Description: "race",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.True(t, errors.Is(err, common.ErrInsufficientFunds))
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, int64(3000), currentBalance(t, store, a.ID))
	assert.Equal(t, int64(1), ledgerCount(t, store, a.ID))
}

func TestTransfer_ConcurrentOneWinner(t *testing.T) {
	store, svc := newEnv(t)
	alice, bob := uuid.New(), uuid.New()
	src := seedAccount(t, store, alice, "1000000001", 10_000)
	dst := seedAccount(t, store, bob, "1000000002", 0)

	const workers = 2
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(context.Background(), commands.Transfer{
				UserID:        alice,
				FromAccountID: src.ID,
				ToAccountID:   dst.ID,
				Amount:        70,
				Description:   "race",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.True(t, errors.Is(err, common.ErrInsufficientFunds))
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, int64(3000), currentBalance(t, store, src.ID))
	assert.Equal(t, int64(7000), currentBalance(t, store, dst.ID))
	assert.Equal(t, int64(1), ledgerCount(t, store, src.ID))
	assert.Equal(t, int64(1), ledgerCount(t, store, dst.ID))
}

func TestTransfer_OppositeDirectionsConserve(t *testing.T) {
	store, svc := newEnv(t)
	alice, bob := uuid.New(), uuid.New()
	a := seedAccount(t, store, alice, "1000000001", 10_000)
	b := seedAccount(t, store, bob, "1000000002", 10_000)

	// Both directions at once; locks are taken in ascending-id order so the
	// pair cannot deadlock.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Transfer(context.Background(), commands.Transfer{
			UserID:        alice,
			FromAccountID: a.ID,
			ToAccountID:   b.ID,
			Amount:        30,
			Description:   "outbound",
		})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Transfer(context.Background(), commands.Transfer{
			UserID:        bob,
			FromAccountID: b.ID,
			ToAccountID:   a.ID,
			Amount:        50,
			Description:   "inbound",
		})
		errs <- err
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(12_000), currentBalance(t, store, a.ID))
	assert.Equal(t, int64(8000), currentBalance(t, store, b.ID))
	assert.Equal(t, int64(20_000),
		currentBalance(t, store, a.ID)+currentBalance(t, store, b.ID))
	assert.Equal(t, int64(2), ledgerCount(t, store, a.ID))
	assert.Equal(t, int64(2), ledgerCount(t, store, b.ID))
}
