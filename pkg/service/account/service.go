// Package account provides the business logic for money movement and ledger
// consistency: deposits, withdrawals and transfers executed exactly once
// inside an atomic commit scope, plus the read-side account directory.
package account

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corebank/ledger/pkg/commands"
	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/currency"
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/money"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/corebank/ledger/pkg/utils"
	"github.com/google/uuid"
)

// maxCommitAttempts bounds internal retries of transient Conflict or
// StorageFailure conditions. Retries are keyed by the transaction reference,
// so a replayed commit can never apply twice.
const maxCommitAttempts = 3

// Service executes balance-changing operations and directory queries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger}
}

// CreateAccount opens a new active account with a generated number and zero
// balance.
func (s *Service) CreateAccount(ctx context.Context, create dto.AccountCreate) (*dto.AccountRead, error) {
	logger := s.logger.With("op", "create_account", "userID", create.UserID)
	var a *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		b := account.New().
			WithUserID(create.UserID).
			WithNumber(utils.GenerateAccountNumber())
		if create.AccountType != "" {
			b = b.WithType(account.Type(create.AccountType))
		}
		if create.Currency != "" {
			b = b.WithCurrency(currency.Code(create.Currency))
		}
		if a, err = b.Build(); err != nil {
			return err
		}
		return repo.Create(ctx, a)
	})
	if err != nil {
		logger.Error("account creation failed", "error", err)
		return nil, err
	}
	logger.Info("account created", "accountID", a.ID, "number", a.Number)
	return mapAccount(a), nil
}

// Deposit credits an active account and records one completed deposit entry,
// atomically. Deposits are accepted to any active account: no ownership
// check and no overdraft check.
func (s *Service) Deposit(ctx context.Context, cmd commands.Deposit) (*dto.TransactionRead, error) {
	ref := cmd.Reference
	if ref == "" {
		ref = account.NewReference()
	}
	logger := s.logger.With("op", "deposit", "accountID", cmd.AccountID, "reference", ref)

	var entry *account.Transaction
	err := s.withRetry(ctx, logger, func(uow repository.UnitOfWork) error {
		ledger, accounts, err := writeRepos(uow)
		if err != nil {
			return err
		}
		if existing, err := findByReference(ctx, ledger, ref); err != nil {
			return err
		} else if existing != nil {
			entry = existing
			return nil
		}

		a, err := accounts.GetForUpdate(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			return common.ErrAccountInactive
		}
		amount, err := money.New(cmd.Amount, a.Currency())
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: deposit amount must be positive", common.ErrInvalidAmount)
		}
		if entry, err = account.NewDeposit(a.ID, amount, cmd.Description, ref); err != nil {
			return err
		}
		if err = a.Credit(amount); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, a); err != nil {
			return err
		}
		if err = entry.Complete(); err != nil {
			return err
		}
		return ledger.Create(ctx, entry)
	})
	if err != nil {
		logger.Error("deposit failed", "error", err)
		return nil, err
	}
	logger.Info("deposit completed", "transactionID", entry.ID)
	return mapTransaction(entry), nil
}

// Withdraw debits an account owned by the caller and records one completed
// withdrawal entry, atomically. The overdraft invariant
// balance >= -overdraftLimit is enforced.
func (s *Service) Withdraw(ctx context.Context, cmd commands.Withdraw) (*dto.TransactionRead, error) {
	ref := cmd.Reference
	if ref == "" {
		ref = account.NewReference()
	}
	logger := s.logger.With(
		"op", "withdraw",
		"userID", cmd.UserID,
		"accountID", cmd.AccountID,
		"reference", ref,
	)

	var entry *account.Transaction
	err := s.withRetry(ctx, logger, func(uow repository.UnitOfWork) error {
		ledger, accounts, err := writeRepos(uow)
		if err != nil {
			return err
		}
		if existing, err := findByReference(ctx, ledger, ref); err != nil {
			return err
		} else if existing != nil {
			entry = existing
			return nil
		}

		a, err := accounts.GetForUpdate(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		if !a.OwnedBy(cmd.UserID) {
			return fmt.Errorf("%w: caller does not own the account", common.ErrUnauthorized)
		}
		if !a.IsActive() {
			return common.ErrAccountInactive
		}
		amount, err := money.New(cmd.Amount, a.Currency())
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: withdrawal amount must be positive", common.ErrInvalidAmount)
		}
		if entry, err = account.NewWithdrawal(a.ID, amount, cmd.Description, ref); err != nil {
			return err
		}
		if err = a.Debit(amount); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, a); err != nil {
			return err
		}
		if err = entry.Complete(); err != nil {
			return err
		}
		return ledger.Create(ctx, entry)
	})
	if err != nil {
		logger.Error("withdrawal failed", "error", err)
		return nil, err
	}
	logger.Info("withdrawal completed", "transactionID", entry.ID)
	return mapTransaction(entry), nil
}

// Transfer moves funds between two accounts as one atomic unit: debit,
// credit and ledger insert all commit or none do.
//
// Preconditions are checked in a fixed order against the locked snapshot of
// both accounts: ownership, self-transfer, existence/status, amount,
// overdraft, currency match.
func (s *Service) Transfer(ctx context.Context, cmd commands.Transfer) (*dto.TransactionRead, error) {
	ref := cmd.Reference
	if ref == "" {
		ref = account.NewReference()
	}
	logger := s.logger.With(
		"op", "transfer",
		"userID", cmd.UserID,
		"fromAccountID", cmd.FromAccountID,
		"toAccountID", cmd.ToAccountID,
		"reference", ref,
	)

	var entry *account.Transaction
	err := s.withRetry(ctx, logger, func(uow repository.UnitOfWork) error {
		ledger, accounts, err := writeRepos(uow)
		if err != nil {
			return err
		}
		if existing, err := findByReference(ctx, ledger, ref); err != nil {
			return err
		} else if existing != nil {
			entry = existing
			return nil
		}

		src, dst, srcErr, dstErr := lockPair(ctx, accounts, cmd.FromAccountID, cmd.ToAccountID)
		if srcErr != nil {
			return srcErr
		}
		if !src.OwnedBy(cmd.UserID) {
			return fmt.Errorf("%w: caller does not own the source account", common.ErrUnauthorized)
		}
		if cmd.FromAccountID == cmd.ToAccountID {
			return common.ErrSelfTransfer
		}
		if dstErr != nil {
			return dstErr
		}
		if !src.IsActive() || !dst.IsActive() {
			return common.ErrAccountInactive
		}
		amount, err := money.New(cmd.Amount, src.Currency())
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: transfer amount must be positive", common.ErrInvalidAmount)
		}
		if ok, err := src.CanDebit(amount); err != nil {
			return err
		} else if !ok {
			return common.ErrInsufficientFunds
		}
		if src.Currency() != dst.Currency() {
			return common.ErrCurrencyMismatch
		}

		if entry, err = account.NewTransfer(src.ID, dst.ID, amount, cmd.Description, ref); err != nil {
			return err
		}
		if err = src.Debit(amount); err != nil {
			return err
		}
		if err = dst.Credit(amount); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, src); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, dst); err != nil {
			return err
		}
		if err = entry.Complete(); err != nil {
			return err
		}
		return ledger.Create(ctx, entry)
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, err
	}
	logger.Info("transfer completed", "transactionID", entry.ID)
	return mapTransaction(entry), nil
}

// withRetry runs fn inside the unit of work, retrying transient failures a
// bounded number of times.
func (s *Service) withRetry(
	ctx context.Context,
	logger *slog.Logger,
	fn func(uow repository.UnitOfWork) error,
) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = s.uow.Do(ctx, fn)
		if err == nil || !common.Retryable(err) || attempt == maxCommitAttempts {
			return err
		}
		logger.Warn("transient commit failure, retrying", "attempt", attempt, "error", err)
	}
}

// writeRepos fetches the two repositories every engine needs, bound to the
// current commit scope.
func writeRepos(uow repository.UnitOfWork) (
	repository.TransactionRepository,
	repository.AccountRepository,
	error,
) {
	ledger, err := uow.TransactionRepository()
	if err != nil {
		return nil, nil, err
	}
	accounts, err := uow.AccountRepository()
	if err != nil {
		return nil, nil, err
	}
	return ledger, accounts, nil
}

// findByReference resolves the idempotency token. A missing reference is not
// an error; it means this is a first attempt.
func findByReference(
	ctx context.Context,
	ledger repository.TransactionRepository,
	ref string,
) (*account.Transaction, error) {
	existing, err := ledger.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// lockPair locks both accounts in ascending id order so that two transfers
// moving money in opposite directions between the same pair cannot deadlock.
// Results are returned in (source, destination) order regardless of lock
// order; lookup errors are surfaced separately so callers can report them in
// the canonical precondition order.
func lockPair(
	ctx context.Context,
	accounts repository.AccountRepository,
	fromID, toID uuid.UUID,
) (src, dst *account.Account, srcErr, dstErr error) {
	if fromID == toID {
		src, srcErr = accounts.GetForUpdate(ctx, fromID)
		return src, src, srcErr, srcErr
	}
	first, second := fromID, toID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	a1, err1 := accounts.GetForUpdate(ctx, first)
	a2, err2 := accounts.GetForUpdate(ctx, second)
	if first == fromID {
		return a1, a2, err1, err2
	}
	return a2, a1, err2, err1
}
