package account

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/dto"
	"github.com/corebank/ledger/pkg/utils"
	"github.com/google/uuid"
)

const (
	// DefaultPageLimit is the history page size when the caller supplies no
	// (or an invalid) limit.
	DefaultPageLimit = 20
	// MinSearchLength is the minimum account-number length accepted by
	// SearchAccountByNumber.
	MinSearchLength = 3
	// DirectoryLimit caps the recipient directory size.
	DirectoryLimit = 50
)

// ListAccounts returns every account owned by the caller. Unpaginated: the
// result is bounded by a user's account count.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]dto.AccountRead, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	accts, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AccountRead, 0, len(accts))
	for _, a := range accts {
		result = append(result, *mapAccount(a))
	}
	return result, nil
}

// GetAccount returns the account only when the caller owns it. Absence and
// foreign ownership are both reported as ErrAccountNotFound so that account
// existence does not leak across users.
func (s *Service) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*dto.AccountRead, error) {
	a, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return mapAccount(a), nil
}

// GetTransactions returns one page of the account's history, newest first.
// The caller must own the account. Invalid page or limit values fall back to
// their defaults rather than erroring.
func (s *Service) GetTransactions(
	ctx context.Context,
	userID, accountID uuid.UUID,
	page, limit int,
) (*dto.TransactionPage, error) {
	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	ledger, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	offset := (page - 1) * limit
	if offset/limit != page-1 {
		// Overflowed page*limit reads as a page past the end of the history.
		offset = math.MaxInt
	}
	entries, total, err := ledger.ListByAccount(ctx, accountID, offset, limit)
	if err != nil {
		return nil, err
	}

	txs := make([]dto.TransactionRead, 0, len(entries))
	for _, t := range entries {
		txs = append(txs, *mapTransaction(t))
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return &dto.TransactionPage{
		Transactions: txs,
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// SearchAccountByNumber locates another user's active account for recipient
// selection. The projection exposes the owner's name and a masked email,
// nothing else. The caller's own accounts are rejected to block self-transfer
// setup.
func (s *Service) SearchAccountByNumber(
	ctx context.Context,
	userID uuid.UUID,
	number string,
) (*dto.AccountSearchResult, error) {
	if len(number) < MinSearchLength {
		return nil, fmt.Errorf("%w: account number must be at least %d characters",
			common.ErrInvalidInput, MinSearchLength)
	}
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	a, err := accounts.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	// Inactive accounts are hidden, not reported as inactive.
	if !a.IsActive() {
		return nil, common.ErrAccountNotFound
	}
	if a.OwnedBy(userID) {
		return nil, common.ErrSelfTransfer
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	owner, err := users.Get(ctx, a.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.AccountSearchResult{
		ID:            a.ID,
		AccountNumber: a.Number,
		AccountType:   string(a.Type),
		OwnerName:     owner.FullName(),
		OwnerEmail:    utils.MaskEmail(owner.Email),
	}, nil
}

// ListActiveUsers returns up to DirectoryLimit other users together with
// their active accounts. Users without active accounts are excluded; emails
// are masked.
func (s *Service) ListActiveUsers(ctx context.Context, userID uuid.UUID) ([]dto.DirectoryUser, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	others, err := users.ListOthers(ctx, userID, DirectoryLimit)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DirectoryUser, 0, len(others))
	for _, u := range others {
		accts, err := accounts.ListActiveByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if len(accts) == 0 {
			continue
		}
		entry := dto.DirectoryUser{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     utils.MaskEmail(u.Email),
			Accounts:  make([]dto.DirectoryAccount, 0, len(accts)),
		}
		for _, a := range accts {
			entry.Accounts = append(entry.Accounts, dto.DirectoryAccount{
				ID:            a.ID,
				AccountNumber: a.Number,
				AccountType:   string(a.Type),
			})
		}
		result = append(result, entry)
	}
	return result, nil
}

// ownedAccount loads an account and verifies caller ownership, collapsing
// "absent" and "not owned" into the same error.
func (s *Service) ownedAccount(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	a, err := repo.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	if !a.OwnedBy(userID) {
		return nil, common.ErrAccountNotFound
	}
	return a, nil
}
