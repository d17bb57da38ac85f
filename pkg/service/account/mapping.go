package account

import (
	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/dto"
)

func mapAccount(a *account.Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:             a.ID,
		UserID:         a.UserID,
		AccountNumber:  a.Number,
		AccountType:    string(a.Type),
		Balance:        a.Balance.AmountFloat(),
		Currency:       a.Currency().String(),
		Status:         string(a.Status),
		OverdraftLimit: a.OverdraftLimit.AmountFloat(),
		InterestRate:   a.InterestRate,
		CreatedAt:      a.CreatedAt,
	}
}

func mapTransaction(t *account.Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:            t.ID,
		Reference:     t.Reference,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount.AmountFloat(),
		Currency:      t.Amount.Currency().String(),
		Type:          string(t.Type),
		Description:   t.Description,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
}
