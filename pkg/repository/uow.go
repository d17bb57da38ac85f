package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access.
//
// Do runs the given function inside one atomic commit scope: every
// repository obtained from the UnitOfWork passed to fn is bound to the same
// store session, so a debit, a credit and a ledger insert either all become
// durable or none do. Repositories obtained outside Do run non-transactional
// reads.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and no partial state is observable.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current session. Example:
	//
	//	repoAny, err := uow.GetRepository(reflect.TypeOf((*AccountRepository)(nil)).Elem())
	//	repo := repoAny.(AccountRepository)
	GetRepository(repoType reflect.Type) (any, error)

	// Typed convenience accessors.
	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
}
