// Package fixtures provides an in-memory implementation of the repository
// contracts for service and handler tests. It honors the same semantics as
// the Postgres implementation: commit scopes are all-or-nothing, balance
// writes are version-conditioned, and the transaction reference is unique.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/corebank/ledger/pkg/domain/account"
	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
)

// data is one consistent snapshot of the store.
type data struct {
	accounts     map[uuid.UUID]*account.Account
	transactions []*account.Transaction
	txByID       map[uuid.UUID]*account.Transaction
	txByRef      map[string]*account.Transaction
	users        map[uuid.UUID]*user.User
	userOrder    []uuid.UUID
}

func newData() *data {
	return &data{
		accounts: make(map[uuid.UUID]*account.Account),
		txByID:   make(map[uuid.UUID]*account.Transaction),
		txByRef:  make(map[string]*account.Transaction),
		users:    make(map[uuid.UUID]*user.User),
	}
}

func (d *data) clone() *data {
	c := newData()
	for id, a := range d.accounts {
		c.accounts[id] = cloneAccount(a)
	}
	c.transactions = make([]*account.Transaction, 0, len(d.transactions))
	for _, t := range d.transactions {
		ct := cloneTransaction(t)
		c.transactions = append(c.transactions, ct)
		c.txByID[ct.ID] = ct
		c.txByRef[ct.Reference] = ct
	}
	for id, u := range d.users {
		cu := *u
		c.users[id] = &cu
	}
	c.userOrder = append([]uuid.UUID(nil), d.userOrder...)
	return c
}

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	return &c
}

func cloneTransaction(t *account.Transaction) *account.Transaction {
	c := *t
	if t.FromAccountID != nil {
		id := *t.FromAccountID
		c.FromAccountID = &id
	}
	if t.ToAccountID != nil {
		id := *t.ToAccountID
		c.ToAccountID = &id
	}
	return &c
}

// Store holds the committed state. One mutex serializes commit scopes, which
// stands in for the row locks the real store takes.
type Store struct {
	mu         sync.Mutex
	data       *data
	commitErrs []error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: newData()}
}

// SeedUser installs a user directly into committed state.
func (s *Store) SeedUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cu := *u
	s.data.users[u.ID] = &cu
	s.data.userOrder = append(s.data.userOrder, u.ID)
}

// SeedAccount installs an account directly into committed state.
func (s *Store) SeedAccount(a *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.accounts[a.ID] = cloneAccount(a)
}

// SeedTransaction installs a ledger entry directly into committed state.
func (s *Store) SeedTransaction(t *account.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ct := cloneTransaction(t)
	s.data.transactions = append(s.data.transactions, ct)
	s.data.txByID[ct.ID] = ct
	s.data.txByRef[ct.Reference] = ct
}

// FailNextCommit queues an error returned at the next commit point, after the
// work function has run but before its writes become visible. Used to drive
// the retry path in tests.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErrs = append(s.commitErrs, err)
}

func (s *Store) popCommitErr() error {
	if len(s.commitErrs) == 0 {
		return nil
	}
	err := s.commitErrs[0]
	s.commitErrs = s.commitErrs[1:]
	return err
}

// UnitOfWork is the in-memory repository.UnitOfWork. Outside Do, repositories
// read committed state; inside Do they operate on a private snapshot that is
// swapped in atomically on success.
type UnitOfWork struct {
	store *Store
	sess  *data
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a UnitOfWork over the store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Do runs fn against a snapshot and commits it atomically. A nested call
// joins the enclosing scope.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.sess != nil {
		return fn(u)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	scoped := &UnitOfWork{store: u.store, sess: u.store.data.clone()}
	if err := fn(scoped); err != nil {
		return err
	}
	if err := u.store.popCommitErr(); err != nil {
		return err
	}
	u.store.data = scoped.sess
	return nil
}

// GetRepository returns a repository for the requested interface type.
func (u *UnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &accountRepo{u: u}, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &transactionRepo{u: u}, nil
	case reflect.TypeOf((*repository.UserRepository)(nil)).Elem():
		return &userRepo{u: u}, nil
	}
	return nil, fmt.Errorf("%w: no repository registered for %s", common.ErrInvalidInput, repoType)
}

// AccountRepository returns the account repository bound to this scope.
func (u *UnitOfWork) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{u: u}, nil
}

// TransactionRepository returns the ledger repository bound to this scope.
func (u *UnitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{u: u}, nil
}

// UserRepository returns the user repository bound to this scope.
func (u *UnitOfWork) UserRepository() (repository.UserRepository, error) {
	return &userRepo{u: u}, nil
}

// view runs fn over the right data set: the session snapshot inside Do, the
// committed state (under the store mutex) outside.
func (u *UnitOfWork) view(fn func(d *data) error) error {
	if u.sess != nil {
		return fn(u.sess)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.data)
}

type accountRepo struct {
	u *UnitOfWork
}

func (r *accountRepo) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var out *account.Account
	err := r.u.view(func(d *data) error {
		a, ok := d.accounts[id]
		if !ok {
			return common.ErrAccountNotFound
		}
		out = cloneAccount(a)
		return nil
	})
	return out, err
}

// GetForUpdate behaves like Get; the store mutex held for the whole commit
// scope provides the serialization a row lock would.
func (r *accountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepo) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var out *account.Account
	err := r.u.view(func(d *data) error {
		for _, a := range d.accounts {
			if a.Number == number {
				out = cloneAccount(a)
				return nil
			}
		}
		return common.ErrAccountNotFound
	})
	return out, err
}

func (r *accountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list(userID, false)
}

func (r *accountRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list(userID, true)
}

func (r *accountRepo) list(userID uuid.UUID, activeOnly bool) ([]*account.Account, error) {
	var out []*account.Account
	err := r.u.view(func(d *data) error {
		for _, a := range d.accounts {
			if a.UserID != userID {
				continue
			}
			if activeOnly && !a.IsActive() {
				continue
			}
			out = append(out, cloneAccount(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	return r.u.view(func(d *data) error {
		if _, exists := d.accounts[a.ID]; exists {
			return fmt.Errorf("%w: account %s already exists", common.ErrConflict, a.ID)
		}
		for _, existing := range d.accounts {
			if existing.Number == a.Number {
				return fmt.Errorf("%w: account number %s already exists", common.ErrConflict, a.Number)
			}
		}
		d.accounts[a.ID] = cloneAccount(a)
		return nil
	})
}

func (r *accountRepo) UpdateBalance(ctx context.Context, a *account.Account) error {
	return r.u.view(func(d *data) error {
		stored, ok := d.accounts[a.ID]
		if !ok {
			return common.ErrAccountNotFound
		}
		if stored.Version != a.Version {
			return fmt.Errorf("%w: account %s version %d is stale",
				common.ErrConflict, a.ID, a.Version)
		}
		a.Version++
		d.accounts[a.ID] = cloneAccount(a)
		return nil
	})
}

type transactionRepo struct {
	u *UnitOfWork
}

func (r *transactionRepo) Create(ctx context.Context, t *account.Transaction) error {
	return r.u.view(func(d *data) error {
		if _, exists := d.txByRef[t.Reference]; exists {
			return fmt.Errorf("%w: transaction reference %s already exists",
				common.ErrConflict, t.Reference)
		}
		ct := cloneTransaction(t)
		d.transactions = append(d.transactions, ct)
		d.txByID[ct.ID] = ct
		d.txByRef[ct.Reference] = ct
		return nil
	})
}

func (r *transactionRepo) Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error) {
	var out *account.Transaction
	err := r.u.view(func(d *data) error {
		t, ok := d.txByID[id]
		if !ok {
			return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
		}
		out = cloneTransaction(t)
		return nil
	})
	return out, err
}

func (r *transactionRepo) GetByReference(ctx context.Context, reference string) (*account.Transaction, error) {
	var out *account.Transaction
	err := r.u.view(func(d *data) error {
		t, ok := d.txByRef[reference]
		if !ok {
			return fmt.Errorf("transaction reference %s: %w", reference, common.ErrNotFound)
		}
		out = cloneTransaction(t)
		return nil
	})
	return out, err
}

func (r *transactionRepo) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	offset, limit int,
) ([]*account.Transaction, int64, error) {
	var matched []*account.Transaction
	err := r.u.view(func(d *data) error {
		// Walk in reverse insertion order so equal timestamps stay
		// newest-insert-first after the stable sort.
		for i := len(d.transactions) - 1; i >= 0; i-- {
			t := d.transactions[i]
			if (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
				(t.ToAccountID != nil && *t.ToAccountID == accountID) {
				matched = append(matched, cloneTransaction(t))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*account.Transaction{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type userRepo struct {
	u *UnitOfWork
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var out *user.User
	err := r.u.view(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return common.ErrUserNotFound
		}
		cu := *u
		out = &cu
		return nil
	})
	return out, err
}

func (r *userRepo) ListOthers(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]*user.User, error) {
	var out []*user.User
	err := r.u.view(func(d *data) error {
		for _, id := range d.userOrder {
			if id == excludeUserID {
				continue
			}
			if len(out) == limit {
				break
			}
			cu := *d.users[id]
			out = append(out, &cu)
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	return r.u.view(func(d *data) error {
		if _, exists := d.users[u.ID]; exists {
			return fmt.Errorf("%w: user %s already exists", common.ErrConflict, u.ID)
		}
		cu := *u
		d.users[u.ID] = &cu
		d.userOrder = append(d.userOrder, u.ID)
		return nil
	})
}
