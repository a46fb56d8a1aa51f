package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
)

type UnitOfWork struct {
	store *Store
	tx    *txState
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context, accountIDs ...string) (repository.UnitOfWork, error) {
	tx, err := u.store.begin(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{store: u.store, tx: tx}, nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return nil
	}
	if u.tx.done {
		return ErrTxDone
	}
	defer u.tx.release()

	writes := make([]write, 0, len(u.tx.writes))
	for i, id := range u.tx.ids {
		balance, ok := u.tx.writes[id]
		if !ok {
			continue
		}
		writes = append(writes, write{id: id, entry: u.tx.entries[i], balance: balance})
	}
	return u.store.apply(writes)
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil || u.tx.done {
		return nil
	}
	u.tx.release()
	return nil
}

func (u *UnitOfWork) Accounts() repository.AccountRepository {
	return &AccountRepo{store: u.store, tx: u.tx}
}

type AccountRepo struct {
	store *Store
	tx    *txState
}

func (r *AccountRepo) Create(_ context.Context, account entity.Account) error {
	return r.store.create(account)
}

func (r *AccountRepo) FindByID(_ context.Context, id string) (entity.Account, error) {
	if r.tx != nil {
		if balance, ok := r.tx.writes[id]; ok {
			return entity.ReconstructAccount(id, balance), nil
		}
	}
	return r.store.get(id)
}

func (r *AccountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	if r.tx == nil {
		return r.store.setBalance(id, balance)
	}
	if r.tx.done {
		return ErrTxDone
	}
	if balance.IsNegative() {
		return entity.ErrNegativeBalance
	}
	if _, ok := r.tx.entry(id); !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotLocked)
	}
	r.tx.writes[id] = balance
	return nil
}

func (r *AccountRepo) Clear(_ context.Context) error {
	r.store.clear()
	return nil
}
