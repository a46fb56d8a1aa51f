package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
)

var (
	ErrNotLocked = errors.New("account is not locked by this unit of work")
	ErrTxDone    = errors.New("unit of work already committed or rolled back")
)

// Store is the in-process account store. The map and every balance are
// guarded by mu; each entry's lock is held by at most one unit of work, and
// units take their locks in ascending id order.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*entry
}

type entry struct {
	lock    sync.Mutex
	balance decimal.Decimal
}

type write struct {
	id      string
	entry   *entry
	balance decimal.Decimal
}

func NewStore() *Store {
	return &Store{accounts: make(map[string]*entry)}
}

func (s *Store) create(account entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID()]; ok {
		return fmt.Errorf("account id %s: %w", account.ID(), repository.ErrAlreadyExists)
	}
	s.accounts[account.ID()] = &entry{balance: account.Balance()}
	return nil
}

func (s *Store) get(id string) (entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.accounts[id]
	if !ok {
		return entity.Account{}, notFound(id)
	}
	return entity.ReconstructAccount(id, e.balance), nil
}

func (s *Store) lookup(ids []string) ([]*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*entry, 0, len(ids))
	for _, id := range ids {
		e, ok := s.accounts[id]
		if !ok {
			return nil, notFound(id)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// apply writes all balances under one write lock, or none of them if any
// entry has been removed since it was locked.
func (s *Store) apply(writes []write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if s.accounts[w.id] != w.entry {
			return notFound(w.id)
		}
	}
	for _, w := range writes {
		w.entry.balance = w.balance
	}
	return nil
}

func (s *Store) setBalance(id string, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return entity.ErrNegativeBalance
	}

	entries, err := s.lookup([]string{id})
	if err != nil {
		return err
	}
	e := entries[0]

	e.lock.Lock()
	defer e.lock.Unlock()
	return s.apply([]write{{id: id, entry: e, balance: balance}})
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]*entry)
}

func (s *Store) begin(ctx context.Context, ids []string) (*txState, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	entries, err := s.lookup(ids)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.lock.Lock()
	}

	tx := &txState{
		ids:     ids,
		entries: entries,
		writes:  make(map[string]decimal.Decimal, len(ids)),
	}
	if err := ctx.Err(); err != nil {
		tx.release()
		return nil, err
	}
	return tx, nil
}

type txState struct {
	ids     []string
	entries []*entry
	writes  map[string]decimal.Decimal
	done    bool
}

func (t *txState) entry(id string) (*entry, bool) {
	i, ok := slices.BinarySearch(t.ids, id)
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

func (t *txState) release() {
	for i := len(t.entries) - 1; i >= 0; i-- {
		t.entries[i].lock.Unlock()
	}
	t.done = true
}

func notFound(id string) error {
	return fmt.Errorf("account %s: %w", id, repository.ErrNotFound)
}
