package memory_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
	"github.com/Xausdorf/account-hub/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newAccount(t *testing.T, id, balance string) entity.Account {
	t.Helper()
	acc, err := entity.NewAccount(id, dec(balance))
	require.NoError(t, err)
	return acc
}

func seed(t *testing.T, uow *memory.UnitOfWork, balances map[string]string) {
	t.Helper()
	for id, balance := range balances {
		require.NoError(t, uow.Accounts().Create(context.Background(), newAccount(t, id, balance)))
	}
}

func balanceOf(t *testing.T, uow *memory.UnitOfWork, id string) decimal.Decimal {
	t.Helper()
	acc, err := uow.Accounts().FindByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance()
}

func TestAccountRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	require.NoError(t, uow.Accounts().Create(ctx, newAccount(t, "Id-123", "1000")))

	acc, err := uow.Accounts().FindByID(ctx, "Id-123")
	require.NoError(t, err)
	assert.Equal(t, "Id-123", acc.ID())
	assert.True(t, acc.Balance().Equal(dec("1000")))
}

func TestAccountRepo_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	require.NoError(t, uow.Accounts().Create(ctx, newAccount(t, "A", "1000.00")))

	err := uow.Accounts().Create(ctx, newAccount(t, "A", "5"))
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "account id A: already exists", err.Error())

	assert.True(t, balanceOf(t, uow, "A").Equal(dec("1000")), "first account must survive")
}

func TestAccountRepo_FindMissing(t *testing.T) {
	uow := memory.NewUnitOfWork(memory.NewStore())

	_, err := uow.Accounts().FindByID(context.Background(), "Z")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccountRepo_UpdateBalance(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "10"})

	require.NoError(t, uow.Accounts().UpdateBalance(ctx, "A", dec("12.34")))
	assert.True(t, balanceOf(t, uow, "A").Equal(dec("12.34")))

	err := uow.Accounts().UpdateBalance(ctx, "missing", dec("1"))
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = uow.Accounts().UpdateBalance(ctx, "A", dec("-0.01"))
	require.ErrorIs(t, err, entity.ErrNegativeBalance)
	assert.True(t, balanceOf(t, uow, "A").Equal(dec("12.34")))
}

func TestAccountRepo_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "150"})

	snapshot, err := uow.Accounts().FindByID(ctx, "A")
	require.NoError(t, err)

	debited, err := snapshot.Debit(dec("100"))
	require.NoError(t, err)
	require.True(t, debited.Balance().Equal(dec("50")))

	assert.True(t, balanceOf(t, uow, "A").Equal(dec("150")), "local changes must not leak into the store")
}

func TestAccountRepo_Clear(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "1", "B": "2"})

	require.NoError(t, uow.Accounts().Clear(ctx))

	_, err := uow.Accounts().FindByID(ctx, "A")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, uow.Accounts().Create(ctx, newAccount(t, "A", "3")))
	assert.True(t, balanceOf(t, uow, "A").Equal(dec("3")))
}

func TestUnitOfWork_CommitAppliesAllWrites(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "150", "B": "0"})

	tx, err := uow.Begin(ctx, "B", "A")
	require.NoError(t, err)

	require.NoError(t, tx.Accounts().UpdateBalance(ctx, "A", dec("50")))
	require.NoError(t, tx.Accounts().UpdateBalance(ctx, "B", dec("100")))

	staged, err := tx.Accounts().FindByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, staged.Balance().Equal(dec("50")), "unit of work reads its own writes")
	assert.True(t, balanceOf(t, uow, "A").Equal(dec("150")), "staged writes are invisible before commit")

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	assert.True(t, balanceOf(t, uow, "A").Equal(dec("50")))
	assert.True(t, balanceOf(t, uow, "B").Equal(dec("100")))

	require.ErrorIs(t, tx.Commit(ctx), memory.ErrTxDone)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "150", "B": "0"})

	tx, err := uow.Begin(ctx, "A", "B")
	require.NoError(t, err)
	require.NoError(t, tx.Accounts().UpdateBalance(ctx, "A", dec("0")))
	require.NoError(t, tx.Rollback(ctx))

	assert.True(t, balanceOf(t, uow, "A").Equal(dec("150")))

	// Locks are released: a new unit on the same accounts can start.
	tx, err = uow.Begin(ctx, "A", "B")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
}

func TestUnitOfWork_BeginMissingAccount(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"B": "0"})

	_, err := uow.Begin(ctx, "Z", "B")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// B must not be left locked.
	tx, err := uow.Begin(ctx, "B")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
}

func TestUnitOfWork_BeginCanceledContext(t *testing.T) {
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uow.Begin(ctx, "A")
	require.ErrorIs(t, err, context.Canceled)

	tx, err := uow.Begin(context.Background(), "A")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(context.Background()))
}

func TestUnitOfWork_UpdateRequiresLock(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "1", "B": "1"})

	tx, err := uow.Begin(ctx, "A")
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.Accounts().UpdateBalance(ctx, "B", dec("5"))
	require.ErrorIs(t, err, memory.ErrNotLocked)

	err = tx.Accounts().UpdateBalance(ctx, "A", dec("-5"))
	require.ErrorIs(t, err, entity.ErrNegativeBalance)
}

func TestUnitOfWork_ClearDuringUnitAppliesNothing(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "150", "B": "0"})

	tx, err := uow.Begin(ctx, "A", "B")
	require.NoError(t, err)
	require.NoError(t, tx.Accounts().UpdateBalance(ctx, "A", dec("50")))
	require.NoError(t, tx.Accounts().UpdateBalance(ctx, "B", dec("100")))

	require.NoError(t, uow.Accounts().Clear(ctx))
	seed(t, uow, map[string]string{"A": "7"})

	err = tx.Commit(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	assert.True(t, balanceOf(t, uow, "A").Equal(dec("7")), "recreated account must not receive stale writes")
	_, err = uow.Accounts().FindByID(ctx, "B")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUnitOfWork_OverlappingUnitsSerialize(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "0", "B": "0"})

	first, err := uow.Begin(ctx, "A", "B")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, beginErr := uow.Begin(ctx, "B", "A")
		if beginErr == nil {
			_ = second.Rollback(ctx)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second unit acquired locks held by the first")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Rollback(ctx))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second unit never acquired the released locks")
	}
}

func TestUnitOfWork_DisjointUnitsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	seed(t, uow, map[string]string{"A": "0", "B": "0", "C": "0", "D": "0"})

	held, err := uow.Begin(ctx, "A", "B")
	require.NoError(t, err)
	defer func() { _ = held.Rollback(ctx) }()

	done := make(chan error, 1)
	go func() {
		tx, beginErr := uow.Begin(ctx, "C", "D")
		if beginErr != nil {
			done <- beginErr
			return
		}
		if updErr := tx.Accounts().UpdateBalance(ctx, "C", dec("1")); updErr != nil {
			done <- updErr
			return
		}
		done <- tx.Commit(ctx)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("disjoint unit blocked on unrelated locks")
	}
	assert.True(t, balanceOf(t, uow, "C").Equal(dec("1")))
}

func TestUnitOfWork_ConcurrentUnitsConserveTotal(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())

	const accounts = 5
	ids := make([]string, accounts)
	for i := range accounts {
		ids[i] = fmt.Sprintf("acc-%d", i)
		seed(t, uow, map[string]string{ids[i]: "100"})
	}

	const workers = 20
	const moves = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		go func(n uint64) {
			defer wg.Done()
			r := rand.New(rand.NewPCG(n, n+1))
			for range moves {
				from, to := ids[r.IntN(accounts)], ids[r.IntN(accounts)]
				if from == to {
					continue
				}
				tx, err := uow.Begin(ctx, from, to)
				if !assert.NoError(t, err) {
					return
				}
				src, _ := tx.Accounts().FindByID(ctx, from)
				dst, _ := tx.Accounts().FindByID(ctx, to)
				amount := dec("0.01").Mul(decimal.NewFromInt(int64(r.IntN(500) + 1)))
				if src.Balance().LessThan(amount) {
					_ = tx.Rollback(ctx)
					continue
				}
				assert.NoError(t, tx.Accounts().UpdateBalance(ctx, from, src.Balance().Sub(amount)))
				assert.NoError(t, tx.Accounts().UpdateBalance(ctx, to, dst.Balance().Add(amount)))
				assert.NoError(t, tx.Commit(ctx))
			}
		}(uint64(w))
	}
	wg.Wait()

	total := decimal.Zero
	for _, id := range ids {
		b := balanceOf(t, uow, id)
		assert.False(t, b.IsNegative(), "account %s went negative", id)
		total = total.Add(b)
	}
	assert.True(t, total.Equal(dec("500")), "total drifted to %s", total)
}
