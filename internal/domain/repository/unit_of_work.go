package repository

import "context"

//go:generate mockgen -source=unit_of_work.go -destination=../../usecase/transfer/mocks/mock_unit_of_work.go -package=mocks

// UnitOfWork begins units that hold exclusive locks on the given accounts
// until Commit or Rollback. Writes staged inside a unit become visible
// together on Commit.
type UnitOfWork interface {
	Begin(ctx context.Context, accountIDs ...string) (UnitOfWork, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Accounts() AccountRepository
}
