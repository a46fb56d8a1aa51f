package account

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
)

type UseCase struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewUseCase(uow repository.UnitOfWork, logger *slog.Logger) *UseCase {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &UseCase{uow: uow, logger: logger}
}

func (uc *UseCase) Create(ctx context.Context, id string, initialBalance decimal.Decimal) (entity.Account, error) {
	acc, err := entity.NewAccount(id, initialBalance)
	if err != nil {
		return entity.Account{}, err
	}

	if err := uc.uow.Accounts().Create(ctx, acc); err != nil {
		return entity.Account{}, err
	}

	uc.logger.InfoContext(ctx, "account created", "account_id", acc.ID(), "balance", acc.Balance().String())
	return acc, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (entity.Account, error) {
	return uc.uow.Accounts().FindByID(ctx, id)
}

// Reset removes every account. It exists for test isolation and is not part
// of normal operation.
func (uc *UseCase) Reset(ctx context.Context) error {
	if err := uc.uow.Accounts().Clear(ctx); err != nil {
		return err
	}
	uc.logger.WarnContext(ctx, "all accounts removed")
	return nil
}
