package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

//go:generate mockgen -source=repository.go -destination=../../usecase/transfer/mocks/mock_repository.go -package=mocks

type AccountRepository interface {
	Create(ctx context.Context, account entity.Account) error
	FindByID(ctx context.Context, id string) (entity.Account, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	Clear(ctx context.Context) error
}
