package generateqr

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/qrcode"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
)

type Request struct {
	AccountID string
	Amount    decimal.Decimal
}

type UseCase struct {
	uow       repository.UnitOfWork
	generator qrcode.Generator
}

func NewUseCase(uow repository.UnitOfWork, generator qrcode.Generator) *UseCase {
	return &UseCase{uow: uow, generator: generator}
}

// Execute renders a payment request to an existing account as a PNG QR code.
func (uc *UseCase) Execute(ctx context.Context, req Request) ([]byte, error) {
	if !req.Amount.IsPositive() {
		return nil, entity.ErrInvalidAmount
	}

	acc, err := uc.uow.Accounts().FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	return uc.generator.Generate(qrcode.PaymentRequest{
		ToAccount: acc.ID(),
		Amount:    req.Amount,
	})
}
