package entity

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrSameAccount = errors.New("source and destination accounts must differ")

// Transfer lives only for the duration of one transfer request.
type Transfer struct {
	id          uuid.UUID
	fromAccount string
	toAccount   string
	amount      decimal.Decimal
}

func NewTransfer(from, to string, amount decimal.Decimal) (*Transfer, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSameAccount
	}
	return &Transfer{
		id:          uuid.New(),
		fromAccount: from,
		toAccount:   to,
		amount:      amount,
	}, nil
}

func (t *Transfer) ID() uuid.UUID {
	return t.id
}

func (t *Transfer) FromAccount() string {
	return t.fromAccount
}

func (t *Transfer) ToAccount() string {
	return t.toAccount
}

func (t *Transfer) Amount() decimal.Decimal {
	return t.amount
}
