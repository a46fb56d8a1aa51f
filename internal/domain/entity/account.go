package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("transfer amount must be positive")
	ErrNegativeBalance     = errors.New("balance must not be negative")
	ErrEmptyAccountID      = errors.New("account id is required")
)

// Account is an immutable snapshot of an account's state. Debit and Credit
// return new values; stored state only changes through the repository.
type Account struct {
	id      string
	balance decimal.Decimal
}

func NewAccount(id string, balance decimal.Decimal) (Account, error) {
	if strings.TrimSpace(id) == "" {
		return Account{}, ErrEmptyAccountID
	}
	if balance.IsNegative() {
		return Account{}, ErrNegativeBalance
	}
	return Account{id: id, balance: balance}, nil
}

func ReconstructAccount(id string, balance decimal.Decimal) Account {
	return Account{id: id, balance: balance}
}

func (a Account) ID() string {
	return a.id
}

func (a Account) Balance() decimal.Decimal {
	return a.balance
}

func (a Account) Debit(amount decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return a, ErrInvalidAmount
	}
	next := a.balance.Sub(amount)
	if next.IsNegative() {
		return a, fmt.Errorf("%w in account %s", ErrInsufficientBalance, a.id)
	}
	return Account{id: a.id, balance: next}, nil
}

func (a Account) Credit(amount decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return a, ErrInvalidAmount
	}
	return Account{id: a.id, balance: a.balance.Add(amount)}, nil
}
