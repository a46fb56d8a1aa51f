package qrcode

import "github.com/shopspring/decimal"

// PaymentRequest is the payload encoded into a payment QR code. Amount is
// serialized as a decimal string.
type PaymentRequest struct {
	ToAccount string          `json:"to_account"`
	Amount    decimal.Decimal `json:"amount"`
}

type Generator interface {
	Generate(data PaymentRequest) ([]byte, error)
}
