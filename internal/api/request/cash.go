package request

import "github.com/shopspring/decimal"

type CashTransactionRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes,omitempty"`
}

// DividendRequest records a cash dividend paid by a held security.
type DividendRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes,omitempty"`
}
