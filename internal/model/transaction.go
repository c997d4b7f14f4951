package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies an entry in the account's transaction log.
// A removal (position cleared without a sale) is a first-class kind, not a
// marker hidden inside the notes field.
type TransactionKind string

const (
	KindBuy        TransactionKind = "buy"
	KindSell       TransactionKind = "sell"
	KindRemove     TransactionKind = "remove"
	KindDividend   TransactionKind = "dividend"
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// Valid reports whether the kind is one of the known values.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindBuy, KindSell, KindRemove, KindDividend, KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

// TransactionEntry is one immutable record in an account's append-only
// transaction log. Symbol, Quantity and UnitPrice are only set for
// security-linked entries; RealizedGain is only set on sells. Amount carries
// the signed cash effect of the entry (zero for removals and buys, since
// purchases are funded outside the account's cash balance).
type TransactionEntry struct {
	ID           string              `json:"id"`
	AccountID    string              `json:"accountId"`
	Kind         TransactionKind     `json:"kind"`
	Date         time.Time           `json:"date"`
	Symbol       string              `json:"symbol,omitempty"`
	Quantity     decimal.NullDecimal `json:"quantity,omitempty"`
	UnitPrice    decimal.NullDecimal `json:"unitPrice,omitempty"`
	Amount       decimal.Decimal     `json:"amount"`
	RealizedGain decimal.NullDecimal `json:"realizedGain,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	CreatedAt    time.Time           `json:"createdAt,omitempty"`
}
