package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot records one discrete purchase of a security: how much was bought,
// at what unit cost, and when. A lot is immutable until it is consumed by
// a sale; a lot whose quantity reaches zero is deleted, never stored.
type Lot struct {
	ID         string          `json:"id"`
	HoldingID  string          `json:"holdingId"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	AcquiredAt time.Time       `json:"acquiredAt"`
	Notes      string          `json:"notes,omitempty"`
}

// Cost returns the total acquisition cost of the lot (quantity × unit cost).
func (l Lot) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}
