package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind distinguishes the kinds of securities a holding can represent.
// Equities and crypto-assets share the same ledger mechanics; the kind only
// drives display formatting.
type AssetKind string

const (
	AssetEquity AssetKind = "equity"
	AssetCrypto AssetKind = "crypto"
)

// Valid reports whether the asset kind is one of the known values.
func (k AssetKind) Valid() bool {
	return k == AssetEquity || k == AssetCrypto
}

// QuantityPlaces returns the number of decimal places used when formatting
// quantities of this asset kind. Crypto-assets trade in much smaller
// fractions than equities.
func (k AssetKind) QuantityPlaces() int32 {
	if k == AssetCrypto {
		return 8
	}
	return 4
}

// Holding is one security position inside an account: an identifier, a last
// known price, and the ordered purchase lots backing the position. Lots are
// kept sorted by acquisition date ascending.
type Holding struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"accountId"`
	Symbol         string          `json:"symbol"`
	DisplayName    string          `json:"displayName"`
	AssetKind      AssetKind       `json:"assetKind"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	PriceUpdatedAt time.Time       `json:"priceUpdatedAt"`
	Lots           []Lot           `json:"lots"`
}

// TotalQuantity sums the quantity across all lots.
func (h *Holding) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range h.Lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// CostBasis sums quantity × unit cost across all lots.
func (h *Holding) CostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range h.Lots {
		total = total.Add(lot.Cost())
	}
	return total
}

// AverageCost returns cost basis divided by total quantity, or zero when the
// holding is empty.
func (h *Holding) AverageCost() decimal.Decimal {
	quantity := h.TotalQuantity()
	if quantity.IsZero() {
		return decimal.Zero
	}
	return h.CostBasis().DivRound(quantity, 8)
}

// MarketValue returns total quantity × current price.
func (h *Holding) MarketValue() decimal.Decimal {
	return h.TotalQuantity().Mul(h.CurrentPrice)
}

// UnrealizedGain returns market value minus cost basis.
func (h *Holding) UnrealizedGain() decimal.Decimal {
	return h.MarketValue().Sub(h.CostBasis())
}

// FormatQuantity renders the total quantity with the precision appropriate
// for the holding's asset kind.
func (h *Holding) FormatQuantity() string {
	return h.TotalQuantity().StringFixed(h.AssetKind.QuantityPlaces())
}
