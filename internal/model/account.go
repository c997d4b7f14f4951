package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidAccountType contains the allowed account type values.
var ValidAccountType = map[string]bool{
	"brokerage": true, "retirement": true, "crypto": true, "other": true,
}

// Account is the aggregate root for one investment account: its holdings,
// its cash balance, and its identity. Version is the optimistic-concurrency
// token; every successful write increments it, and a write against a stale
// version is rejected.
type Account struct {
	ID          string          `json:"id"`
	Owner       string          `json:"owner"`
	Name        string          `json:"name"`
	Institution string          `json:"institution"`
	AccountType string          `json:"accountType"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	Version     int64           `json:"version"`
	Holdings    []Holding       `json:"holdings"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

// Holding returns a pointer to the holding with the given symbol, or nil if
// the account does not hold it.
func (a *Account) Holding(symbol string) *Holding {
	for i := range a.Holdings {
		if a.Holdings[i].Symbol == symbol {
			return &a.Holdings[i]
		}
	}
	return nil
}

// DropHolding removes the holding with the given symbol from the account.
// Dropping a symbol the account does not hold is a no-op.
func (a *Account) DropHolding(symbol string) {
	for i := range a.Holdings {
		if a.Holdings[i].Symbol == symbol {
			a.Holdings = append(a.Holdings[:i], a.Holdings[i+1:]...)
			return
		}
	}
}

// AccountSummary is the read model for an account's current valuation:
// per-holding metrics plus cash and gain/loss totals. It is derived entirely
// from the persisted snapshot and the transaction log.
type AccountSummary struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Owner              string           `json:"owner"`
	Institution        string           `json:"institution"`
	AccountType        string           `json:"accountType"`
	CashBalance        decimal.Decimal  `json:"cashBalance"`
	Holdings           []HoldingSummary `json:"holdings"`
	TotalMarketValue   decimal.Decimal  `json:"totalMarketValue"`
	TotalCostBasis     decimal.Decimal  `json:"totalCostBasis"`
	TotalUnrealized    decimal.Decimal  `json:"totalUnrealizedGain"`
	TotalRealized      decimal.Decimal  `json:"totalRealizedGain"`
	TotalDividends     decimal.Decimal  `json:"totalDividends"`
	TotalValueWithCash decimal.Decimal  `json:"totalValueWithCash"`
}

// HoldingSummary is the per-holding slice of an AccountSummary.
type HoldingSummary struct {
	Symbol         string          `json:"symbol"`
	DisplayName    string          `json:"displayName"`
	AssetKind      AssetKind       `json:"assetKind"`
	Quantity       decimal.Decimal `json:"quantity"`
	AverageCost    decimal.Decimal `json:"averageCost"`
	CostBasis      decimal.Decimal `json:"costBasis"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	PriceUpdatedAt time.Time       `json:"priceUpdatedAt"`
	MarketValue    decimal.Decimal `json:"marketValue"`
	UnrealizedGain decimal.Decimal `json:"unrealizedGain"`
}
