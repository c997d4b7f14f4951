package request

import "github.com/shopspring/decimal"

// OpenHoldingRequest creates a holding (or adds a lot to an existing one).
// Decimal fields accept both JSON numbers and strings; strings preserve
// exact precision.
type OpenHoldingRequest struct {
	Symbol      string          `json:"symbol"`
	DisplayName string          `json:"displayName"`
	AssetKind   string          `json:"assetKind"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	AcquiredAt  string          `json:"acquiredAt"`
	Notes       string          `json:"notes,omitempty"`
}

type SellHoldingRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Date      string          `json:"date"`
	Notes     string          `json:"notes,omitempty"`
}

type RemoveHoldingRequest struct {
	Reason string `json:"reason,omitempty"`
}
