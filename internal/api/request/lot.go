package request

import "github.com/shopspring/decimal"

// UpdateLotRequest corrects a specific lot. All fields are optional; omitted
// fields keep their current value.
type UpdateLotRequest struct {
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost   *decimal.Decimal `json:"unitCost,omitempty"`
	AcquiredAt *string          `json:"acquiredAt,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}
