package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/model"
)

// SaleResult reports the outcome of selling quantity from a holding:
// which lots were consumed, the gain realized against their cost, and the
// gross proceeds at the sale price.
type SaleResult struct {
	Consumed     []Consumption
	RealizedGain decimal.Decimal
	Proceeds     decimal.Decimal
}

// Buy adds a purchase lot to the holding. Buying never moves cash; purchases
// are funded outside the account's cash balance.
func Buy(h *model.Holding, quantity, unitCost decimal.Decimal, acquiredAt time.Time, notes string) (model.Lot, error) {
	lots := NewLotLedger(h.ID, h.Lots)
	lot, err := lots.Add(quantity, unitCost, acquiredAt, notes)
	if err != nil {
		return model.Lot{}, err
	}
	h.Lots = lots.Lots()
	return lot, nil
}

// Sell consumes quantity from the holding's lots oldest-first and computes
// the realized gain at salePrice. On ErrInsufficientQuantity the holding is
// left untouched.
func Sell(h *model.Holding, quantity, salePrice decimal.Decimal) (SaleResult, error) {
	if salePrice.IsNegative() {
		return SaleResult{}, apperrors.ErrNegativeUnitCost
	}

	lots := NewLotLedger(h.ID, h.Lots)
	consumed, err := lots.Consume(quantity)
	if err != nil {
		return SaleResult{}, err
	}
	h.Lots = lots.Lots()

	return SaleResult{
		Consumed:     consumed,
		RealizedGain: RealizedGain(consumed, salePrice),
		Proceeds:     quantity.Mul(salePrice),
	}, nil
}

// Remove clears all lots unconditionally. No price is required and no gain is
// realized; the distinction from a full sale is preserved in the transaction
// log. The caller drops the emptied holding from the account.
func Remove(h *model.Holding) {
	h.Lots = nil
}

// RefreshPrice sets the holding's last known price and the time it was
// observed. It is idempotent and cannot fail for valid numeric input; when
// the oracle cannot supply a price the caller simply does not invoke it, so
// the holding keeps its previous price and staleness stays visible.
func RefreshPrice(h *model.Holding, price decimal.Decimal, at time.Time) error {
	if price.IsNegative() {
		return apperrors.ErrNegativeUnitCost
	}
	h.CurrentPrice = price
	h.PriceUpdatedAt = at.UTC()
	return nil
}
