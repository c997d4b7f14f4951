// Package ledger implements the lot-based accounting engine: purchase lots,
// FIFO consumption, realized/unrealized gain math, and the account's cash
// balance. It is pure domain logic with no persistence or HTTP concerns.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/model"
)

// LotLedger manages the ordered purchase lots of one holding. Lots are kept
// sorted by acquisition date ascending; lots acquired on the same date keep
// their insertion order. All mutations are all-or-nothing: a failed operation
// leaves the ledger exactly as it was.
type LotLedger struct {
	holdingID string
	lots      []model.Lot
}

// NewLotLedger creates a ledger over a copy of the given lots, restoring the
// ascending acquisition-date order in case the input was unsorted.
func NewLotLedger(holdingID string, lots []model.Lot) *LotLedger {
	sorted := make([]model.Lot, 0, len(lots))
	l := &LotLedger{holdingID: holdingID, lots: sorted}
	for _, lot := range lots {
		l.insert(lot)
	}
	return l
}

// Lots returns a copy of the current lots in acquisition order.
func (l *LotLedger) Lots() []model.Lot {
	out := make([]model.Lot, len(l.lots))
	copy(out, l.lots)
	return out
}

// TotalQuantity sums the quantity across all lots.
func (l *LotLedger) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// CostBasis sums quantity × unit cost across all lots.
func (l *LotLedger) CostBasis() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		total = total.Add(lot.Cost())
	}
	return total
}

// AverageCost returns cost basis divided by total quantity, or zero when the
// ledger holds nothing.
func (l *LotLedger) AverageCost() decimal.Decimal {
	quantity := l.TotalQuantity()
	if quantity.IsZero() {
		return decimal.Zero
	}
	return l.CostBasis().DivRound(quantity, 8)
}

// Add appends a new purchase lot. The lot is inserted so that acquisition
// dates stay ascending; a back-dated purchase lands before later lots rather
// than at the end.
//
// Returns ErrInvalidQuantity if quantity is not strictly positive and
// ErrNegativeUnitCost if unitCost is negative.
func (l *LotLedger) Add(quantity, unitCost decimal.Decimal, acquiredAt time.Time, notes string) (model.Lot, error) {
	if err := validateLot(quantity, unitCost); err != nil {
		return model.Lot{}, err
	}

	lot := model.Lot{
		ID:         uuid.New().String(),
		HoldingID:  l.holdingID,
		Quantity:   quantity,
		UnitCost:   unitCost,
		AcquiredAt: acquiredAt.UTC(),
		Notes:      notes,
	}
	l.insert(lot)
	return lot, nil
}

// Consumption records how much quantity a sale took from one lot. Lot holds
// the lot's state before consumption.
type Consumption struct {
	Lot      model.Lot
	Quantity decimal.Decimal
}

// Consume walks lots oldest-first, consuming up to each lot's quantity until
// the requested quantity is satisfied (FIFO). Partially consumed lots are
// reduced in place; fully consumed lots are removed.
//
// Returns ErrInsufficientQuantity, without mutating any lot, if the requested
// quantity exceeds the sum of all lot quantities.
func (l *LotLedger) Consume(quantity decimal.Decimal) ([]Consumption, error) {
	if !quantity.IsPositive() {
		return nil, apperrors.ErrInvalidQuantity
	}
	if quantity.GreaterThan(l.TotalQuantity()) {
		return nil, fmt.Errorf("%w: requested %s, available %s",
			apperrors.ErrInsufficientQuantity, quantity, l.TotalQuantity())
	}

	var consumed []Consumption
	remaining := quantity
	kept := l.lots[:0]

	for _, lot := range l.lots {
		if remaining.IsZero() {
			kept = append(kept, lot)
			continue
		}

		if lot.Quantity.GreaterThan(remaining) {
			// Partial consumption: the lot survives with a reduced quantity.
			consumed = append(consumed, Consumption{Lot: lot, Quantity: remaining})
			lot.Quantity = lot.Quantity.Sub(remaining)
			remaining = decimal.Zero
			kept = append(kept, lot)
		} else {
			// Full consumption: the lot is removed.
			consumed = append(consumed, Consumption{Lot: lot, Quantity: lot.Quantity})
			remaining = remaining.Sub(lot.Quantity)
		}
	}

	l.lots = kept
	return consumed, nil
}

// RealizedGain computes the gain locked in by a sale at salePrice over the
// consumed lots: Σ quantity × (salePrice − unitCost).
func RealizedGain(consumed []Consumption, salePrice decimal.Decimal) decimal.Decimal {
	gain := decimal.Zero
	for _, c := range consumed {
		gain = gain.Add(c.Quantity.Mul(salePrice.Sub(c.Lot.UnitCost)))
	}
	return gain
}

// Edit replaces the quantity, unit cost, acquisition date, and notes of the
// lot with the given ID, validated the same way as Add. The lot is re-sorted
// if its acquisition date changed.
//
// Returns ErrLotNotFound if no lot has the given ID.
func (l *LotLedger) Edit(lotID string, quantity, unitCost decimal.Decimal, acquiredAt time.Time, notes string) (model.Lot, error) {
	if err := validateLot(quantity, unitCost); err != nil {
		return model.Lot{}, err
	}

	idx := l.indexOf(lotID)
	if idx < 0 {
		return model.Lot{}, fmt.Errorf("%w: %s", apperrors.ErrLotNotFound, lotID)
	}

	lot := l.lots[idx]
	lot.Quantity = quantity
	lot.UnitCost = unitCost
	lot.AcquiredAt = acquiredAt.UTC()
	lot.Notes = notes

	l.lots = append(l.lots[:idx], l.lots[idx+1:]...)
	l.insert(lot)
	return lot, nil
}

// Delete removes the lot with the given ID.
// Returns ErrLotNotFound if no lot has the given ID.
func (l *LotLedger) Delete(lotID string) error {
	idx := l.indexOf(lotID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrLotNotFound, lotID)
	}
	l.lots = append(l.lots[:idx], l.lots[idx+1:]...)
	return nil
}

// Clear removes all lots unconditionally. Used when a holding is removed
// without a sale.
func (l *LotLedger) Clear() {
	l.lots = nil
}

// insert places the lot so that acquisition dates stay ascending, with equal
// dates ordered by insertion.
func (l *LotLedger) insert(lot model.Lot) {
	idx := len(l.lots)
	for i := range l.lots {
		if l.lots[i].AcquiredAt.After(lot.AcquiredAt) {
			idx = i
			break
		}
	}
	l.lots = append(l.lots, model.Lot{})
	copy(l.lots[idx+1:], l.lots[idx:])
	l.lots[idx] = lot
}

func (l *LotLedger) indexOf(lotID string) int {
	for i := range l.lots {
		if l.lots[i].ID == lotID {
			return i
		}
	}
	return -1
}

func validateLot(quantity, unitCost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return apperrors.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return apperrors.ErrNegativeUnitCost
	}
	return nil
}
