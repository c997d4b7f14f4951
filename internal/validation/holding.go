package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/model"
)

// ValidateOpenHolding validates a request to open a holding or add a lot.
//
// Required fields:
//   - symbol: non-empty
//   - assetKind: one of equity, crypto
//   - quantity: strictly positive
//   - unitCost: non-negative
//   - acquiredAt: YYYY-MM-DD
func ValidateOpenHolding(req request.OpenHoldingRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if !model.AssetKind(req.AssetKind).Valid() {
		errors["assetKind"] = fmt.Sprintf("invalid asset kind: %s", req.AssetKind)
	}

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if req.UnitCost.IsNegative() {
		errors["unitCost"] = "unitCost cannot be negative"
	}

	validateDate(errors, "acquiredAt", req.AcquiredAt)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateSellHolding validates a sale request.
func ValidateSellHolding(req request.SellHoldingRequest) error {
	errors := make(map[string]string)

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if req.SalePrice.IsNegative() {
		errors["salePrice"] = "salePrice cannot be negative"
	}

	validateDate(errors, "date", req.Date)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateDate(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		errors[field] = err.Error()
	}
}
