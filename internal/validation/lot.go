package validation

import (
	"time"

	"github.com/finledger/holdings-backend/internal/api/request"
)

// ValidateUpdateLot validates a lot correction request. All fields are
// optional, but if provided they must meet the same constraints as a new lot.
func ValidateUpdateLot(req request.UpdateLotRequest) error {
	errors := make(map[string]string)

	if req.Quantity != nil && !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if req.UnitCost != nil && req.UnitCost.IsNegative() {
		errors["unitCost"] = "unitCost cannot be negative"
	}
	if req.AcquiredAt != nil {
		if _, err := time.Parse("2006-01-02", *req.AcquiredAt); err != nil {
			errors["acquiredAt"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
