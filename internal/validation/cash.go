package validation

import (
	"fmt"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/model"
)

// ValidCashKind contains the transaction kinds a caller may record directly
// against the cash balance.
var ValidCashKind = map[string]bool{
	string(model.KindDeposit):    true,
	string(model.KindWithdrawal): true,
}

// ValidateCashTransaction validates a deposit or withdrawal request.
func ValidateCashTransaction(req request.CashTransactionRequest) error {
	errors := make(map[string]string)

	if !ValidCashKind[req.Kind] {
		errors["kind"] = fmt.Sprintf("invalid kind: %s", req.Kind)
	}
	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	validateDate(errors, "date", req.Date)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateDividend validates a dividend record request.
func ValidateDividend(req request.DividendRequest) error {
	errors := make(map[string]string)

	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	validateDate(errors, "date", req.Date)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
