package validation

import (
	"fmt"
	"strings"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/model"
)

// ValidateCreateAccount validates an account creation request.
//
// Required fields:
//   - name: non-empty
//   - accountType: one of brokerage, retirement, crypto, other
func ValidateCreateAccount(req request.CreateAccountRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if strings.TrimSpace(req.AccountType) == "" {
		errors["accountType"] = "accountType is required"
	} else if !model.ValidAccountType[req.AccountType] {
		errors["accountType"] = fmt.Sprintf("invalid account type: %s", req.AccountType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateAccount validates an account update request. All fields are
// optional, but if provided they must meet the same constraints as create.
func ValidateUpdateAccount(req request.UpdateAccountRequest) error {
	errors := make(map[string]string)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errors["name"] = "name cannot be empty"
	}
	if req.AccountType != nil && !model.ValidAccountType[*req.AccountType] {
		errors["accountType"] = fmt.Sprintf("invalid account type: %s", *req.AccountType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
