package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrHoldingNotFound indicates that the account does not hold the given symbol.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrLotNotFound indicates that a lot with the given ID does not exist.
	ErrLotNotFound = errors.New("lot not found")

	// ErrSettingNotFound indicates that a system setting with the given key does not exist.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientQuantity indicates that a sell cannot be completed because
	// the requested quantity exceeds what the holding's lots contain.
	ErrInsufficientQuantity = errors.New("insufficient quantity for sale")

	// ErrInsufficientFunds indicates that a withdrawal or debit exceeds the
	// account's cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotAccountOwner indicates that the caller's identity does not match
	// the account's owner.
	ErrNotAccountOwner = errors.New("caller is not the account owner")

	// ErrConcurrentModification indicates that the account was modified between
	// read and write; the caller should re-read and retry.
	ErrConcurrentModification = errors.New("account was modified concurrently")

	// ErrPriceUnavailable indicates that the price oracle could not supply a
	// price (not found, timeout, or rate limited). It never means a price of zero.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrInvalidQuantity indicates a quantity that is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNegativeUnitCost indicates a negative unit cost or price.
	ErrNegativeUnitCost = errors.New("unit cost cannot be negative")

	// ErrInvalidAmount indicates a cash amount that is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingIdentity indicates that the request carries no caller identity.
	ErrMissingIdentity = errors.New("caller identity is required")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate that an operation failed, but not due to
// missing entities or validation issues.
var (
	ErrFailedToRetrieveAccounts = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveAccount  = errors.New("failed to retrieve account")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that stored data is in an inconsistent
	// state (e.g., a lot row whose decimal fields cannot be parsed).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
