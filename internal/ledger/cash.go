package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/apperrors"
)

// CashLedger tracks the single non-negative cash balance of an account.
// An operation that would drive the balance negative is rejected outright,
// never clamped.
type CashLedger struct {
	balance decimal.Decimal
}

// NewCashLedger creates a cash ledger with the given starting balance.
func NewCashLedger(balance decimal.Decimal) *CashLedger {
	return &CashLedger{balance: balance}
}

// Balance returns the current balance.
func (c *CashLedger) Balance() decimal.Decimal {
	return c.balance
}

// Deposit adds amount to the balance. Amount must be strictly positive.
func (c *CashLedger) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	c.balance = c.balance.Add(amount)
	return nil
}

// Withdraw subtracts amount from the balance. Returns ErrInsufficientFunds
// if amount exceeds the balance; there is no partial withdrawal.
func (c *CashLedger) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if amount.GreaterThan(c.balance) {
		return fmt.Errorf("%w: requested %s, balance %s",
			apperrors.ErrInsufficientFunds, amount, c.balance)
	}
	c.balance = c.balance.Sub(amount)
	return nil
}

// Credit is the internal name for a deposit driven by a sale or dividend.
// Unlike a user-initiated deposit, zero proceeds are valid: a sale at a
// price of zero credits nothing and succeeds.
func (c *CashLedger) Credit(amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	return c.Deposit(amount)
}

// Debit is the internal name for a withdrawal driven by a ledger operation.
func (c *CashLedger) Debit(amount decimal.Decimal) error {
	return c.Withdraw(amount)
}
