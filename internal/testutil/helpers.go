package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/oracle"
	"github.com/finledger/holdings-backend/internal/repository"
	"github.com/finledger/holdings-backend/internal/service"
	"github.com/shopspring/decimal"
)

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewAccountService(
		accountRepo,
		transactionRepo,
	)
}

func NewTestMutatorService(t *testing.T, db *sql.DB) *service.MutatorService {
	t.Helper()

	accountRepo := repository.NewAccountRepository(db)

	return service.NewMutatorService(
		accountRepo,
	)
}

// NewTestPriceService creates a PriceService backed by a stub oracle.
// This is useful for testing price refresh operations without real API calls.
func NewTestPriceService(t *testing.T, db *sql.DB, client oracle.Client) *service.PriceService {
	t.Helper()

	accountRepo := repository.NewAccountRepository(db)

	return service.NewPriceService(
		accountRepo,
		client,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// StubOracle is an oracle.Client serving canned prices from a map.
// A symbol missing from Prices, or a non-nil Err, yields ErrPriceUnavailable.
type StubOracle struct {
	Prices map[string]string
	Err    error
}

// LookupPrice returns the canned price for symbol.
func (s *StubOracle) LookupPrice(ctx context.Context, symbol string) (oracle.Quote, error) {
	if s.Err != nil {
		return oracle.Quote{}, s.Err
	}
	price, ok := s.Prices[symbol]
	if !ok {
		return oracle.Quote{}, apperrors.ErrPriceUnavailable
	}
	return oracle.Quote{
		Symbol: symbol,
		Price:  decimal.RequireFromString(price),
	}, nil
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeAccountName generates a unique account name for testing.
//
// Example usage:
//
//	name := testutil.MakeAccountName("My Account")
//	// Returns: "My Account ABC123"
func MakeAccountName(base string) string {
	if base == "" {
		base = "Account"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
