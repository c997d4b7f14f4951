package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/model"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithOwner("user-1").
//	    WithCash("2500").
//	    Build(t, db)
type AccountBuilder struct {
	ID          string
	Owner       string
	Name        string
	Institution string
	AccountType string
	CashBalance decimal.Decimal
	Version     int64
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:          MakeID(),
		Owner:       "test-user",
		Name:        MakeAccountName("Test Account"),
		Institution: "Test Broker",
		AccountType: "brokerage",
		CashBalance: decimal.Zero,
		Version:     1,
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithOwner sets a custom owner.
func (b *AccountBuilder) WithOwner(owner string) *AccountBuilder {
	b.Owner = owner
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// WithAccountType sets the account type.
func (b *AccountBuilder) WithAccountType(accountType string) *AccountBuilder {
	b.AccountType = accountType
	return b
}

// WithCash sets the cash balance from a decimal string.
func (b *AccountBuilder) WithCash(balance string) *AccountBuilder {
	b.CashBalance = decimal.RequireFromString(balance)
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	query := `
		INSERT INTO account (id, owner, name, institution, account_type, cash_balance, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Owner, b.Name, b.Institution, b.AccountType,
		b.CashBalance.String(), b.Version)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:          b.ID,
		Owner:       b.Owner,
		Name:        b.Name,
		Institution: b.Institution,
		AccountType: b.AccountType,
		CashBalance: b.CashBalance,
		Version:     b.Version,
		Holdings:    []model.Holding{},
	}
}

// Convenience functions

// CreateAccount creates an account owned by the given user with default values.
//
// Example usage:
//
//	account := testutil.CreateAccount(t, db, "user-1")
func CreateAccount(t *testing.T, db *sql.DB, owner string) model.Account {
	t.Helper()
	return NewAccount().WithOwner(owner).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(account.ID).
//	    WithSymbol("AAPL").
//	    WithPrice("150").
//	    Build(t, db)
type HoldingBuilder struct {
	ID             string
	AccountID      string
	Symbol         string
	DisplayName    string
	AssetKind      model.AssetKind
	CurrentPrice   decimal.Decimal
	PriceUpdatedAt time.Time
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding(accountID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:             MakeID(),
		AccountID:      accountID,
		Symbol:         MakeSymbol("TEST"),
		DisplayName:    "Test Security",
		AssetKind:      model.AssetEquity,
		CurrentPrice:   decimal.Zero,
		PriceUpdatedAt: time.Now().UTC(),
	}
}

// WithSymbol sets a custom symbol.
func (b *HoldingBuilder) WithSymbol(symbol string) *HoldingBuilder {
	b.Symbol = symbol
	return b
}

// WithAssetKind sets the asset kind.
func (b *HoldingBuilder) WithAssetKind(kind model.AssetKind) *HoldingBuilder {
	b.AssetKind = kind
	return b
}

// WithPrice sets the cached price from a decimal string.
func (b *HoldingBuilder) WithPrice(price string) *HoldingBuilder {
	b.CurrentPrice = decimal.RequireFromString(price)
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	query := `
		INSERT INTO holding (id, account_id, symbol, display_name, asset_kind, current_price, price_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.AccountID, b.Symbol, b.DisplayName, string(b.AssetKind),
		b.CurrentPrice.String(), b.PriceUpdatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:             b.ID,
		AccountID:      b.AccountID,
		Symbol:         b.Symbol,
		DisplayName:    b.DisplayName,
		AssetKind:      b.AssetKind,
		CurrentPrice:   b.CurrentPrice,
		PriceUpdatedAt: b.PriceUpdatedAt,
		Lots:           []model.Lot{},
	}
}

// LotBuilder provides a fluent interface for creating test lots.
//
// Example usage:
//
//	lot := testutil.NewLot(holding.ID).
//	    WithQuantity("10").
//	    WithUnitCost("100").
//	    AcquiredOn(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type LotBuilder struct {
	ID         string
	HoldingID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	AcquiredAt time.Time
	Notes      string
}

// NewLot creates a LotBuilder with sensible defaults.
func NewLot(holdingID string) *LotBuilder {
	return &LotBuilder{
		ID:         MakeID(),
		HoldingID:  holdingID,
		Quantity:   decimal.NewFromInt(10),
		UnitCost:   decimal.NewFromInt(100),
		AcquiredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithQuantity sets the quantity from a decimal string.
func (b *LotBuilder) WithQuantity(quantity string) *LotBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithUnitCost sets the unit cost from a decimal string.
func (b *LotBuilder) WithUnitCost(unitCost string) *LotBuilder {
	b.UnitCost = decimal.RequireFromString(unitCost)
	return b
}

// AcquiredOn sets the acquisition date.
func (b *LotBuilder) AcquiredOn(date time.Time) *LotBuilder {
	b.AcquiredAt = date
	return b
}

// WithNotes sets the lot notes.
func (b *LotBuilder) WithNotes(notes string) *LotBuilder {
	b.Notes = notes
	return b
}

// Build creates the lot in the database and returns it.
func (b *LotBuilder) Build(t *testing.T, db *sql.DB) model.Lot {
	t.Helper()

	query := `
		INSERT INTO lot (id, holding_id, quantity, unit_cost, acquired_at, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.HoldingID, b.Quantity.String(), b.UnitCost.String(),
		b.AcquiredAt.Format(time.RFC3339), b.Notes)
	if err != nil {
		t.Fatalf("Failed to create test lot: %v", err)
	}

	return model.Lot{
		ID:         b.ID,
		HoldingID:  b.HoldingID,
		Quantity:   b.Quantity,
		UnitCost:   b.UnitCost,
		AcquiredAt: b.AcquiredAt,
		Notes:      b.Notes,
	}
}

// CreateHoldingWithLots creates a holding with one lot per (quantity, unitCost)
// pair, acquired on consecutive days so lot order is deterministic.
//
// Example usage:
//
//	holding := testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
//	    [][2]string{{"10", "100"}, {"5", "120"}})
func CreateHoldingWithLots(t *testing.T, db *sql.DB, accountID, symbol string, lots [][2]string) model.Holding {
	t.Helper()

	holding := NewHolding(accountID).WithSymbol(symbol).Build(t, db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, pair := range lots {
		lot := NewLot(holding.ID).
			WithQuantity(pair[0]).
			WithUnitCost(pair[1]).
			AcquiredOn(base.AddDate(0, 0, i)).
			Build(t, db)
		holding.Lots = append(holding.Lots, lot)
	}
	return holding
}
