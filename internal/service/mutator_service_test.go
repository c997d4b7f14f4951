package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/model"
	"github.com/finledger/holdings-backend/internal/testutil"
)

// TestMutatorService_OpenHolding tests buying into holdings.
//
// WHY: Opening a holding is the entry point for every position. The first
// purchase must create the holding, later purchases must add lots to it, and
// buying must never touch the cash balance.
func TestMutatorService_OpenHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("first purchase creates the holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		// Execute
		entry, err := svc.OpenHolding(ctx, account.ID, "user-1", request.OpenHoldingRequest{
			Symbol:     "AAPL",
			AssetKind:  "equity",
			Quantity:   decimal.NewFromInt(10),
			UnitCost:   decimal.NewFromInt(100),
			AcquiredAt: "2024-01-15",
		})

		// Assert
		if err != nil {
			t.Fatalf("OpenHolding() returned unexpected error: %v", err)
		}
		if entry.Kind != model.KindBuy {
			t.Errorf("Expected buy entry, got %s", entry.Kind)
		}
		if !entry.Amount.IsZero() {
			t.Errorf("Expected zero cash amount on buy, got %s", entry.Amount)
		}

		testutil.AssertRowCount(t, db, "holding", 1)
		testutil.AssertRowCount(t, db, "lot", 1)
		testutil.AssertRowCount(t, db, "account_transaction", 1)
	})

	t.Run("second purchase adds a lot to the existing holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		buy := func(quantity, unitCost, date string) {
			t.Helper()
			_, err := svc.OpenHolding(ctx, account.ID, "user-1", request.OpenHoldingRequest{
				Symbol:     "AAPL",
				AssetKind:  "equity",
				Quantity:   decimal.RequireFromString(quantity),
				UnitCost:   decimal.RequireFromString(unitCost),
				AcquiredAt: date,
			})
			if err != nil {
				t.Fatalf("OpenHolding() returned unexpected error: %v", err)
			}
		}

		// Execute
		buy("10", "100", "2024-01-15")
		buy("5", "120", "2024-02-15")

		// Assert
		testutil.AssertRowCount(t, db, "holding", 1)
		testutil.AssertRowCount(t, db, "lot", 2)

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		holding := got.Holding("AAPL")
		if holding == nil {
			t.Fatal("Expected AAPL holding")
		}
		if !holding.TotalQuantity().Equal(decimal.NewFromInt(15)) {
			t.Errorf("Expected total quantity 15, got %s", holding.TotalQuantity())
		}
		if !holding.CostBasis().Equal(decimal.NewFromInt(1600)) {
			t.Errorf("Expected cost basis 1600, got %s", holding.CostBasis())
		}
	})

	t.Run("buying does not change the cash balance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.NewAccount().WithOwner("user-1").WithCash("500").Build(t, db)

		// Execute
		_, err := svc.OpenHolding(ctx, account.ID, "user-1", request.OpenHoldingRequest{
			Symbol:     "AAPL",
			AssetKind:  "equity",
			Quantity:   decimal.NewFromInt(10),
			UnitCost:   decimal.NewFromInt(100),
			AcquiredAt: "2024-01-15",
		})

		// Assert
		if err != nil {
			t.Fatalf("OpenHolding() returned unexpected error: %v", err)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected cash balance 500, got %s", got.CashBalance)
		}
	})

	t.Run("rejects operations by non-owners", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		// Execute
		_, err := svc.OpenHolding(ctx, account.ID, "intruder", request.OpenHoldingRequest{
			Symbol:     "AAPL",
			AssetKind:  "equity",
			Quantity:   decimal.NewFromInt(10),
			UnitCost:   decimal.NewFromInt(100),
			AcquiredAt: "2024-01-15",
		})

		// Assert
		if !errors.Is(err, apperrors.ErrNotAccountOwner) {
			t.Errorf("Expected ErrNotAccountOwner, got %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
	})
}

// TestMutatorService_SellHolding tests selling from holdings.
//
// WHY: Selling is the most delicate mutation: lots must be consumed oldest
// first, the realized gain must be exact, cash must receive the proceeds, and
// an oversell must leave absolutely nothing changed.
func TestMutatorService_SellHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes lots oldest first and records realized gain", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}, {"5", "120"}})

		// Execute: sell 12 at 150. The first lot (10 @ 100) goes entirely,
		// then 2 from the second (5 @ 120).
		entry, err := svc.SellHolding(ctx, account.ID, "user-1", "AAPL", request.SellHoldingRequest{
			Quantity:  decimal.NewFromInt(12),
			SalePrice: decimal.NewFromInt(150),
			Date:      "2024-06-01",
		})

		// Assert: gain = 10*(150-100) + 2*(150-120) = 560
		if err != nil {
			t.Fatalf("SellHolding() returned unexpected error: %v", err)
		}
		if !entry.RealizedGain.Decimal.Equal(decimal.NewFromInt(560)) {
			t.Errorf("Expected realized gain 560, got %s", entry.RealizedGain.Decimal)
		}
		if !entry.Amount.Equal(decimal.NewFromInt(1800)) {
			t.Errorf("Expected proceeds 1800, got %s", entry.Amount)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		holding := got.Holding("AAPL")
		if holding == nil {
			t.Fatal("Expected AAPL holding to survive a partial sale")
		}
		if len(holding.Lots) != 1 {
			t.Fatalf("Expected 1 remaining lot, got %d", len(holding.Lots))
		}
		if !holding.Lots[0].Quantity.Equal(decimal.NewFromInt(3)) {
			t.Errorf("Expected remaining lot quantity 3, got %s", holding.Lots[0].Quantity)
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(1800)) {
			t.Errorf("Expected cash balance 1800, got %s", got.CashBalance)
		}
	})

	t.Run("selling the full position removes the holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		// Execute
		_, err := svc.SellHolding(ctx, account.ID, "user-1", "AAPL", request.SellHoldingRequest{
			Quantity:  decimal.NewFromInt(10),
			SalePrice: decimal.NewFromInt(110),
			Date:      "2024-06-01",
		})

		// Assert
		if err != nil {
			t.Fatalf("SellHolding() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
		testutil.AssertRowCount(t, db, "lot", 0)
	})

	t.Run("sale at price zero records the loss and leaves cash untouched", func(t *testing.T) {
		// Setup: a worthless position. Selling it at 0 must succeed so the
		// sale price and realized loss land in the transaction log.
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.NewAccount().WithOwner("user-1").WithCash("500").Build(t, db)
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		// Execute
		entry, err := svc.SellHolding(ctx, account.ID, "user-1", "AAPL", request.SellHoldingRequest{
			Quantity:  decimal.NewFromInt(10),
			SalePrice: decimal.Zero,
			Date:      "2024-06-01",
		})

		// Assert: zero proceeds, realized loss of 1000, holding gone.
		if err != nil {
			t.Fatalf("SellHolding() at price 0 returned unexpected error: %v", err)
		}
		if !entry.Amount.IsZero() {
			t.Errorf("Expected zero proceeds, got %s", entry.Amount)
		}
		if !entry.UnitPrice.Decimal.IsZero() || !entry.UnitPrice.Valid {
			t.Errorf("Expected recorded sale price 0, got %v", entry.UnitPrice)
		}
		if !entry.RealizedGain.Decimal.Equal(decimal.NewFromInt(-1000)) {
			t.Errorf("Expected realized gain -1000, got %s", entry.RealizedGain.Decimal)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected cash balance 500, got %s", got.CashBalance)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
	})

	t.Run("oversell is rejected whole and changes nothing", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.NewAccount().WithOwner("user-1").WithCash("250").Build(t, db)
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}, {"5", "120"}})

		// Execute
		_, err := svc.SellHolding(ctx, account.ID, "user-1", "AAPL", request.SellHoldingRequest{
			Quantity:  decimal.NewFromInt(16),
			SalePrice: decimal.NewFromInt(150),
			Date:      "2024-06-01",
		})

		// Assert
		if !errors.Is(err, apperrors.ErrInsufficientQuantity) {
			t.Fatalf("Expected ErrInsufficientQuantity, got %v", err)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		holding := got.Holding("AAPL")
		if holding == nil {
			t.Fatal("Expected AAPL holding to be untouched")
		}
		if !holding.TotalQuantity().Equal(decimal.NewFromInt(15)) {
			t.Errorf("Expected quantity 15 untouched, got %s", holding.TotalQuantity())
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(250)) {
			t.Errorf("Expected cash balance 250 untouched, got %s", got.CashBalance)
		}
		testutil.AssertRowCount(t, db, "account_transaction", 0)
	})

	t.Run("selling an unknown symbol returns not found", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		// Execute
		_, err := svc.SellHolding(ctx, account.ID, "user-1", "GONE", request.SellHoldingRequest{
			Quantity:  decimal.NewFromInt(1),
			SalePrice: decimal.NewFromInt(10),
			Date:      "2024-06-01",
		})

		// Assert
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound, got %v", err)
		}
	})
}

// TestMutatorService_RemoveHolding tests clearing a position without a sale.
//
// WHY: A removal is not a sale: it must not touch cash, must not compute a
// gain, and the log entry must carry the remove kind so history readers can
// tell the two apart.
func TestMutatorService_RemoveHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the holding without touching cash", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.NewAccount().WithOwner("user-1").WithCash("1000").Build(t, db)
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}, {"5", "120"}})

		// Execute
		entry, err := svc.RemoveHolding(ctx, account.ID, "user-1", "AAPL", "transferred out")

		// Assert
		if err != nil {
			t.Fatalf("RemoveHolding() returned unexpected error: %v", err)
		}
		if entry.Kind != model.KindRemove {
			t.Errorf("Expected remove entry, got %s", entry.Kind)
		}
		if !entry.Quantity.Decimal.Equal(decimal.NewFromInt(15)) {
			t.Errorf("Expected removed quantity 15, got %s", entry.Quantity.Decimal)
		}
		if entry.RealizedGain.Valid {
			t.Error("Expected no realized gain on a removal")
		}
		if !entry.Amount.IsZero() {
			t.Errorf("Expected zero cash amount on removal, got %s", entry.Amount)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if got.Holding("AAPL") != nil {
			t.Error("Expected AAPL holding to be gone")
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected cash balance 1000 untouched, got %s", got.CashBalance)
		}
		testutil.AssertRowCount(t, db, "lot", 0)
	})

	t.Run("removing an unknown symbol returns not found", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		// Execute
		_, err := svc.RemoveHolding(ctx, account.ID, "user-1", "GONE", "")

		// Assert
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound, got %v", err)
		}
	})
}

// TestMutatorService_RecordCashTransaction tests deposits and withdrawals.
//
// WHY: The cash balance backs withdrawals and receives sale proceeds; it must
// never go negative, and a rejected withdrawal must leave no log entry.
func TestMutatorService_RecordCashTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit credits the balance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		// Execute
		entry, err := svc.RecordCashTransaction(ctx, account.ID, "user-1", request.CashTransactionRequest{
			Kind:   "deposit",
			Amount: decimal.RequireFromString("250.75"),
			Date:   "2024-03-01",
		})

		// Assert
		if err != nil {
			t.Fatalf("RecordCashTransaction() returned unexpected error: %v", err)
		}
		if !entry.Amount.Equal(decimal.RequireFromString("250.75")) {
			t.Errorf("Expected entry amount 250.75, got %s", entry.Amount)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if !got.CashBalance.Equal(decimal.RequireFromString("250.75")) {
			t.Errorf("Expected cash balance 250.75, got %s", got.CashBalance)
		}
	})

	t.Run("withdrawal debits the balance and logs a negative amount", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.NewAccount().WithOwner("user-1").WithCash("1000").Build(t, db)

		// Execute
		entry, err := svc.RecordCashTransaction(ctx, account.ID, "user-1", request.CashTransactionRequest{
			Kind:   "withdrawal",
			Amount: decimal.NewFromInt(300),
			Date:   "2024-03-01",
		})

		// Assert
		if err != nil {
			t.Fatalf("RecordCashTransaction() returned unexpected error: %v", err)
		}
		if !entry.Amount.Equal(decimal.NewFromInt(-300)) {
			t.Errorf("Expected entry amount -300, got %s", entry.Amount)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(700)) {
			t.Errorf("Expected cash balance 700, got %s", got.CashBalance)
		}
	})

	t.Run("overdraft is rejected whole", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.NewAccount().WithOwner("user-1").WithCash("100").Build(t, db)

		// Execute
		_, err := svc.RecordCashTransaction(ctx, account.ID, "user-1", request.CashTransactionRequest{
			Kind:   "withdrawal",
			Amount: decimal.NewFromInt(101),
			Date:   "2024-03-01",
		})

		// Assert
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if !got.CashBalance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected cash balance 100 untouched, got %s", got.CashBalance)
		}
		testutil.AssertRowCount(t, db, "account_transaction", 0)
	})
}

// TestMutatorService_RecordDividend tests dividend recording.
//
// WHY: Dividends only make sense against a held security; the amount lands in
// cash and the log entry keeps the symbol link for summary math.
func TestMutatorService_RecordDividend(t *testing.T) {
	ctx := context.Background()

	t.Run("credits cash and links the entry to the symbol", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		// Execute
		entry, err := svc.RecordDividend(ctx, account.ID, "user-1", "AAPL", request.DividendRequest{
			Amount: decimal.RequireFromString("12.40"),
			Date:   "2024-04-01",
		})

		// Assert
		if err != nil {
			t.Fatalf("RecordDividend() returned unexpected error: %v", err)
		}
		if entry.Kind != model.KindDividend {
			t.Errorf("Expected dividend entry, got %s", entry.Kind)
		}
		if entry.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", entry.Symbol)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		if !got.CashBalance.Equal(decimal.RequireFromString("12.40")) {
			t.Errorf("Expected cash balance 12.40, got %s", got.CashBalance)
		}
	})

	t.Run("rejects a dividend for a symbol not held", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")

		// Execute
		_, err := svc.RecordDividend(ctx, account.ID, "user-1", "GONE", request.DividendRequest{
			Amount: decimal.NewFromInt(5),
			Date:   "2024-04-01",
		})

		// Assert
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound, got %v", err)
		}
	})
}

// TestMutatorService_EditLot tests lot corrections.
//
// WHY: Lot edits fix data-entry mistakes after the fact. Only the provided
// fields may change, the lot ordering must follow a changed acquisition date,
// and the correction must show up in the log.
func TestMutatorService_EditLot(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only the provided fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		holding := testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})
		lotID := holding.Lots[0].ID

		newQuantity := decimal.NewFromInt(12)

		// Execute
		updated, err := svc.EditLot(ctx, account.ID, "user-1", "AAPL", lotID, request.UpdateLotRequest{
			Quantity: &newQuantity,
		})

		// Assert
		if err != nil {
			t.Fatalf("EditLot() returned unexpected error: %v", err)
		}
		if !updated.Quantity.Equal(decimal.NewFromInt(12)) {
			t.Errorf("Expected quantity 12, got %s", updated.Quantity)
		}
		if !updated.UnitCost.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected unit cost 100 untouched, got %s", updated.UnitCost)
		}
		testutil.AssertRowCount(t, db, "account_transaction", 1)
	})

	t.Run("backdating an edit reorders lot consumption", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		holding := testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}, {"5", "120"}})
		secondLotID := holding.Lots[1].ID

		earlier := "2023-06-01"

		// Execute: backdate the second lot before the first, then sell 5.
		// The backdated lot (5 @ 120) must be consumed first.
		_, err := svc.EditLot(ctx, account.ID, "user-1", "AAPL", secondLotID, request.UpdateLotRequest{
			AcquiredAt: &earlier,
		})
		if err != nil {
			t.Fatalf("EditLot() returned unexpected error: %v", err)
		}

		entry, err := svc.SellHolding(ctx, account.ID, "user-1", "AAPL", request.SellHoldingRequest{
			Quantity:  decimal.NewFromInt(5),
			SalePrice: decimal.NewFromInt(150),
			Date:      "2024-06-01",
		})

		// Assert: gain = 5 * (150 - 120) = 150
		if err != nil {
			t.Fatalf("SellHolding() returned unexpected error: %v", err)
		}
		if !entry.RealizedGain.Decimal.Equal(decimal.NewFromInt(150)) {
			t.Errorf("Expected realized gain 150, got %s", entry.RealizedGain.Decimal)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		remaining := got.Holding("AAPL")
		if remaining == nil {
			t.Fatal("Expected AAPL holding")
		}
		if !remaining.TotalQuantity().Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected remaining quantity 10, got %s", remaining.TotalQuantity())
		}
	})

	t.Run("rejects an edit to zero quantity", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		holding := testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		zero := decimal.Zero

		// Execute
		_, err := svc.EditLot(ctx, account.ID, "user-1", "AAPL", holding.Lots[0].ID, request.UpdateLotRequest{
			Quantity: &zero,
		})

		// Assert
		if !errors.Is(err, apperrors.ErrInvalidQuantity) {
			t.Errorf("Expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("unknown lot returns not found", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		// Execute
		_, err := svc.EditLot(ctx, account.ID, "user-1", "AAPL", testutil.MakeID(), request.UpdateLotRequest{})

		// Assert
		if !errors.Is(err, apperrors.ErrLotNotFound) {
			t.Errorf("Expected ErrLotNotFound, got %v", err)
		}
	})
}

// TestMutatorService_DeleteLot tests lot deletion.
//
// WHY: Deleting a lot is the undo for a mistaken purchase. The last lot's
// deletion must take the holding with it, and the deletion must be logged.
func TestMutatorService_DeleteLot(t *testing.T) {
	ctx := context.Background()

	t.Run("removes one lot and keeps the rest", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		accountSvc := testutil.NewTestAccountService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		holding := testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}, {"5", "120"}})

		// Execute
		err := svc.DeleteLot(ctx, account.ID, "user-1", "AAPL", holding.Lots[0].ID)

		// Assert
		if err != nil {
			t.Fatalf("DeleteLot() returned unexpected error: %v", err)
		}

		got, err := accountSvc.GetAccount(account.ID, "user-1")
		if err != nil {
			t.Fatalf("GetAccount() returned unexpected error: %v", err)
		}
		remaining := got.Holding("AAPL")
		if remaining == nil {
			t.Fatal("Expected AAPL holding")
		}
		if !remaining.TotalQuantity().Equal(decimal.NewFromInt(5)) {
			t.Errorf("Expected remaining quantity 5, got %s", remaining.TotalQuantity())
		}
	})

	t.Run("deleting the last lot removes the holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		holding := testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		// Execute
		err := svc.DeleteLot(ctx, account.ID, "user-1", "AAPL", holding.Lots[0].ID)

		// Assert
		if err != nil {
			t.Fatalf("DeleteLot() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
		testutil.AssertRowCount(t, db, "lot", 0)
		testutil.AssertRowCount(t, db, "account_transaction", 1)
	})

	t.Run("unknown lot returns not found", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMutatorService(t, db)
		account := testutil.CreateAccount(t, db, "user-1")
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		// Execute
		err := svc.DeleteLot(ctx, account.ID, "user-1", "AAPL", testutil.MakeID())

		// Assert
		if !errors.Is(err, apperrors.ErrLotNotFound) {
			t.Errorf("Expected ErrLotNotFound, got %v", err)
		}
	})
}
