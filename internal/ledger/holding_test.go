package ledger_test

import (
	"errors"
	"testing"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/ledger"
	"github.com/finledger/holdings-backend/internal/model"
)

func newHolding() *model.Holding {
	return &model.Holding{
		ID:        "h1",
		AccountID: "a1",
		Symbol:    "AAPL",
		AssetKind: model.AssetEquity,
	}
}

func TestHolding_BuyAndSell(t *testing.T) {
	h := newHolding()

	if _, err := ledger.Buy(h, d("10"), d("100"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}
	if _, err := ledger.Buy(h, d("5"), d("120"), day(2), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}

	result, err := ledger.Sell(h, d("12"), d("130"))
	if err != nil {
		t.Fatalf("Sell() returned unexpected error: %v", err)
	}

	if !result.RealizedGain.Equal(d("320")) {
		t.Errorf("Expected realized gain 320, got %s", result.RealizedGain)
	}
	if !result.Proceeds.Equal(d("1560")) {
		t.Errorf("Expected proceeds 1560, got %s", result.Proceeds)
	}
	if !h.TotalQuantity().Equal(d("3")) {
		t.Errorf("Expected remaining quantity 3, got %s", h.TotalQuantity())
	}
}

func TestHolding_SellInsufficientLeavesStateUntouched(t *testing.T) {
	h := newHolding()
	if _, err := ledger.Buy(h, d("3"), d("50"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}

	_, err := ledger.Sell(h, d("20"), d("60"))
	if !errors.Is(err, apperrors.ErrInsufficientQuantity) {
		t.Fatalf("Expected ErrInsufficientQuantity, got %v", err)
	}
	if !h.TotalQuantity().Equal(d("3")) {
		t.Errorf("Holding mutated by failed sell: quantity %s", h.TotalQuantity())
	}
}

func TestHolding_SellNegativePrice(t *testing.T) {
	h := newHolding()
	if _, err := ledger.Buy(h, d("3"), d("50"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}

	if _, err := ledger.Sell(h, d("1"), d("-1")); !errors.Is(err, apperrors.ErrNegativeUnitCost) {
		t.Errorf("Expected ErrNegativeUnitCost, got %v", err)
	}
}

func TestHolding_Remove(t *testing.T) {
	h := newHolding()
	if _, err := ledger.Buy(h, d("3"), d("50"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}

	ledger.Remove(h)
	if len(h.Lots) != 0 {
		t.Errorf("Expected no lots after Remove, got %d", len(h.Lots))
	}
	if !h.TotalQuantity().IsZero() {
		t.Errorf("Expected zero quantity after Remove, got %s", h.TotalQuantity())
	}
}

func TestHolding_RefreshPrice(t *testing.T) {
	h := newHolding()

	if err := ledger.RefreshPrice(h, d("42.50"), day(3)); err != nil {
		t.Fatalf("RefreshPrice() returned unexpected error: %v", err)
	}
	if !h.CurrentPrice.Equal(d("42.50")) {
		t.Errorf("Expected price 42.50, got %s", h.CurrentPrice)
	}
	if !h.PriceUpdatedAt.Equal(day(3)) {
		t.Errorf("Expected price timestamp %s, got %s", day(3), h.PriceUpdatedAt)
	}

	if err := ledger.RefreshPrice(h, d("-1"), day(4)); !errors.Is(err, apperrors.ErrNegativeUnitCost) {
		t.Errorf("Expected ErrNegativeUnitCost for negative price, got %v", err)
	}
	if !h.CurrentPrice.Equal(d("42.50")) {
		t.Errorf("Price changed by rejected refresh: %s", h.CurrentPrice)
	}
}

func TestHolding_Valuation(t *testing.T) {
	h := newHolding()
	if _, err := ledger.Buy(h, d("10"), d("100"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}
	if err := ledger.RefreshPrice(h, d("110"), day(2)); err != nil {
		t.Fatalf("RefreshPrice() returned unexpected error: %v", err)
	}

	if !h.MarketValue().Equal(d("1100")) {
		t.Errorf("Expected market value 1100, got %s", h.MarketValue())
	}
	if !h.UnrealizedGain().Equal(d("100")) {
		t.Errorf("Expected unrealized gain 100, got %s", h.UnrealizedGain())
	}
}

func TestHolding_FormatQuantityByAssetKind(t *testing.T) {
	equity := newHolding()
	if _, err := ledger.Buy(equity, d("10"), d("1"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}
	if got := equity.FormatQuantity(); got != "10.0000" {
		t.Errorf("Expected equity quantity 10.0000, got %s", got)
	}

	crypto := &model.Holding{ID: "h2", Symbol: "BTC", AssetKind: model.AssetCrypto}
	if _, err := ledger.Buy(crypto, d("0.12345678"), d("60000"), day(1), ""); err != nil {
		t.Fatalf("Buy() returned unexpected error: %v", err)
	}
	if got := crypto.FormatQuantity(); got != "0.12345678" {
		t.Errorf("Expected crypto quantity 0.12345678, got %s", got)
	}
}
