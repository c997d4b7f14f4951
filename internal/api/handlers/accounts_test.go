package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finledger/holdings-backend/internal/api/handlers"
	"github.com/finledger/holdings-backend/internal/api/middleware"
	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/model"
	"github.com/finledger/holdings-backend/internal/testutil"
)

// callAs routes a request through the identity middleware with the given
// caller before it reaches the handler, the way the router does.
func callAs(handler http.HandlerFunc, w http.ResponseWriter, req *http.Request, caller string) {
	if caller != "" {
		req.Header.Set("X-User-ID", caller)
	}
	middleware.Identity(handler).ServeHTTP(w, req)
}

// TestAccountHandler_CreateAccount tests the POST /api/account endpoint.
//
// WHY: Account creation is the first call every client makes. The handler
// must validate input, attribute ownership to the identity header, and
// return the created resource with 201.
func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("creates an account owned by the caller", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/account", request.CreateAccountRequest{
			Name:        "Main Brokerage",
			Institution: "Vanguard",
			AccountType: "brokerage",
		}, nil)
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.CreateAccount, w, req, "user-1")

		// Assert
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Account
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Owner != "user-1" {
			t.Errorf("Expected owner user-1, got %s", response.Owner)
		}
		if response.Name != "Main Brokerage" {
			t.Errorf("Expected name 'Main Brokerage', got '%s'", response.Name)
		}
	})

	t.Run("rejects invalid input with 400", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/account", request.CreateAccountRequest{
			Name:        "",
			AccountType: "hedge-fund",
		}, nil)
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.CreateAccount, w, req, "user-1")

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "account", 0)
	})

	t.Run("rejects requests without an identity with 401", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/account", request.CreateAccountRequest{
			Name:        "Main",
			AccountType: "brokerage",
		}, nil)
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.CreateAccount, w, req, "")

		// Assert
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})
}

// TestAccountHandler_GetAccount tests the GET /api/account/{uuid} endpoint.
//
// WHY: The account read serves the full aggregate. It must enforce ownership
// with 403 and distinguish a missing account with 404.
func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("returns the account with holdings and lots", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)
		account := testutil.CreateAccount(t, db, "user-1")
		testutil.CreateHoldingWithLots(t, db, account.ID, "AAPL",
			[][2]string{{"10", "100"}})

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID,
			map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.GetAccount, w, req, "user-1")

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Account
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(response.Holdings))
		}
		if len(response.Holdings[0].Lots) != 1 {
			t.Errorf("Expected 1 lot, got %d", len(response.Holdings[0].Lots))
		}
	})

	t.Run("returns 403 for a caller who does not own the account", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)
		account := testutil.CreateAccount(t, db, "user-1")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID,
			map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.GetAccount, w, req, "intruder")

		// Assert
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", w.Code)
		}
	})

	t.Run("returns 404 for an unknown account", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)
		unknown := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+unknown,
			map[string]string{"uuid": unknown})
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.GetAccount, w, req, "user-1")

		// Assert
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// TestAccountHandler_GetSummary tests the GET /api/account/{uuid}/summary endpoint.
//
// WHY: The summary is the main dashboard read; the handler must surface the
// derived valuation shape intact.
func TestAccountHandler_GetSummary(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestAccountService(t, db)
	handler := handlers.NewAccountHandler(svc)
	account := testutil.CreateAccount(t, db, "user-1")
	holding := testutil.NewHolding(account.ID).WithSymbol("AAPL").WithPrice("150").Build(t, db)
	testutil.NewLot(holding.ID).WithQuantity("10").WithUnitCost("100").Build(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID+"/summary",
		map[string]string{"uuid": account.ID})
	w := httptest.NewRecorder()

	// Execute
	callAs(handler.GetSummary, w, req, "user-1")

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response model.AccountSummary
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Holdings) != 1 {
		t.Fatalf("Expected 1 holding summary, got %d", len(response.Holdings))
	}
	if response.Holdings[0].MarketValue.String() != "1500" {
		t.Errorf("Expected market value 1500, got %s", response.Holdings[0].MarketValue)
	}
}

// TestAccountHandler_DeleteAccount tests the DELETE /api/account/{uuid} endpoint.
func TestAccountHandler_DeleteAccount(t *testing.T) {
	t.Run("deletes and returns 204", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)
		account := testutil.CreateAccount(t, db, "user-1")

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/account/"+account.ID,
			map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.DeleteAccount, w, req, "user-1")

		// Assert
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "account", 0)
	})

	t.Run("non-owner deletion is refused with 403", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		handler := handlers.NewAccountHandler(svc)
		account := testutil.CreateAccount(t, db, "user-1")

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/account/"+account.ID,
			map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()

		// Execute
		callAs(handler.DeleteAccount, w, req, "intruder")

		// Assert
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", w.Code)
		}
		testutil.AssertRowCount(t, db, "account", 1)
	})
}
