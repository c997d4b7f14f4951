package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every pool connection to :memory: is its own database, so the pool
	// must be pinned to a single connection.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Account table
		CREATE TABLE account (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			owner VARCHAR(100) NOT NULL,
			name VARCHAR(100) NOT NULL,
			institution VARCHAR(100),
			account_type VARCHAR(20) NOT NULL,
			cash_balance TEXT NOT NULL DEFAULT '0',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Holding table
		CREATE TABLE holding (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			account_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(20) NOT NULL,
			display_name VARCHAR(100),
			asset_kind VARCHAR(10) NOT NULL,
			current_price TEXT NOT NULL DEFAULT '0',
			price_updated_at DATETIME,
			FOREIGN KEY(account_id) REFERENCES account(id) ON DELETE CASCADE,
			CONSTRAINT unique_account_symbol UNIQUE (account_id, symbol)
		);

		-- Lot table
		CREATE TABLE lot (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			holding_id VARCHAR(36) NOT NULL,
			quantity TEXT NOT NULL,
			unit_cost TEXT NOT NULL,
			acquired_at DATETIME NOT NULL,
			notes TEXT,
			FOREIGN KEY(holding_id) REFERENCES holding(id) ON DELETE CASCADE
		);

		-- Account transaction table
		CREATE TABLE account_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			account_id VARCHAR(36) NOT NULL,
			kind VARCHAR(10) NOT NULL,
			date DATETIME NOT NULL,
			symbol VARCHAR(20),
			quantity TEXT,
			unit_price TEXT,
			amount TEXT NOT NULL,
			realized_gain TEXT,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(account_id) REFERENCES account(id) ON DELETE CASCADE
		);

		-- System setting table
		CREATE TABLE system_setting (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			"key" VARCHAR(50) NOT NULL UNIQUE,
			value TEXT NOT NULL,
			updated_at DATETIME
		);

		-- Indexes for performance
		CREATE INDEX ix_account_owner ON account(owner);
		CREATE INDEX ix_holding_account_id ON holding(account_id);
		CREATE INDEX ix_lot_holding_id ON lot(holding_id);
		CREATE INDEX ix_lot_acquired_at ON lot(holding_id, acquired_at);
		CREATE INDEX ix_account_transaction_account_id ON account_transaction(account_id);
		CREATE INDEX ix_account_transaction_date ON account_transaction(account_id, date);
		CREATE INDEX ix_account_transaction_kind ON account_transaction(account_id, kind);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"account_transaction",
		"lot",
		"holding",
		"account",
		"system_setting",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
