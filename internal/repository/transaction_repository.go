package repository

import (
	"database/sql"
	"fmt"

	"github.com/finledger/holdings-backend/internal/model"
)

// TransactionRepository provides read access to the append-only transaction
// log. Entries are only ever written through AccountRepository.Save, inside
// the same database transaction as the account snapshot they belong to.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByAccount retrieves the transaction log for one account, newest first.
// If kind is non-empty only entries of that kind are returned.
func (r *TransactionRepository) GetByAccount(accountID string, kind model.TransactionKind) ([]model.TransactionEntry, error) {
	entryQuery := `
		SELECT id, account_id, kind, date, symbol, quantity, unit_price, amount, realized_gain, notes, created_at
		FROM account_transaction
		WHERE account_id = ?
	`

	args := []any{accountID}
	if kind != "" {
		entryQuery += ` AND kind = ?`
		args = append(args, string(kind))
	}
	entryQuery += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(entryQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account_transaction table: %w", err)
	}
	defer rows.Close()

	entries := []model.TransactionEntry{}
	for rows.Next() {
		var e model.TransactionEntry
		var kindStr, dateStr, amountStr, createdAtStr string
		var symbol, quantityStr, unitPriceStr, realizedStr, notes sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.AccountID,
			&kindStr,
			&dateStr,
			&symbol,
			&quantityStr,
			&unitPriceStr,
			&amountStr,
			&realizedStr,
			&notes,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account_transaction table results: %w", err)
		}

		e.Kind = model.TransactionKind(kindStr)
		e.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		e.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}
		if symbol.Valid {
			e.Symbol = symbol.String
		}
		if notes.Valid {
			e.Notes = notes.String
		}
		e.Amount, err = parseDecimal(amountStr)
		if err != nil {
			return nil, err
		}
		e.Quantity, err = parseNullDecimal(quantityStr)
		if err != nil {
			return nil, err
		}
		e.UnitPrice, err = parseNullDecimal(unitPriceStr)
		if err != nil {
			return nil, err
		}
		e.RealizedGain, err = parseNullDecimal(realizedStr)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account_transaction table: %w", err)
	}

	return entries, nil
}

// CountByAccount returns the number of log entries for an account. Used by
// tests asserting that rejected operations append nothing.
func (r *TransactionRepository) CountByAccount(accountID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM account_transaction WHERE account_id = ?`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count account_transaction rows: %w", err)
	}
	return count, nil
}
