package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/model"
)

// AccountRepository provides data access for the account aggregate: the
// account row, its holdings, their lots, and the append-only transaction log.
//
// Writes follow an optimistic-concurrency discipline: Save bumps the
// account's version and refuses to write when the stored version no longer
// matches the one the aggregate was read at.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Get retrieves the full account aggregate: account row, holdings, and lots,
// with lots ordered by acquisition date ascending.
// Returns apperrors.ErrAccountNotFound if no account has the given ID.
func (r *AccountRepository) Get(accountID string) (model.Account, error) {
	accountQuery := `
		SELECT id, owner, name, institution, account_type, cash_balance, version, created_at
		FROM account
		WHERE id = ?
	`

	var a model.Account
	var institution sql.NullString
	var cashStr, createdAtStr string

	err := r.db.QueryRow(accountQuery, accountID).Scan(
		&a.ID,
		&a.Owner,
		&a.Name,
		&institution,
		&a.AccountType,
		&cashStr,
		&a.Version,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Account{}, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to scan account table results: %w", err)
	}

	if institution.Valid {
		a.Institution = institution.String
	}
	a.CashBalance, err = parseDecimal(cashStr)
	if err != nil {
		return model.Account{}, err
	}
	a.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Account{}, err
	}

	a.Holdings, err = r.getHoldings(accountID)
	if err != nil {
		return model.Account{}, err
	}

	return a, nil
}

// List retrieves all accounts owned by the given identity, without holdings.
// Used for account listings where per-holding detail is not needed.
func (r *AccountRepository) List(owner string) ([]model.Account, error) {
	listQuery := `
		SELECT id, owner, name, institution, account_type, cash_balance, version, created_at
		FROM account
		WHERE owner = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(listQuery, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		var institution sql.NullString
		var cashStr, createdAtStr string

		err := rows.Scan(
			&a.ID,
			&a.Owner,
			&a.Name,
			&institution,
			&a.AccountType,
			&cashStr,
			&a.Version,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}

		if institution.Valid {
			a.Institution = institution.String
		}
		a.CashBalance, err = parseDecimal(cashStr)
		if err != nil {
			return nil, err
		}
		a.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return accounts, nil
}

// ListIDs retrieves the IDs of every account in the system. Used by the
// scheduled price refresh, which walks all accounts.
func (r *AccountRepository) ListIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM account ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return ids, nil
}

// Insert creates a new account row. New accounts start at version 1 with no
// holdings and zero cash.
func (r *AccountRepository) Insert(ctx context.Context, a *model.Account) error {
	insertQuery := `
		INSERT INTO account (id, owner, name, institution, account_type, cash_balance, version)
		VALUES (?, ?, ?, ?, ?, ?, 1)
	`

	_, err := r.db.ExecContext(ctx, insertQuery,
		a.ID, a.Owner, a.Name, a.Institution, a.AccountType, a.CashBalance.String())
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Save writes the full account aggregate back under the optimistic-concurrency
// check, appending the given transaction entries in the same database
// transaction. The account row is updated only if its stored version still
// equals a.Version; holdings and lots are replaced wholesale.
//
// Returns apperrors.ErrConcurrentModification, with nothing written, if the
// account was modified since it was read. On success a.Version is bumped.
func (r *AccountRepository) Save(ctx context.Context, a *model.Account, entries []model.TransactionEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	updateQuery := `
		UPDATE account
		SET name = ?, institution = ?, account_type = ?, cash_balance = ?, version = version + 1
		WHERE id = ? AND version = ?
	`

	result, err := tx.ExecContext(ctx, updateQuery,
		a.Name, a.Institution, a.AccountType, a.CashBalance.String(), a.ID, a.Version)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check account update: %w", err)
	}
	if affected == 0 {
		// Either the account is gone or its version moved underneath us.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM account WHERE id = ?`, a.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, a.ID)
		}
		return fmt.Errorf("%w: account %s at version %d", apperrors.ErrConcurrentModification, a.ID, a.Version)
	}

	// Replace holdings and lots wholesale; the aggregate is the unit of write.
	if _, err := tx.ExecContext(ctx, `DELETE FROM holding WHERE account_id = ?`, a.ID); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}

	holdingQuery := `
		INSERT INTO holding (id, account_id, symbol, display_name, asset_kind, current_price, price_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	lotQuery := `
		INSERT INTO lot (id, holding_id, quantity, unit_cost, acquired_at, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for i := range a.Holdings {
		h := &a.Holdings[i]
		_, err := tx.ExecContext(ctx, holdingQuery,
			h.ID, a.ID, h.Symbol, h.DisplayName, string(h.AssetKind),
			h.CurrentPrice.String(), nullTimeValue(h.PriceUpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Symbol, err)
		}

		for _, lot := range h.Lots {
			_, err := tx.ExecContext(ctx, lotQuery,
				lot.ID, h.ID, lot.Quantity.String(), lot.UnitCost.String(),
				lot.AcquiredAt.UTC().Format(time.RFC3339), lot.Notes)
			if err != nil {
				return fmt.Errorf("failed to insert lot: %w", err)
			}
		}
	}

	entryQuery := `
		INSERT INTO account_transaction (id, account_id, kind, date, symbol, quantity, unit_price, amount, realized_gain, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range entries {
		var symbol any
		if e.Symbol != "" {
			symbol = e.Symbol
		}
		_, err := tx.ExecContext(ctx, entryQuery,
			e.ID, a.ID, string(e.Kind), e.Date.UTC().Format(time.RFC3339),
			symbol, nullDecimalValue(e.Quantity), nullDecimalValue(e.UnitPrice),
			e.Amount.String(), nullDecimalValue(e.RealizedGain), e.Notes)
		if err != nil {
			return fmt.Errorf("failed to append transaction entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account save: %w", err)
	}

	a.Version++
	return nil
}

// Delete removes the account and, by cascade, its holdings, lots, and
// transaction log.
// Returns apperrors.ErrAccountNotFound if no account has the given ID.
func (r *AccountRepository) Delete(ctx context.Context, accountID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check account delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}

	return nil
}

// getHoldings loads all holdings for an account along with their lots.
func (r *AccountRepository) getHoldings(accountID string) ([]model.Holding, error) {
	holdingQuery := `
		SELECT id, account_id, symbol, display_name, asset_kind, current_price, price_updated_at
		FROM holding
		WHERE account_id = ?
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(holdingQuery, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		var displayName, priceUpdatedAtStr sql.NullString
		var kindStr, priceStr string

		err := rows.Scan(
			&h.ID,
			&h.AccountID,
			&h.Symbol,
			&displayName,
			&kindStr,
			&priceStr,
			&priceUpdatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}

		if displayName.Valid {
			h.DisplayName = displayName.String
		}
		h.AssetKind = model.AssetKind(kindStr)
		h.CurrentPrice, err = parseDecimal(priceStr)
		if err != nil {
			return nil, err
		}
		if priceUpdatedAtStr.Valid {
			h.PriceUpdatedAt, err = ParseTime(priceUpdatedAtStr.String)
			if err != nil {
				return nil, err
			}
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	for i := range holdings {
		holdings[i].Lots, err = r.getLots(holdings[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return holdings, nil
}

// getLots loads the lots of one holding, ordered by acquisition date.
func (r *AccountRepository) getLots(holdingID string) ([]model.Lot, error) {
	lotQuery := `
		SELECT id, holding_id, quantity, unit_cost, acquired_at, notes
		FROM lot
		WHERE holding_id = ?
		ORDER BY acquired_at ASC, rowid ASC
	`

	rows, err := r.db.Query(lotQuery, holdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lot table: %w", err)
	}
	defer rows.Close()

	lots := []model.Lot{}
	for rows.Next() {
		var lot model.Lot
		var quantityStr, unitCostStr, acquiredAtStr string
		var notes sql.NullString

		err := rows.Scan(
			&lot.ID,
			&lot.HoldingID,
			&quantityStr,
			&unitCostStr,
			&acquiredAtStr,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lot table results: %w", err)
		}

		lot.Quantity, err = parseDecimal(quantityStr)
		if err != nil {
			return nil, err
		}
		lot.UnitCost, err = parseDecimal(unitCostStr)
		if err != nil {
			return nil, err
		}
		lot.AcquiredAt, err = ParseTime(acquiredAtStr)
		if err != nil {
			return nil, err
		}
		if notes.Valid {
			lot.Notes = notes.String
		}

		lots = append(lots, lot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lot table: %w", err)
	}

	return lots, nil
}
