package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finledger/holdings-backend/internal/apperrors"
)

// Setting keys.
const (
	SettingOracleAPIKey = "oracle_api_key"
)

// SettingRepository provides data access for the system_setting key/value
// table. Values are stored as given; callers are responsible for encrypting
// secrets before storing them.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves the value stored under key.
// Returns apperrors.ErrSettingNotFound if the key has never been set.
func (r *SettingRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM system_setting WHERE "key" = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", apperrors.ErrSettingNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system_setting table: %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	upsertQuery := `
		INSERT INTO system_setting (id, "key", value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, upsertQuery,
		uuid.New().String(), key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert system_setting: %w", err)
	}

	return nil
}
