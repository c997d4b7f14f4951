package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finledger/holdings-backend/internal/apperrors"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// parseDecimal parses a stored decimal column. Decimals are persisted as TEXT;
// a row that fails to parse indicates corrupted data.
func parseDecimal(str string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: bad decimal %q", apperrors.ErrDataInconsistency, str)
	}
	return v, nil
}

// parseNullDecimal parses an optional decimal column.
func parseNullDecimal(str sql.NullString) (decimal.NullDecimal, error) {
	if !str.Valid {
		return decimal.NullDecimal{}, nil
	}
	v, err := parseDecimal(str.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: v, Valid: true}, nil
}

// nullDecimalValue converts an optional decimal to its stored representation.
func nullDecimalValue(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

// nullTimeValue converts a time to its stored representation, mapping the
// zero value to NULL.
func nullTimeValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
