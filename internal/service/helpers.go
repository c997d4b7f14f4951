package service

import (
	"fmt"
	"time"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/model"
)

// verifyOwner rejects any operation whose caller is not the account's owner.
// Every service entry point runs this before touching the aggregate.
func verifyOwner(a *model.Account, caller string) error {
	if caller == "" {
		return apperrors.ErrMissingIdentity
	}
	if a.Owner != caller {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotAccountOwner, a.ID)
	}
	return nil
}

// parseDate parses the YYYY-MM-DD dates carried by request bodies.
func parseDate(str string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return t.UTC(), nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
