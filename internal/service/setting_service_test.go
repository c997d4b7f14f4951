package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/finledger/holdings-backend/internal/repository"
	"github.com/finledger/holdings-backend/internal/secrets"
	"github.com/finledger/holdings-backend/internal/service"
	"github.com/finledger/holdings-backend/internal/testutil"
)

func newTestCodec(t *testing.T) *secrets.Codec {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	codec, err := secrets.NewCodec(key.Encode())
	if err != nil {
		t.Fatalf("NewCodec() returned unexpected error: %v", err)
	}
	return codec
}

// TestSettingService_OracleAPIKey tests encrypted oracle key storage.
//
// WHY: The oracle key is the one secret this system stores. It must never
// land in the database as plaintext, and the read side must hand the
// decrypted key back for quote requests.
func TestSettingService_OracleAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the key encrypted and reads it back", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settingRepo := repository.NewSettingRepository(db)
		svc := service.NewSettingService(settingRepo, newTestCodec(t))

		// Execute
		if err := svc.SetOracleAPIKey(ctx, "super-secret-key"); err != nil {
			t.Fatalf("SetOracleAPIKey() returned unexpected error: %v", err)
		}

		// Assert: the stored value is a fernet token, not the plaintext.
		stored, err := settingRepo.Get(repository.SettingOracleAPIKey)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if stored == "super-secret-key" {
			t.Fatal("Expected the stored value to be encrypted")
		}

		key, err := svc.OracleAPIKey(ctx)
		if err != nil {
			t.Fatalf("OracleAPIKey() returned unexpected error: %v", err)
		}
		if key != "super-secret-key" {
			t.Errorf("Expected round-tripped key, got %q", key)
		}
	})

	t.Run("replacing the key overwrites the old one", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		settingRepo := repository.NewSettingRepository(db)
		svc := service.NewSettingService(settingRepo, newTestCodec(t))

		// Execute
		if err := svc.SetOracleAPIKey(ctx, "first"); err != nil {
			t.Fatalf("SetOracleAPIKey() returned unexpected error: %v", err)
		}
		if err := svc.SetOracleAPIKey(ctx, "second"); err != nil {
			t.Fatalf("SetOracleAPIKey() returned unexpected error: %v", err)
		}

		// Assert
		key, err := svc.OracleAPIKey(ctx)
		if err != nil {
			t.Fatalf("OracleAPIKey() returned unexpected error: %v", err)
		}
		if key != "second" {
			t.Errorf("Expected key 'second', got %q", key)
		}
		testutil.AssertRowCount(t, db, "system_setting", 1)
	})

	t.Run("no stored key reads back as empty", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := service.NewSettingService(repository.NewSettingRepository(db), newTestCodec(t))

		// Execute
		key, err := svc.OracleAPIKey(ctx)

		// Assert
		if err != nil {
			t.Fatalf("OracleAPIKey() returned unexpected error: %v", err)
		}
		if key != "" {
			t.Errorf("Expected empty key, got %q", key)
		}

		configured, err := svc.OracleKeyConfigured()
		if err != nil {
			t.Fatalf("OracleKeyConfigured() returned unexpected error: %v", err)
		}
		if configured {
			t.Error("Expected no key configured")
		}
	})

	t.Run("storing without a codec is refused", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := service.NewSettingService(repository.NewSettingRepository(db), nil)

		// Execute
		err := svc.SetOracleAPIKey(ctx, "key")

		// Assert
		if !errors.Is(err, service.ErrEncryptionUnavailable) {
			t.Errorf("Expected ErrEncryptionUnavailable, got %v", err)
		}
	})
}
