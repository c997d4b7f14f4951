package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/repository"
	"github.com/finledger/holdings-backend/internal/secrets"
)

// SettingService manages system settings, encrypting secret values before
// they reach the database.
type SettingService struct {
	settingRepo *repository.SettingRepository
	codec       *secrets.Codec
}

// NewSettingService creates a new SettingService with the provided dependencies.
// codec may be nil when no encryption key is configured, in which case
// secret settings cannot be stored.
func NewSettingService(settingRepo *repository.SettingRepository, codec *secrets.Codec) *SettingService {
	return &SettingService{settingRepo: settingRepo, codec: codec}
}

// ErrEncryptionUnavailable indicates that no encryption key is configured, so
// secret settings cannot be stored or read.
var ErrEncryptionUnavailable = errors.New("encryption key not configured")

// SetOracleAPIKey encrypts and stores the price oracle API key.
func (s *SettingService) SetOracleAPIKey(ctx context.Context, apiKey string) error {
	if s.codec == nil {
		return ErrEncryptionUnavailable
	}

	token, err := s.codec.Encrypt(apiKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt oracle API key: %w", err)
	}

	if err := s.settingRepo.Set(ctx, repository.SettingOracleAPIKey, token); err != nil {
		return fmt.Errorf("failed to store oracle API key: %w", err)
	}

	return nil
}

// OracleAPIKey decrypts and returns the stored oracle API key. An empty
// string with nil error means no key has been configured.
func (s *SettingService) OracleAPIKey(ctx context.Context) (string, error) {
	if s.codec == nil {
		return "", nil
	}

	token, err := s.settingRepo.Get(repository.SettingOracleAPIKey)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return s.codec.Decrypt(token)
}

// OracleKeyConfigured reports whether an oracle API key is stored.
func (s *SettingService) OracleKeyConfigured() (bool, error) {
	_, err := s.settingRepo.Get(repository.SettingOracleAPIKey)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
