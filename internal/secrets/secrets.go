// Package secrets wraps fernet encryption for values that must not be stored
// in plaintext, such as the price oracle API key.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrDecryptFailed indicates that a stored token could not be verified and
// decrypted, usually because the configured key changed.
var ErrDecryptFailed = errors.New("failed to decrypt secret")

// Codec encrypts and decrypts strings with a single fernet key.
type Codec struct {
	key *fernet.Key
}

// NewCodec creates a Codec from a base64-encoded fernet key, as produced by
// fernet key generators.
func NewCodec(encodedKey string) (*Codec, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Codec{key: key}, nil
}

// Encrypt returns the fernet token for plaintext.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and decrypts a fernet token. Tokens do not expire; the
// stored oracle key stays valid until replaced.
func (c *Codec) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
