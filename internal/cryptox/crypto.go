// Package cryptox seals credential values at rest. It stands in for the
// platform keystore a mobile client would use.
package cryptox

import (
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/dmitrijs2005/gymclient/internal/filex"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of a sealing key in bytes.
const KeySize = chacha20poly1305.KeySize

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// Sealer encrypts short strings with XChaCha20-Poly1305. The random nonce is
// prepended to the ciphertext and the result is base64 encoded so it can be
// stored in text columns.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext. additional is authenticated but not encrypted;
// callers pass the storage key so a value cannot be moved to another key.
func (s *Sealer) Seal(plaintext, additional string) string {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(additional))
	return base64.StdEncoding.EncodeToString(out)
}

func (s *Sealer) Open(sealed, additional string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns+s.aead.Overhead() {
		return "", ErrMalformedCiphertext
	}
	plaintext, err := s.aead.Open(nil, raw[:ns], raw[ns:], []byte(additional))
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plaintext), nil
}

// LoadOrCreateKey reads a KeySize-byte key from path, generating and writing
// a fresh one (mode 0600) when the file does not exist yet.
func LoadOrCreateKey(path string) ([]byte, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(key) != KeySize {
			return nil, fmt.Errorf("key file %s: expected %d bytes, got %d", path, KeySize, len(key))
		}
		return key, nil
	case errors.Is(err, os.ErrNotExist):
		key = common.GenerateRandByteArray(KeySize)
		if err := os.WriteFile(path, key, 0o600); err != nil {
			return nil, fmt.Errorf("write key file: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("read key file: %w", err)
	}
}
