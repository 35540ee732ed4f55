// Package cryptox seals small secrets at rest: AES-256-GCM with the nonce
// prepended to the ciphertext, keyed by an HKDF-SHA256 derivation of a
// per-device secret.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/dmitrijs2005/authkeeper/internal/filex"
)

// KeySize is the AES-256 key length and the device secret length.
const KeySize = 32

var (
	ErrInvalidKey        = errors.New("invalid key: must be 32 bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrNoDeviceSecret    = errors.New("device secret not found")
)

// DeriveKey derives a KeySize key from secret for the given purpose.
// Different purposes yield unrelated keys from the same secret.
func DeriveKey(secret []byte, purpose string) ([]byte, error) {
	if len(secret) != KeySize {
		return nil, ErrInvalidKey
	}
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext||tag.
func Seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Tampered or truncated input yields ErrInvalidCiphertext.
func Open(key, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// LoadDeviceSecret reads a hex-encoded device secret. A missing file yields
// ErrNoDeviceSecret.
func LoadDeviceSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoDeviceSecret
		}
		return nil, fmt.Errorf("read device secret: %w", err)
	}

	secret, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decode device secret: %w", err)
	}
	if len(secret) != KeySize {
		return nil, ErrInvalidKey
	}
	return secret, nil
}

// CreateDeviceSecret writes a fresh random secret to path (mode 0600) and
// returns it. An existing file is left untouched and returned instead.
func CreateDeviceSecret(path string) ([]byte, error) {
	if secret, err := LoadDeviceSecret(path); err == nil {
		return secret, nil
	} else if !errors.Is(err, ErrNoDeviceSecret) {
		return nil, err
	}

	secret := make([]byte, KeySize)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("create device secret dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(secret)), 0o600); err != nil {
		return nil, fmt.Errorf("write device secret: %w", err)
	}
	return secret, nil
}

// Wipe zeroes b. Nil is allowed.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
