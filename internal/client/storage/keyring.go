package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringBackend stores values in the OS keyring under one service name,
// using the key as the keyring user.
type KeyringBackend struct {
	service string
}

func NewKeyringBackend(service string) *KeyringBackend {
	return &KeyringBackend{service: service}
}

func (k *KeyringBackend) Get(_ context.Context, key string) (string, bool, error) {
	v, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: keyring get %s: %w", ErrUnavailable, key, err)
	}
	return v, true, nil
}

func (k *KeyringBackend) Set(_ context.Context, key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("%w: keyring set %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

func (k *KeyringBackend) Remove(_ context.Context, key string) error {
	err := keyring.Delete(k.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: keyring remove %s: %w", ErrUnavailable, key, err)
	}
	return nil
}
