package config

import (
	"context"
	"strings"

	"github.com/tgienger/ainotes/internal/db"
)

// KeyAPIKey is the store key holding a user supplied API key
const KeyAPIKey = "ai-notes-openrouter-key"

// KeyStore manages the chat completion API key. A key set by the user wins
// over the fallback from configuration.
type KeyStore struct {
	store    db.Store
	fallback string
}

// NewKeyStore returns a KeyStore over store. fallback is used when no key is stored.
func NewKeyStore(store db.Store, fallback string) *KeyStore {
	return &KeyStore{store: store, fallback: fallback}
}

// Key returns the user supplied key, or the configured fallback
func (k *KeyStore) Key(ctx context.Context) (string, error) {
	val, found, err := k.store.Get(ctx, KeyAPIKey)
	if err != nil {
		return "", err
	}
	if found && val != "" {
		return val, nil
	}
	return k.fallback, nil
}

// SetKey stores key, trimmed of surrounding whitespace
func (k *KeyStore) SetKey(ctx context.Context, key string) error {
	return k.store.Set(ctx, KeyAPIKey, strings.TrimSpace(key))
}

// ClearKey removes the user supplied key so the fallback applies again
func (k *KeyStore) ClearKey(ctx context.Context) error {
	return k.store.Delete(ctx, KeyAPIKey)
}

// IsValid reports whether a non-empty key is available. The format is not checked.
func (k *KeyStore) IsValid(ctx context.Context) bool {
	key, err := k.Key(ctx)
	return err == nil && key != ""
}

// MaskedKey returns the current key with all but its edges hidden
func (k *KeyStore) MaskedKey(ctx context.Context) (string, error) {
	key, err := k.Key(ctx)
	if err != nil {
		return "", err
	}
	return Mask(key), nil
}

// Mask keeps the first 8 and last 4 characters of key. Keys of 12 characters
// or fewer are masked entirely.
func Mask(key string) string {
	r := []rune(key)
	n := len(r)
	if n == 0 {
		return ""
	}
	if n <= 12 {
		return strings.Repeat("*", n)
	}
	return string(r[:8]) + strings.Repeat("*", n-12) + string(r[n-4:])
}
