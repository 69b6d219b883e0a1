package storage

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid storage key")
	ErrClosed     = errors.New("storage is closed")
)

// Store is a synchronous string key-value medium.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(key string) (string, error)

	// Set writes value under key, replacing any previous value
	Set(key, value string) error
}

// Backend is a Store that holds resources until closed
type Backend interface {
	Store
	Close() error
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
