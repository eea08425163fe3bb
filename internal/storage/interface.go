package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotInitialized is returned by Load when the backing store does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'mealplan init' first")
	// ErrAlreadyInitialized is returned by Init when the backing store already exists.
	ErrAlreadyInitialized = errors.New("storage already initialized")
	// ErrNotLoaded is returned when an operation runs before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrCorruptData is returned when a stored value cannot be decoded.
	ErrCorruptData = errors.New("stored data is corrupt")
)

// KV is a local key-value store holding string values.
type KV interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Items. GetItem reports found=false for an absent key.
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error

	// Location returns a non-sensitive description of where data lives.
	Location() string
}

// Versioned is implemented by backends that track a schema version.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}

// MemoryTarget selects the in-process backend.
const MemoryTarget = ":memory:"

// Open picks a backend from a store target: a PostgreSQL URL, a .json file,
// ":memory:", or otherwise a SQLite database path.
func Open(target string) (KV, error) {
	switch {
	case IsPostgresTarget(target):
		if _, err := ValidateConnString(target); err != nil {
			return nil, err
		}
		return NewPostgresKV(target), nil
	case target == MemoryTarget:
		return NewMemoryKV(), nil
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return NewFileKV(target), nil
	default:
		return NewSQLiteKV(target), nil
	}
}

// IsPostgresTarget reports whether target is a PostgreSQL connection URL.
func IsPostgresTarget(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}
