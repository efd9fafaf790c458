// Package storage provides the key/value backends the cart persists to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ports/gomarketplace/internal/config"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage is an opaque string key/value store.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases the backend.
	Close() error
}

// Open returns the backend selected by cfg. Relative sqlite paths are
// resolved against home.
func Open(cfg config.StorageConfig, home string) (Storage, error) {
	switch cfg.Backend {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "cart.db"
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(home, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage.Open: %w", err)
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		return OpenRedis(cfg.RedisAddr, cfg.RedisDB), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage.Open: %w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
