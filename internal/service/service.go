// Package service wires configuration, logging, storage and the cart store
// into one session-scoped object.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-ports/gomarketplace/internal/cart"
	"github.com/go-ports/gomarketplace/internal/config"
	"github.com/go-ports/gomarketplace/internal/logger"
	"github.com/go-ports/gomarketplace/internal/storage"
)

// Service owns the storage backend and the loaded cart for one session.
type Service struct {
	CartHome string
	Config   *config.CartConfig

	kv    storage.Storage
	store *cart.Store
}

type options struct {
	backend string
	logOut  io.Writer
}

// Option customises New.
type Option func(*options)

// WithBackend overrides the configured storage backend.
func WithBackend(name string) Option {
	return func(o *options) { o.backend = name }
}

// WithLogOutput sends log records to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// New initialises a Service rooted at cartHome and loads the cart.
// If cartHome is empty it is resolved via config.GetCartHome.
func New(ctx context.Context, cartHome string, opts ...Option) (*Service, error) {
	o := options{logOut: os.Stderr}
	for _, fn := range opts {
		fn(&o)
	}

	if cartHome == "" {
		cartHome = config.GetCartHome()
	}
	if err := os.MkdirAll(cartHome, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create cart home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(cartHome, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}
	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}

	logger.New(o.logOut, cfg.Log)

	kv, err := storage.Open(cfg.Storage, cartHome)
	if err != nil {
		return nil, fmt.Errorf("service.New: open storage: %w", err)
	}

	store := cart.New(kv, cart.WithKey(cfg.Storage.Key))
	if err := store.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}

	return &Service{
		CartHome: cartHome,
		Config:   cfg,
		kv:       kv,
		store:    store,
	}, nil
}

// Cart returns the session's loaded cart store.
func (s *Service) Cart() *cart.Store { return s.store }

// Close releases the storage backend.
func (s *Service) Close() error {
	return s.kv.Close()
}
