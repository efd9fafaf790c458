// Package cart implements the cart store: an in-memory product list that is
// written through to a key/value slot on every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/go-ports/gomarketplace/internal/config"
	"github.com/go-ports/gomarketplace/internal/models"
	"github.com/go-ports/gomarketplace/internal/storage"
)

var (
	// ErrNotLoaded is returned when an operation runs before Load.
	ErrNotLoaded = errors.New("cart not loaded")
	// ErrNotFound is returned by Increment and Decrement for an unknown id.
	ErrNotFound = errors.New("product not in cart")
	// ErrInvalidProduct is returned by AddToCart for a product without an id
	// or with a negative or non-finite price.
	ErrInvalidProduct = errors.New("invalid product")
)

// Store owns the cart state. All mutations are serialized: each one holds
// the writer lock from reading the current list until the new list is
// committed, so concurrent callers never lose each other's updates.
type Store struct {
	kv  storage.Storage
	key string

	mu       sync.RWMutex
	products models.Cart
	loaded   bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key the cart is persisted under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New returns an empty, unloaded Store backed by kv.
func New(kv storage.Storage, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      config.DefaultCartKey,
		products: make(models.Cart, 0),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the storage key the cart is persisted under.
func (s *Store) Key() string { return s.key }

// Load hydrates the store from storage. A missing key leaves the cart
// empty. A malformed payload is logged and also leaves the cart empty; the
// next successful mutation overwrites it.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("cart.Load: %w", err)
	}

	s.products = make(models.Cart, 0)
	s.loaded = true
	if !ok {
		return nil
	}

	products, err := models.Decode(payload)
	if err != nil {
		slog.Warn("cart.Load: discarding stored cart", "key", s.key, "err", err)
		return nil
	}
	s.products = products
	slog.Debug("cart.Load", "key", s.key, "products", len(products))
	return nil
}

// Products returns a snapshot of the cart. It is empty before Load.
func (s *Store) Products() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Clone()
}

// Find returns the entry for id.
func (s *Store) Find(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.products.Index(id); i >= 0 {
		return s.products[i], true
	}
	return models.Product{}, false
}

// Count returns the total number of items in the cart.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Count()
}

// AddToCart adds one unit of in. An existing entry has its quantity raised
// by one and moves to the end of the list; a new entry is appended with
// quantity 1.
func (s *Store) AddToCart(ctx context.Context, in models.ProductInput) (models.Cart, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("cart.AddToCart: %w: empty id", ErrInvalidProduct)
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return nil, fmt.Errorf("cart.AddToCart: %w: price %v", ErrInvalidProduct, in.Price)
	}
	return s.mutate(ctx, "cart.AddToCart", func(current models.Cart) (models.Cart, error) {
		p := models.FromInput(in)
		if i := current.Index(in.ID); i >= 0 {
			p = current[i]
			p.Quantity++
		}
		return append(current.Without(in.ID), p), nil
	})
}

// Increment raises the quantity of id by one.
func (s *Store) Increment(ctx context.Context, id string) (models.Cart, error) {
	return s.mutate(ctx, "cart.Increment", func(current models.Cart) (models.Cart, error) {
		i := current.Index(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		p := current[i]
		p.Quantity++
		return append(current.Without(id), p), nil
	})
}

// Decrement lowers the quantity of id by one, removing the entry when it
// reaches zero.
func (s *Store) Decrement(ctx context.Context, id string) (models.Cart, error) {
	return s.mutate(ctx, "cart.Decrement", func(current models.Cart) (models.Cart, error) {
		i := current.Index(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		p := current[i]
		p.Quantity--
		next := current.Without(id)
		if p.Quantity <= 0 {
			return next, nil
		}
		return append(next, p), nil
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) (models.Cart, error) {
	return s.mutate(ctx, "cart.Clear", func(models.Cart) (models.Cart, error) {
		return make(models.Cart, 0), nil
	})
}

// mutate runs fn against the current cart, writes the result and only then
// commits it in memory. If fn or the write fails the state is untouched.
func (s *Store) mutate(ctx context.Context, op string, fn func(models.Cart) (models.Cart, error)) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}

	next, err := fn(s.products.Clone())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := models.Encode(next)
	if err != nil {
		return nil, fmt.Errorf("%s: encode: %w", op, err)
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.products = next
	return next.Clone(), nil
}
