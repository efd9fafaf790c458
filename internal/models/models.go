// Package models defines the core data types for the cart.
package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMalformedCart is returned by Decode when the stored payload is not a
// valid cart.
var ErrMalformedCart = errors.New("malformed cart payload")

// ProductInput is the caller-supplied product before it has a quantity.
type ProductInput struct {
	ID       string
	Title    string
	ImageURL string
	Price    float64
}

// Product is a single cart line.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// FromInput builds a Product with quantity 1 from in.
func FromInput(in ProductInput) Product {
	return Product{
		ID:       in.ID,
		Title:    in.Title,
		ImageURL: in.ImageURL,
		Price:    in.Price,
		Quantity: 1,
	}
}

// Cart is the ordered list of products, unique by ID.
type Cart []Product

// Clone returns a copy of c that shares no backing array with it.
// A nil cart clones to an empty, non-nil cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Index returns the position of id in c, or -1.
func (c Cart) Index(id string) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Without returns a new cart with every entry for id removed.
func (c Cart) Without(id string) Cart {
	out := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the sum of all quantities.
func (c Cart) Count() int {
	n := 0
	for _, p := range c {
		n += p.Quantity
	}
	return n
}

// Validate reports the first invariant violation in c: an empty ID,
// a duplicate ID, or a non-positive quantity.
func (c Cart) Validate() error {
	seen := make(map[string]bool, len(c))
	for i, p := range c {
		if p.ID == "" {
			return fmt.Errorf("entry %d: empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("entry %d: duplicate id %q", i, p.ID)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("entry %d (%s): quantity %d", i, p.ID, p.Quantity)
		}
		seen[p.ID] = true
	}
	return nil
}

// Encode serializes c as a JSON array. An empty or nil cart encodes as "[]".
func Encode(c Cart) (string, error) {
	if c == nil {
		c = make(Cart, 0)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a payload produced by Encode and checks the cart invariants.
// A JSON null decodes to an empty cart.
func Decode(payload string) (Cart, error) {
	var c Cart
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCart, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCart, err)
	}
	if c == nil {
		c = make(Cart, 0)
	}
	return c, nil
}

// NewProductID returns a random identifier for products added without one.
func NewProductID() string {
	return uuid.NewString()
}
