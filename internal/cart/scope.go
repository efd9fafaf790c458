package cart

import "context"

type scopeKey struct{}

// WithStore returns a copy of ctx that carries s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the Store attached by WithStore. It panics when ctx
// carries none: reaching for the cart outside its scope is a wiring bug.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(scopeKey{}).(*Store)
	if s == nil {
		panic("cart: FromContext must be used within a WithStore scope")
	}
	return s
}
