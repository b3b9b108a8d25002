package store

import "context"

type ctxKey struct{}

// WithStore returns a copy of ctx carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// From returns the Store carried by ctx, if any.
func From(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// MustFrom is From for callers that run strictly inside a workspace scope.
// It panics when ctx carries no Store.
func MustFrom(ctx context.Context) *Store {
	s, ok := From(ctx)
	if !ok {
		panic("store: no Store in context; wrap the call with WithStore")
	}
	return s
}
