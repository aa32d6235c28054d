// Package auth resolves the principal a request acts as. No identity
// provider is assumed; the default resolver returns a fixed principal.
package auth

import (
	"context"
	"net/http"
)

// Principal identifies who a request acts as.
type Principal struct {
	ID   string
	Name string
}

// Resolver resolves the current principal for a request.
type Resolver interface {
	Resolve(r *http.Request) (Principal, error)
}

// StaticResolver always resolves to the same principal.
type StaticResolver struct {
	principal Principal
}

// NewStaticResolver creates a resolver pinned to one principal.
func NewStaticResolver(p Principal) *StaticResolver {
	return &StaticResolver{principal: p}
}

// Resolve returns the pinned principal.
func (s *StaticResolver) Resolve(*http.Request) (Principal, error) {
	return s.principal, nil
}

// DefaultResolver is used when no resolver is configured.
func DefaultResolver() Resolver {
	return NewStaticResolver(Principal{ID: "system", Name: "system"})
}

type principalKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached to the context, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
