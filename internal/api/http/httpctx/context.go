// Package httpctx moves the resolved identity in and out of request
// contexts.
package httpctx

import (
	"context"

	"github.com/mtorp/overlook-framework/internal/model"
)

type contextKey struct{}

var identityKey contextKey

// Manager implements model.ContextManager for HTTP requests.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetIdentityToContext returns a context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the identity placed by the resolve
// middleware. The second return is false when no identity was set.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
