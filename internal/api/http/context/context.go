package context

import (
	"context"

	"github.com/dtroode/tap-portal-server/internal/model"
)

type principalKey struct{}

// Manager stores the authenticated principal in a request context.
type Manager struct{}

// NewManager creates a new HTTP context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipal returns a copy of ctx carrying principal.
func (m *Manager) SetPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal returns the principal set by SetPrincipal, if any.
func (m *Manager) GetPrincipal(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok || principal.ID == "" {
		return model.Principal{}, false
	}
	return principal, true
}
