// Package actor carries the identity of the acting admin through a
// call chain. Mutating storage operations read it when stamping audit
// fields, so every record says who created or revoked it. The value
// travels on a context.Context: concurrent operations started by
// different admins never observe each other's identity, while the
// goroutines belonging to one operation all see the same one.
package actor

import (
	"context"

	"cs-admin/internal/models"
)

// Actor identifies the admin an operation runs on behalf of.
type Actor struct {
	Name    string
	SteamID uint64
}

// Console is the fallback identity for operations issued from the
// server console or from background reconciliation.
func Console() Actor {
	return Actor{Name: models.Message("console_name"), SteamID: 0}
}

type contextKey struct{}

// WithActor returns a context carrying the given admin identity.
func WithActor(ctx context.Context, a Actor) context.Context {
	if a.Name == "" {
		a.Name = models.Message("console_name")
	}
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the acting admin, or the console identity when
// the call chain carries none.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(contextKey{}).(Actor); ok {
		return a
	}
	return Console()
}
