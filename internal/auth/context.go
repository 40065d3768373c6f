package auth

import (
	"context"

	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

type identityKey struct{}

// ContextWithIdentity attaches the verified caller identity to the request
// context.
func ContextWithIdentity(ctx context.Context, id push.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity set by the auth middleware.
func IdentityFromContext(ctx context.Context) (push.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(push.Identity)
	return id, ok
}
