package dispatch

import (
	"context"

	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

// Verifier defines the contract for resolving a bearer credential into a
// caller identity. Implementations talk to the identity provider; tests
// substitute deterministic doubles.
type Verifier interface {
	// Verify validates the raw bearer token and returns the caller identity.
	// A rejected credential fails with push.ErrUnauthenticated; an
	// unreachable provider with push.ErrUpstreamUnavailable.
	Verify(ctx context.Context, token string) (push.Identity, error)
}

// Dispatcher defines the contract for a component that can deliver a
// notification to destination tokens on a specific platform (e.g. FCM).
type Dispatcher interface {
	// SendOne issues exactly one delivery call for a single token. A failed
	// send is a whole-request failure: the outcome records the detail and
	// the error unwraps to push.ErrDeliveryFailed.
	SendOne(ctx context.Context, n push.Notification, token string) (push.DeliveryOutcome, error)

	// SendMany issues one batched delivery call covering all tokens.
	// Per-token failures are data in the result, not errors; only a
	// request-level failure (transport, invalid input) returns an error.
	// Outcomes preserve the caller-supplied token order.
	SendMany(ctx context.Context, n push.Notification, tokens []string) (*push.DispatchResult, error)
}
