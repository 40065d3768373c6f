package push

import (
	"errors"
	"fmt"
)

// The gateway's failure taxonomy. Every failure is converted exactly once, at
// the HTTP boundary, into a status code and a JSON error body.
var (
	// ErrInvalidRequest marks a malformed request (missing title, body, or
	// destination). Maps to 400.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated marks a missing or rejected bearer credential.
	// Maps to 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUpstreamUnavailable marks an unreachable identity provider, as
	// distinct from a bad credential: the caller should retry rather than
	// re-authenticate. Maps to 503.
	ErrUpstreamUnavailable = errors.New("identity provider unavailable")

	// ErrDeliveryFailed marks a send the backend rejected or a transport
	// failure reaching it. Maps to 500.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// DeliveryError carries the upstream failure detail across the boundary so
// the 500 response body can surface it. It unwraps to ErrDeliveryFailed.
type DeliveryError struct {
	Detail string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed: %s", e.Detail)
}

func (e *DeliveryError) Unwrap() error {
	return ErrDeliveryFailed
}
