// Package push contains the public domain models and error taxonomy for the
// push gateway.
package push

import "time"

// Notification is the normalized content of a single push request, before it
// is shaped into the delivery backend's wire format.
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Identity is the opaque caller identity resolved from a verified credential.
// Dispatch logic never inspects it; it exists for authorization and audit.
type Identity struct {
	UID     string    `json:"uid"`
	Expires time.Time `json:"expires"`
}

// DeliveryOutcome is the per-token result of a dispatch attempt.
// MessageID is set iff the send succeeded; Error iff it failed.
type DeliveryOutcome struct {
	Token     string `json:"token"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DispatchResult summarizes a multicast send. Outcomes are ordered exactly as
// the caller-supplied tokens, so callers can zip tokens to outcomes
// positionally.
type DispatchResult struct {
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
	Outcomes     []DeliveryOutcome `json:"responses"`
}
