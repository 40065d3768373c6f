package fcm

import (
	"context"
	"log/slog"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// This interface allows us to mock the client for unit testing.
// Note: *messaging.Client automatically satisfies this interface.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Dispatcher delivers notifications through FCM. It issues exactly one
// backend call per request and never retries; retry policy belongs to the
// caller.
type Dispatcher struct {
	client  MessagingClient
	builder *Builder
	timeout time.Duration
	logger  *slog.Logger
}

func NewDispatcher(client MessagingClient, builder *Builder, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		builder: builder,
		timeout: timeout,
		logger:  logger.With("component", "FCMDispatcher"),
	}
}

// SendOne issues a single delivery call. A failure here fails the whole
// request: the returned outcome carries the upstream detail and the error
// unwraps to push.ErrDeliveryFailed.
func (d *Dispatcher) SendOne(ctx context.Context, n push.Notification, token string) (push.DeliveryOutcome, error) {
	msg, err := d.builder.Single(n, token)
	if err != nil {
		return push.DeliveryOutcome{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	messageID, err := d.client.Send(ctx, msg)
	if err != nil {
		d.logger.Error("FCM send failed", "err", err)
		return push.DeliveryOutcome{Token: token, Success: false, Error: err.Error()},
			&push.DeliveryError{Detail: err.Error()}
	}

	d.logger.Info("Notification sent", "message_id", messageID)
	return push.DeliveryOutcome{Token: token, Success: true, MessageID: messageID}, nil
}

// SendMany issues one batched delivery call covering all tokens. Per-token
// failures are recorded in the result; only a transport-level failure (or a
// backend outcome-count mismatch) fails the request.
func (d *Dispatcher) SendMany(ctx context.Context, n push.Notification, tokens []string) (*push.DispatchResult, error) {
	msg, err := d.builder.Multicast(n, tokens)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	br, err := d.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		d.logger.Error("FCM multicast transport failed", "err", err)
		return nil, &push.DeliveryError{Detail: err.Error()}
	}

	// The batch response reports outcomes in input order; zip them back to
	// the caller's tokens positionally.
	outcomes := make([]push.DeliveryOutcome, 0, len(br.Responses))
	for idx, resp := range br.Responses {
		outcome := push.DeliveryOutcome{Success: resp.Success}
		if idx < len(tokens) {
			outcome.Token = tokens[idx]
		}
		if resp.Success {
			outcome.MessageID = resp.MessageID
		} else if resp.Error != nil {
			outcome.Error = resp.Error.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	result, err := push.Aggregate(len(tokens), outcomes)
	if err != nil {
		d.logger.Error("FCM batch outcome count mismatch", "requested", len(tokens), "returned", len(outcomes))
		return nil, err
	}

	d.logger.Info("Multicast sent", "success", result.SuccessCount, "failure", result.FailureCount)
	return result, nil
}
