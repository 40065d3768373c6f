package fcm

import (
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

// DefaultChannelID is the Android notification channel attached when no
// channel is configured. The client app must register the same channel.
const DefaultChannelID = "app_notifications"

// Builder shapes a push.Notification into the FCM wire format, applying the
// fixed delivery policy: high priority on both the transport and the Android
// notification, plus the configured channel id. Given the same builder, the
// same notification always produces the same wire message.
type Builder struct {
	channelID string
}

func NewBuilder(channelID string) *Builder {
	if channelID == "" {
		channelID = DefaultChannelID
	}
	return &Builder{channelID: channelID}
}

// Single builds the wire message for one destination token.
func (b *Builder) Single(n push.Notification, token string) (*messaging.Message, error) {
	if err := b.validate(n); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("%w: missing destination token", push.ErrInvalidRequest)
	}

	return &messaging.Message{
		Token:        token,
		Notification: b.notification(n),
		Data:         dataOrEmpty(n.Data),
		Android:      b.android(),
	}, nil
}

// Multicast builds the wire message covering all destination tokens.
func (b *Builder) Multicast(n push.Notification, tokens []string) (*messaging.MulticastMessage, error) {
	if err := b.validate(n); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty destination token list", push.ErrInvalidRequest)
	}
	for _, token := range tokens {
		if token == "" {
			return nil, fmt.Errorf("%w: empty destination token in list", push.ErrInvalidRequest)
		}
	}

	return &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: b.notification(n),
		Data:         dataOrEmpty(n.Data),
		Android:      b.android(),
	}, nil
}

func (b *Builder) validate(n push.Notification) error {
	if n.Title == "" || n.Body == "" {
		return fmt.Errorf("%w: missing title or body", push.ErrInvalidRequest)
	}
	return nil
}

func (b *Builder) notification(n push.Notification) *messaging.Notification {
	return &messaging.Notification{
		Title: n.Title,
		Body:  n.Body,
	}
}

func (b *Builder) android() *messaging.AndroidConfig {
	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID: b.channelID,
			Priority:  messaging.PriorityHigh,
		},
	}
}

// dataOrEmpty guarantees a non-nil mapping: the transport requires a map
// even when the caller sent none.
func dataOrEmpty(data map[string]string) map[string]string {
	if data == nil {
		return map[string]string{}
	}
	return data
}
