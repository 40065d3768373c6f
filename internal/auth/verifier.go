// Package auth resolves inbound bearer credentials into caller identities
// using Firebase ID-token verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

const bearerPrefix = "Bearer "

// IDTokenVerifier defines the subset of the Firebase Auth API we use.
// Note: *auth.Client automatically satisfies this interface.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// ParseBearer extracts the token from a raw Authorization header value.
// A missing header or non-bearer scheme fails without any identity-provider
// call.
func ParseBearer(headerValue string) (string, error) {
	if headerValue == "" {
		return "", fmt.Errorf("%w: no authorization token provided", push.ErrUnauthenticated)
	}
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return "", fmt.Errorf("%w: authorization header is not a bearer credential", push.ErrUnauthenticated)
	}
	token := strings.TrimSpace(strings.TrimPrefix(headerValue, bearerPrefix))
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", push.ErrUnauthenticated)
	}
	return token, nil
}

// FirebaseVerifier validates ID tokens against Firebase Auth. An unreachable
// provider is reported distinctly from a rejected credential so callers can
// retry instead of re-authenticating.
type FirebaseVerifier struct {
	client  IDTokenVerifier
	timeout time.Duration
	logger  *slog.Logger
}

func NewFirebaseVerifier(client IDTokenVerifier, timeout time.Duration, logger *slog.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{
		client:  client,
		timeout: timeout,
		logger:  logger.With("component", "FirebaseVerifier"),
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (push.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if isProviderUnavailable(err) {
			v.logger.Error("Identity provider unreachable", "err", err)
			return push.Identity{}, fmt.Errorf("%w: %s", push.ErrUpstreamUnavailable, err)
		}
		v.logger.Warn("Token verification rejected", "err", err)
		return push.Identity{}, fmt.Errorf("%w: invalid authorization token", push.ErrUnauthenticated)
	}

	return push.Identity{
		UID:     decoded.UID,
		Expires: time.Unix(decoded.Expires, 0),
	}, nil
}

// isProviderUnavailable separates infrastructure failures from credential
// rejections. Expired, malformed, and revoked tokens all fall through to
// Unauthenticated.
func isProviderUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return errorutils.IsUnavailable(err) || errorutils.IsInternal(err) || errorutils.IsDeadlineExceeded(err)
}
