package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tinywideclouds/go-push-gateway/internal/api"
	"github.com/tinywideclouds/go-push-gateway/internal/auth"
	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (push.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(push.Identity), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthMiddleware(t *testing.T) {
	okHandler := func(reached *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*reached = true
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("Missing header rejected before any provider call", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mw := api.NewAuthMiddleware(mockVerifier, newTestLogger())

		var reached bool
		req := httptest.NewRequest("POST", "/send-notification", nil)
		w := httptest.NewRecorder()
		mw(okHandler(&reached)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
		mockVerifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("Rejected credential returns 401", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mw := api.NewAuthMiddleware(mockVerifier, newTestLogger())

		mockVerifier.On("Verify", mock.Anything, "bad").
			Return(push.Identity{}, push.ErrUnauthenticated)

		var reached bool
		req := httptest.NewRequest("POST", "/send-notification", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		mw(okHandler(&reached)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
	})

	t.Run("Unreachable provider returns 503", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mw := api.NewAuthMiddleware(mockVerifier, newTestLogger())

		mockVerifier.On("Verify", mock.Anything, "any").
			Return(push.Identity{}, push.ErrUpstreamUnavailable)

		req := httptest.NewRequest("POST", "/send-notification", nil)
		req.Header.Set("Authorization", "Bearer any")
		w := httptest.NewRecorder()
		mw(okHandler(new(bool))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Valid credential attaches identity to the context", func(t *testing.T) {
		mockVerifier := new(MockVerifier)
		mw := api.NewAuthMiddleware(mockVerifier, newTestLogger())

		identity := push.Identity{UID: "user-1", Expires: time.Now().Add(time.Hour)}
		mockVerifier.On("Verify", mock.Anything, "good").Return(identity, nil)

		var seen push.Identity
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = auth.IdentityFromContext(r.Context())
		})

		req := httptest.NewRequest("POST", "/send-notification", nil)
		req.Header.Set("Authorization", "Bearer good")
		mw(handler).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "user-1", seen.UID)
	})
}

func TestCorsMiddleware(t *testing.T) {
	t.Run("Open by default", func(t *testing.T) {
		mw := api.NewCorsMiddleware(nil)
		w := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
			ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Configured origin echoed, others ignored", func(t *testing.T) {
		mw := api.NewCorsMiddleware([]string{"https://app.example.com"})
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
