package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tinywideclouds/go-push-gateway/internal/auth"
	"github.com/tinywideclouds/go-push-gateway/pkg/dispatch"
	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

type NotifyAPI struct {
	Dispatcher dispatch.Dispatcher
	Logger     *slog.Logger
}

func NewNotifyAPI(dispatcher dispatch.Dispatcher, logger *slog.Logger) *NotifyAPI {
	return &NotifyAPI{
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

type SendRequest struct {
	FCMToken string            `json:"fcmToken"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data"`
}

type SendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

// SendNotification delivers one notification to a single device. A failed
// send fails the whole request with the upstream detail.
func (api *NotifyAPI) SendNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.FCMToken == "" || req.Title == "" || req.Body == "" {
		WriteJSONError(w, http.StatusBadRequest, "Missing required fields: fcmToken, title, body")
		return
	}

	n := push.Notification{Title: req.Title, Body: req.Body, Data: req.Data}
	outcome, err := api.Dispatcher.SendOne(ctx, n, req.FCMToken)
	if err != nil {
		api.writeDispatchError(w, ctx, err, "Failed to send notification")
		return
	}

	WriteJSON(w, http.StatusOK, SendResponse{Success: true, MessageID: outcome.MessageID})
}

type MulticastRequest struct {
	FCMTokens []string          `json:"fcmTokens"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data"`
}

type MulticastResponse struct {
	Success      bool                   `json:"success"`
	SuccessCount int                    `json:"successCount"`
	FailureCount int                    `json:"failureCount"`
	Responses    []push.DeliveryOutcome `json:"responses"`
}

// SendMulticastNotification delivers one notification to a batch of devices.
// Per-token failures are data in a 200 response, never a request error.
func (api *NotifyAPI) SendMulticastNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MulticastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if len(req.FCMTokens) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Invalid FCM tokens array")
		return
	}
	if req.Title == "" || req.Body == "" {
		WriteJSONError(w, http.StatusBadRequest, "Missing required fields: title, body")
		return
	}

	n := push.Notification{Title: req.Title, Body: req.Body, Data: req.Data}
	result, err := api.Dispatcher.SendMany(ctx, n, req.FCMTokens)
	if err != nil {
		api.writeDispatchError(w, ctx, err, "Failed to send notifications")
		return
	}

	WriteJSON(w, http.StatusOK, MulticastResponse{
		Success:      true,
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		Responses:    result.Outcomes,
	})
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health reports liveness; it depends on neither auth nor the backend.
func (api *NotifyAPI) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeDispatchError is the single conversion point from the dispatch error
// taxonomy to the HTTP contract.
func (api *NotifyAPI) writeDispatchError(w http.ResponseWriter, ctx context.Context, err error, failureMsg string) {
	if errors.Is(err, push.ErrInvalidRequest) {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := "unknown"
	if id, ok := auth.IdentityFromContext(ctx); ok {
		uid = id.UID
	}
	api.Logger.Error("Dispatch failed", "caller", uid, "err", err)

	var deliveryErr *push.DeliveryError
	if errors.As(err, &deliveryErr) {
		WriteJSONErrorDetails(w, http.StatusInternalServerError, failureMsg, deliveryErr.Detail)
		return
	}
	WriteJSONErrorDetails(w, http.StatusInternalServerError, failureMsg, err.Error())
}
