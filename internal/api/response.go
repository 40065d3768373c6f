package api

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON error contract: {"error": ...} with an optional
// upstream "details" field on delivery failures.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

func WriteJSONErrorDetails(w http.ResponseWriter, status int, msg, details string) {
	WriteJSON(w, status, errorBody{Error: msg, Details: details})
}
