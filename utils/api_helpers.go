package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already written at this point, so logging is all we can do.
		Error("Error encoding JSON response", zap.Error(err))
	}
}

// RespondError sends a JSON error response and logs the message.
func RespondError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		Error(message, zap.Int("status", status))
	} else {
		Debug(message, zap.Int("status", status))
	}
	RespondJSON(w, status, map[string]string{"error": message})
}
