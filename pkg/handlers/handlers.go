// Package handlers provides JSON response helpers for HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage writes {"message": msg} with the given status code.
// When err is non-nil it is logged but never written to the client.
// Client errors log at debug; server errors log at error.
func RespondMessage(w http.ResponseWriter, logger *slog.Logger, status int, msg string, err error) {
	if err != nil {
		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelDebug
		}
		logger.Log(context.Background(), level, msg, "error", err, "status", status)
	}
	RespondJSON(w, status, map[string]string{"message": msg})
}
