package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// writeInternalError logs the underlying error with the request's
// correlation id and returns a generic 500 to the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, log *zap.Logger, msg string, err error) {
	log.Error(msg,
		zap.String("correlation_id", chimiddleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// parsePagination reads skip/limit query parameters with a default and a
// hard cap on limit.
func parsePagination(r *http.Request, defaultLimit int) (skip, limit int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	return skip, limit
}
