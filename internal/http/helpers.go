package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"moneydrain/internal/core"
	"moneydrain/internal/log"
)

// parseAccount extracts the account selector from the query string,
// defaulting to partition 1.
func parseAccount(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("account"))
	if v == "" {
		return 1, nil
	}
	account, err := strconv.Atoi(v)
	if err != nil || !core.ValidAccount(account) {
		return 0, core.ErrInvalidAccount
	}
	return account, nil
}

// sanitizeInput strips control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", log.FieldError, err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the error taxonomy onto status codes: validation failures
// are 422, not-found-or-forbidden is 404, connectivity is 503.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: core.ErrNotFound.Error()})
	case errors.Is(err, core.ErrUnavailable):
		slog.ErrorContext(r.Context(), "Ledger backend unavailable",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: core.ErrUnavailable.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
