package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a failure to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shopping.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shopping.ErrForbidden),
		errors.Is(err, shopping.ErrMissingCaller),
		errors.Is(err, shopping.ErrNoFieldsToUpdate),
		errors.Is(err, shopping.ErrItemListMismatch),
		errors.Is(err, shopping.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shopping.ErrInconsistent),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err for the client. Internal failures are logged and
// replaced with an opaque message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), op+" failed", "error", err)
		writeErrorMessage(w, status, "internal error")
		return
	}
	logger.DebugContext(r.Context(), op+" rejected", "error", err, "status", status)
	writeErrorMessage(w, status, err.Error())
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON")
	}
	return nil
}
