package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/af-corp/bfhl-service/internal/types"
)

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, requestID string, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set(HeaderRequestID, requestID)
	}
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "request_id", requestID, "error", err)
	}
}

// WriteFailure writes the bare {"is_success": false} envelope. No error detail
// is ever included.
func WriteFailure(w http.ResponseWriter, requestID string, statusCode int) {
	WriteJSON(w, requestID, statusCode, types.Failure())
}

func WriteInternalError(w http.ResponseWriter, requestID string) {
	WriteFailure(w, requestID, http.StatusInternalServerError)
}
