package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
)

// Error codes that do not come from the ledger.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidParameter = "invalid_parameter"
	CodeServerError      = "server_error"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// SerializeRequests runs one request at a time. The ledger assumes a single writer.
func SerializeRequests(next http.Handler) http.Handler {
	var mu sync.Mutex
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs each request with slog.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}

// writeLedgerError maps a ledger error to its status and code.
func writeLedgerError(w http.ResponseWriter, err error) {
	code := ledger.ErrorCode(err)

	var status int
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidOperation), errors.Is(err, ledger.ErrInvalidAmount):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		if code == "" {
			code = CodeServerError
		}
	}

	writeJSONError(w, status, code, err.Error())
}
