// Package api serves the ledger over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/banking"
)

// NewRouter builds the HTTP handler for the service.
func NewRouter(service *banking.Service, logger *slog.Logger, timeout time.Duration) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	accounts := NewAccountsHandler(service)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Route("/api/1", func(r chi.Router) {
		r.Use(SerializeRequests)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", accounts.Create)
			r.Get("/{id}", accounts.Get)
			r.Post("/{id}/transactions", accounts.Transact)
			r.Get("/{id}/statement", accounts.Statement)
			r.Get("/{id}/audit", accounts.Audit)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
