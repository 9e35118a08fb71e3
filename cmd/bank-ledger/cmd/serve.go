package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/api"
	"github.com/spf13/cobra"
)

var listenAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Long: `Serve the local ledger store over HTTP.

Endpoints:
  GET  /health
  POST /api/1/accounts
  GET  /api/1/accounts/{id}
  POST /api/1/accounts/{id}/transactions
  GET  /api/1/accounts/{id}/statement
  GET  /api/1/accounts/{id}/audit

Example:
  bank-ledger serve --addr :8080`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default is LEDGER_HTTP_ADDR or :8080)")
}

func runServe(cmd *cobra.Command, args []string) {
	requireLocal("serve")

	local, err := openLocal()
	exitOnError(err, "failed to open store")
	defer local.Close()

	addr := cfg.HTTP.Addr
	if listenAddr != "" {
		addr = listenAddr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(local.service, slog.Default(), cfg.HTTP.Timeout),
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting bank-ledger server", "addr", addr, "store", cfg.Store.Driver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitOnError(err, "server error")
	}

	slog.Info("server stopped")
}
