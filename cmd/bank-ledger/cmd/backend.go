package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/banking"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/boltstore"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/client"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/db"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/export"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/pathutil"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
)

// backend is implemented by both *banking.Service and *client.Client.
type backend interface {
	CreateAccount(customerID int64, name, email, phone string) (*ledger.Account, error)
	GetAccount(accountID int64) (*ledger.Account, error)
	ApplyTransaction(accountID int64, amount decimal.Decimal, kind string) (*ledger.Account, error)
	Statement(accountID int64) ([]statement.Line, error)
	Audit(accountID int64) (*ledger.AuditReport, error)
}

var (
	_ backend = (*banking.Service)(nil)
	_ backend = (*client.Client)(nil)
)

// localLedger bundles the opened store with its export history.
type localLedger struct {
	store        ledger.Store
	history      export.History
	pathResolver *pathutil.PathResolver
	service      *banking.Service
}

// openLocal opens the store selected by the configuration.
func openLocal() (*localLedger, error) {
	if err := cfg.Validate([]string{"store", "root"}); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pathResolver := pathutil.New(pathutil.Config{
		DataRoot:     cfg.Store.Root,
		DatabasePath: cfg.Store.DBPath,
		BoltPath:     cfg.Store.BoltPath,
		ExportDir:    cfg.Export.Dir,
	})

	local := &localLedger{pathResolver: pathResolver}

	switch cfg.Store.Driver {
	case config.DriverBolt:
		boltPath := pathResolver.GetBoltPath()
		slog.Debug("Opening bolt store", "path", boltPath)
		if err := pathResolver.EnsureParentDir(boltPath); err != nil {
			return nil, err
		}
		st, err := boltstore.New(boltPath)
		if err != nil {
			return nil, err
		}
		local.store = st
		local.history = st
	default:
		dbPath := pathResolver.GetDatabasePath()
		slog.Debug("Opening database", "path", dbPath)
		conn, err := db.Open(dbPath)
		if err != nil {
			return nil, err
		}
		local.store = db.NewLedgerStore(conn)
		local.history = db.NewExportHistory(conn)
	}

	local.service = banking.NewService(local.store, slog.Default())
	return local, nil
}

// Close closes the underlying store.
func (l *localLedger) Close() {
	if err := l.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
}

// openBackend returns the remote client when --server is set, otherwise the local service.
func openBackend() (backend, func()) {
	if serverURL != "" {
		slog.Debug("Using remote ledger", "server", serverURL)
		return client.NewClient(client.ClientConfig{
			BaseURL: serverURL,
			Timeout: cfg.HTTP.Timeout,
		}), func() {}
	}

	local, err := openLocal()
	exitOnError(err, "failed to open store")
	return local.service, local.Close
}

// requireLocal rejects commands that only work against the local store.
func requireLocal(command string) {
	if serverURL != "" {
		exitOnError(fmt.Errorf("%s does not support --server", command), "invalid flags")
	}
}

func parseAccountID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err == nil && id <= 0 {
		err = errors.New("must be positive")
	}
	exitOnError(err, fmt.Sprintf("invalid account id %q", arg))
	return id
}

func parseAmount(arg string) decimal.Decimal {
	amount, err := decimal.NewFromString(arg)
	exitOnError(err, fmt.Sprintf("invalid amount %q", arg))
	return amount
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	exitOnError(err, "failed to encode output")
	fmt.Fprintln(os.Stdout, string(data))
}
