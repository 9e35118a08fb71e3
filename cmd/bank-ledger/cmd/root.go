// Package cmd provides CLI commands for bank-ledger.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	debug     bool
	serverURL string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bank-ledger",
	Short: "Personal banking ledger",
	Long: `bank-ledger keeps customer accounts, balances and an append-only
transaction log consistent.

It supports:
- Opening one account per customer
- Deposits and withdrawals with overdraft protection
- Statements in JSON or YAML
- Balance audits against the transaction log
- Exporting transactions to Beancount files
- Serving the ledger over HTTP, or talking to a remote server with --server

Example:
  bank-ledger account create --customer-id 9 --name "Customer_01"
  bank-ledger deposit 1 1000
  bank-ledger statement 1 --format yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load(getConfigFile())
		exitOnError(err, "failed to load configuration")

		// Setup logging
		slog.SetDefault(logging.New(cfg.Log, debug || cfg.Debug))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, .env or .yaml (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "base URL of a bank-ledger server (default is the local store)")

	// Add subcommands
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
