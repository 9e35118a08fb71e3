package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display ledger statistics",
	Long: `Display statistics about the ledger store.

Shows:
- Total number of customers
- Total number of accounts
- Total number of transactions
- Total number of exported transactions
- Last transaction timestamp

Example:
  bank-ledger stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	requireLocal("stats")

	local, err := openLocal()
	exitOnError(err, "failed to open store")
	defer local.Close()

	stats, err := local.store.Stats()
	exitOnError(err, "failed to get statistics")

	exported, err := local.history.TotalExported()
	exitOnError(err, "failed to get export statistics")

	// Display statistics
	fmt.Println("\n=== Ledger Statistics ===")
	fmt.Printf("Total customers:       %d\n", stats.TotalCustomers)
	fmt.Printf("Total accounts:        %d\n", stats.TotalAccounts)
	fmt.Printf("Total transactions:    %d\n", stats.TotalEntries)
	fmt.Printf("Exported transactions: %d\n", exported)

	if stats.LastEntryAt != nil {
		fmt.Printf("Last transaction:      %s\n", stats.LastEntryAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Printf("Last transaction:      (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
