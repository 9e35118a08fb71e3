package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/beancount"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/converter"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/export"
	"github.com/spf13/cobra"
)

var dryRun bool

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <account-id>",
	Short: "Export an account's transactions to Beancount",
	Long: `Export transactions of an account to monthly Beancount files.

This command:
1. Reads the account's transaction log
2. Filters out already exported transactions
3. Converts them to Beancount format
4. Appends to {export_dir}/{account_number}/{YYYY}/{YYYY-MM}.beancount
5. Records export history in the store

Example:
  bank-ledger export 1
  bank-ledger export 1 --dry-run`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (no file writes)")
}

func runExport(cmd *cobra.Command, args []string) {
	requireLocal("export")
	accountID := parseAccountID(args[0])

	slog.Info("Starting export", "account_id", accountID, "dry_run", dryRun)

	local, err := openLocal()
	exitOnError(err, "failed to open store")
	defer local.Close()

	var mapper *converter.Mapper
	if cfg.Export.MappingFile != "" {
		mapper, err = converter.NewMapper(cfg.Export.MappingFile)
		exitOnError(err, "failed to load account mapping")
	} else {
		mapper = converter.NewMapperFromConfig(converter.MappingConfig{Currency: cfg.Export.Currency})
	}

	exporter := export.NewExporter(
		local.store,
		local.history,
		converter.NewConverter(mapper),
		beancount.NewFileSystemRepository(local.pathResolver),
		local.pathResolver,
		slog.Default(),
	)

	result, err := exporter.Export(accountID, dryRun)
	exitOnError(err, "export failed")

	if dryRun {
		fmt.Println("\n=== DRY RUN: Transactions to be exported ===")
		for _, txn := range result.Preview {
			fmt.Println(txn)
		}
		return
	}

	fmt.Println("\n=== Export Complete ===")
	fmt.Printf("Exported: %d\n", result.Exported)
	fmt.Printf("Skipped:  %d\n", result.Skipped)
	for _, path := range result.FilesWritten {
		fmt.Printf("Updated:  %s\n", path)
	}
	fmt.Println()

	slog.Info("Export completed successfully", "exported", result.Exported)
}
