package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit <account-id>",
	Short: "Check the balance against the transaction log",
	Long: `Replay the transaction log of an account from zero and compare the
result with the stored balance. Exits non-zero when they differ.`,
	Args: cobra.ExactArgs(1),
	Run:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) {
	accountID := parseAccountID(args[0])

	b, closeFn := openBackend()
	defer closeFn()

	report, err := b.Audit(accountID)
	exitOnError(err, "failed to audit account")

	fmt.Println("\n=== Audit ===")
	fmt.Printf("Account:    %d\n", report.AccountID)
	fmt.Printf("Entries:    %d\n", report.Entries)
	fmt.Printf("Balance:    %s\n", report.Balance.String())
	fmt.Printf("Replayed:   %s\n", report.Replayed.String())
	fmt.Printf("Consistent: %t\n", report.Consistent)
	fmt.Println()

	if !report.Consistent {
		exitOnError(fmt.Errorf("balance %s != replayed %s", report.Balance, report.Replayed), "audit failed")
	}
}
