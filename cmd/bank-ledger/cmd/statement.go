package cmd

import (
	"os"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
	"github.com/spf13/cobra"
)

var statementFormat string

// statementCmd represents the statement command.
var statementCmd = &cobra.Command{
	Use:   "statement <account-id>",
	Short: "Print an account statement",
	Long: `Print the transaction log of an account, oldest first.

Example:
  bank-ledger statement 1
  bank-ledger statement 1 --format yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runStatement,
}

func init() {
	statementCmd.Flags().StringVar(&statementFormat, "format", "json", "Output format (json|yaml)")
}

func runStatement(cmd *cobra.Command, args []string) {
	accountID := parseAccountID(args[0])
	format, err := statement.ParseFormat(statementFormat)
	exitOnError(err, "invalid format")

	b, closeFn := openBackend()
	defer closeFn()

	lines, err := b.Statement(accountID)
	exitOnError(err, "failed to read statement")

	exitOnError(statement.Encode(os.Stdout, lines, format), "failed to write statement")
}
