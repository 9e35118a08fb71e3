package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
	"github.com/spf13/cobra"
)

// demoCmd runs a fixed scenario against the ledger.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a sample account workflow",
	Long: `Open an account for customer 9, deposit 1000 and -2700, withdraw 500
and -200, then print the balance and the statement. Rejected transactions are
logged and the workflow continues.`,
	Args: cobra.NoArgs,
	Run:  runDemo,
}

type demoStep struct {
	amount int64
	kind   ledger.Operation
}

var demoSteps = []demoStep{
	{1000, ledger.OpDeposit},
	{-2700, ledger.OpDeposit},
	{500, ledger.OpWithdraw},
	{-200, ledger.OpWithdraw},
}

func runDemo(cmd *cobra.Command, args []string) {
	b, closeFn := openBackend()
	defer closeFn()

	account, err := b.CreateAccount(9, "Customer_01", "customer@example.com", "123-456-7890")
	exitOnError(err, "account creation failed")

	for _, step := range demoSteps {
		updated, err := b.ApplyTransaction(account.ID, decimal.NewFromInt(step.amount), string(step.kind))
		if err != nil {
			slog.Warn("Transaction failed", "account_id", account.ID, "amount", step.amount, "type", step.kind, "error", err)
			continue
		}
		account = updated
	}

	fmt.Printf("Updated account balance %s\n", account.Balance().String())

	lines, err := b.Statement(account.ID)
	exitOnError(err, "failed to read statement")
	exitOnError(statement.Encode(os.Stdout, lines, statement.FormatJSON), "failed to write statement")
}
