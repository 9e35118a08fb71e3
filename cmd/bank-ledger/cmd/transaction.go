package cmd

import (
	"fmt"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/spf13/cobra"
)

// depositCmd represents the deposit command.
var depositCmd = &cobra.Command{
	Use:   "deposit <account-id> <amount>",
	Short: "Deposit money into an account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTransaction(args[0], args[1], string(ledger.OpDeposit))
	},
}

// withdrawCmd represents the withdraw command.
var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account-id> <amount>",
	Short: "Withdraw money from an account",
	Long: `Withdraw money from an account.

The withdrawal is rejected when it exceeds the balance; nothing is recorded.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTransaction(args[0], args[1], string(ledger.OpWithdraw))
	},
}

// applyCmd applies a transaction of any kind.
var applyCmd = &cobra.Command{
	Use:   "apply <account-id> <amount> <type>",
	Short: "Apply a transaction of the given type (deposit or withdraw)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		runTransaction(args[0], args[1], args[2])
	},
}

func runTransaction(idArg, amountArg, kind string) {
	accountID := parseAccountID(idArg)
	amount := parseAmount(amountArg)

	b, closeFn := openBackend()
	defer closeFn()

	account, err := b.ApplyTransaction(accountID, amount, kind)
	exitOnError(err, fmt.Sprintf("%s failed", kind))

	fmt.Printf("Balance: %s\n", account.Balance().String())
}
