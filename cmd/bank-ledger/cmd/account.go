package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	customerID    int64
	customerName  string
	customerEmail string
	customerPhone string
)

// accountCmd groups account commands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Open and inspect accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open an account for a customer",
	Long: `Open an account for a customer.

Each customer owns at most one account. Running create again for the same
customer returns the existing account with its balance untouched.

Example:
  bank-ledger account create --customer-id 9 --name "Customer_01" \
    --email customer@example.com --phone 123-456-7890`,
	Args: cobra.NoArgs,
	Run:  runAccountCreate,
}

var accountShowCmd = &cobra.Command{
	Use:   "show <account-id>",
	Short: "Show an account",
	Args:  cobra.ExactArgs(1),
	Run:   runAccountShow,
}

func init() {
	accountCreateCmd.Flags().Int64Var(&customerID, "customer-id", 0, "Customer ID (required)")
	accountCreateCmd.Flags().StringVar(&customerName, "name", "", "Customer name")
	accountCreateCmd.Flags().StringVar(&customerEmail, "email", "", "Customer email")
	accountCreateCmd.Flags().StringVar(&customerPhone, "phone", "", "Customer phone number")

	accountCreateCmd.MarkFlagRequired("customer-id")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountShowCmd)
}

func runAccountCreate(cmd *cobra.Command, args []string) {
	b, closeFn := openBackend()
	defer closeFn()

	account, err := b.CreateAccount(customerID, customerName, customerEmail, customerPhone)
	exitOnError(err, "failed to create account")

	slog.Info("Account ready", "account_id", account.ID, "customer_id", account.CustomerID)
	printJSON(account)
}

func runAccountShow(cmd *cobra.Command, args []string) {
	accountID := parseAccountID(args[0])

	b, closeFn := openBackend()
	defer closeFn()

	account, err := b.GetAccount(accountID)
	exitOnError(err, "failed to load account")

	printJSON(account)
}
