// Package banking exposes the ledger use cases: opening accounts, applying
// transactions and reading statements.
package banking

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
)

// Service composes the directory, processor and statement reader over one store.
type Service struct {
	directory *ledger.Directory
	processor *ledger.Processor
	reader    *ledger.StatementReader
	logger    *slog.Logger

	// NumberFunc returns the account number for a new account.
	NumberFunc func() int64
}

// NewService creates a new Service. A nil logger uses slog.Default.
func NewService(store ledger.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	directory := ledger.NewDirectory(store)
	return &Service{
		directory:  directory,
		processor:  ledger.NewProcessor(store, directory),
		reader:     ledger.NewStatementReader(store),
		logger:     logger,
		NumberFunc: timestampNumber,
	}
}

// timestampNumber derives an account number from the current time.
func timestampNumber() int64 {
	return time.Now().UnixMicro()
}

func (s *Service) op(name string) *slog.Logger {
	return s.logger.With("op", name, "op_id", uuid.NewString())
}

// CreateAccount opens an account for the customer. Calling it again for the same
// customer returns the existing account unchanged.
func (s *Service) CreateAccount(customerID int64, name, email, phone string) (*ledger.Account, error) {
	log := s.op("create_account")
	log.Debug("Creating account", "customer_id", customerID)

	customer := &ledger.Customer{
		ID:          customerID,
		Name:        name,
		Email:       email,
		PhoneNumber: phone,
	}
	account, err := s.directory.Save(ledger.NewAccount(customerID, s.NumberFunc()), customer)
	if err != nil {
		log.Error("Account creation failed", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("account creation failed: %w", err)
	}

	log.Info("Account ready",
		"customer_id", customerID,
		"account_id", account.ID,
		"account_number", account.Number,
	)
	return account, nil
}

// ApplyTransaction applies amount to the account under the named operation kind.
func (s *Service) ApplyTransaction(accountID int64, amount decimal.Decimal, kind string) (*ledger.Account, error) {
	log := s.op("apply_transaction")

	account, err := s.processor.Apply(accountID, amount, kind)
	if err != nil {
		log.Warn("Transaction rejected",
			"account_id", accountID,
			"amount", amount.String(),
			"type", kind,
			"error", err,
		)
		return nil, err
	}

	log.Info("Transaction applied",
		"account_id", accountID,
		"amount", amount.String(),
		"type", kind,
		"balance", account.Balance().String(),
	)
	return account, nil
}

// Deposit applies a deposit.
func (s *Service) Deposit(accountID int64, amount decimal.Decimal) (*ledger.Account, error) {
	return s.ApplyTransaction(accountID, amount, string(ledger.OpDeposit))
}

// Withdraw applies a withdrawal.
func (s *Service) Withdraw(accountID int64, amount decimal.Decimal) (*ledger.Account, error) {
	return s.ApplyTransaction(accountID, amount, string(ledger.OpWithdraw))
}

// GetAccount loads an account by id.
func (s *Service) GetAccount(accountID int64) (*ledger.Account, error) {
	return s.processor.Load(accountID)
}

// FindByCustomer returns the customer's account or ledger.ErrNotFound.
func (s *Service) FindByCustomer(customerID int64) (*ledger.Account, error) {
	account, err := s.directory.FindByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("customer %d has no account: %w", customerID, ledger.ErrNotFound)
	}
	return account, nil
}

// Statement returns the account's entries as statement lines, oldest first.
// An account without entries, or an unknown account, yields an empty list.
func (s *Service) Statement(accountID int64) ([]statement.Line, error) {
	entries, err := s.reader.Read(accountID)
	if err != nil {
		s.op("statement").Error("Statement failed", "account_id", accountID, "error", err)
		return nil, err
	}
	return statement.FromEntries(entries), nil
}

// Audit replays the account's log and compares it with the stored balance.
func (s *Service) Audit(accountID int64) (*ledger.AuditReport, error) {
	log := s.op("audit")

	report, err := s.reader.Audit(accountID)
	if err != nil {
		return nil, err
	}
	if !report.Consistent {
		log.Error("Balance does not match transaction log",
			"account_id", accountID,
			"balance", report.Balance.String(),
			"replayed", report.Replayed.String(),
		)
	}
	return report, nil
}
