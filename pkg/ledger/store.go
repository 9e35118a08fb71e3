package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tx is the set of record operations available inside one store unit.
type Tx interface {
	// GetAccountByID returns ErrNotFound if no account has the id.
	GetAccountByID(id int64) (*Account, error)

	// GetAccountByCustomerID returns nil, nil if the customer has no account.
	GetAccountByCustomerID(customerID int64) (*Account, error)

	// GetCustomer returns ErrNotFound if the customer does not exist.
	GetCustomer(customerID int64) (*Customer, error)

	// InsertCustomerIfAbsent writes the customer unless the id is already taken.
	InsertCustomerIfAbsent(c *Customer) error

	// ReplaceAccount writes the account under its existing id.
	ReplaceAccount(a *Account) error

	// InsertAccount writes a new account and returns the generated id.
	InsertAccount(a *Account) (int64, error)

	// AppendEntry appends to the log. The store assigns id and timestamp.
	AppendEntry(accountID int64, amount decimal.Decimal, op Operation) (*Entry, error)

	// ListEntries returns the account's entries in insertion order.
	ListEntries(accountID int64) ([]Entry, error)
}

// Store is a durable ledger backend. Update runs fn in a read-write unit that is
// committed when fn returns nil and rolled back otherwise. View runs a read-only unit.
type Store interface {
	Update(fn func(tx Tx) error) error
	View(fn func(tx Tx) error) error
	Stats() (*Stats, error)
	Close() error
}

// Stats summarizes the contents of a store.
type Stats struct {
	TotalCustomers int
	TotalAccounts  int
	TotalEntries   int
	LastEntryAt    *time.Time
}
