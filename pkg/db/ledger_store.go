package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
)

// LedgerStore implements ledger.Store on top of a SQLite connection.
type LedgerStore struct {
	conn *Connection
	now  func() time.Time
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(conn *Connection) *LedgerStore {
	return &LedgerStore{conn: conn, now: time.Now}
}

// Update runs fn inside one SQLite transaction.
func (s *LedgerStore) Update(fn func(tx ledger.Tx) error) error {
	return s.conn.Transaction(func(tx *sql.Tx) error {
		return fn(&sqlTx{tx: tx, now: s.now})
	})
}

// View runs fn inside one SQLite transaction. fn must not write.
func (s *LedgerStore) View(fn func(tx ledger.Tx) error) error {
	return s.Update(fn)
}

// Close closes the underlying connection.
func (s *LedgerStore) Close() error {
	return s.conn.Close()
}

// Stats retrieves ledger statistics.
func (s *LedgerStore) Stats() (*ledger.Stats, error) {
	var stats ledger.Stats

	err := s.conn.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&stats.TotalCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&stats.TotalAccounts)
	if err != nil {
		return nil, fmt.Errorf("failed to get account count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&stats.TotalEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction count: %w", err)
	}

	var last time.Time
	err = s.conn.QueryRow(`SELECT timestamp FROM transactions ORDER BY transaction_id DESC LIMIT 1`).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to get last transaction time: %w", err)
	default:
		stats.LastEntryAt = &last
	}

	return &stats, nil
}

// sqlTx implements ledger.Tx for one *sql.Tx.
type sqlTx struct {
	tx  *sql.Tx
	now func() time.Time
}

const accountColumns = `account_id, customer_id, account_number, balance`

func scanAccount(row *sql.Row) (*ledger.Account, error) {
	var (
		id, customerID, number int64
		balance                decimal.Decimal
	)
	if err := row.Scan(&id, &customerID, &number, &balance); err != nil {
		return nil, err
	}
	return ledger.RestoreAccount(id, customerID, number, balance), nil
}

// GetAccountByID retrieves an account by its id.
func (t *sqlTx) GetAccountByID(id int64) (*ledger.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?`

	account, err := scanAccount(t.tx.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %d", ledger.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetAccountByCustomerID retrieves the first account owned by a customer.
func (t *sqlTx) GetAccountByCustomerID(customerID int64) (*ledger.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE customer_id = ?
		ORDER BY account_id
		LIMIT 1`

	account, err := scanAccount(t.tx.QueryRow(query, customerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by customer: %w", err)
	}
	return account, nil
}

// GetCustomer retrieves a customer by id.
func (t *sqlTx) GetCustomer(customerID int64) (*ledger.Customer, error) {
	query := `SELECT customer_id, name, email, phone_number FROM customers WHERE customer_id = ?`

	var c ledger.Customer
	err := t.tx.QueryRow(query, customerID).Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer %d", ledger.ErrNotFound, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// InsertCustomerIfAbsent inserts a customer, leaving an existing row untouched.
func (t *sqlTx) InsertCustomerIfAbsent(c *ledger.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, email, phone_number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(customer_id) DO NOTHING
	`

	if _, err := t.tx.Exec(query, c.ID, c.Name, c.Email, c.PhoneNumber); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// ReplaceAccount writes an account under its id.
func (t *sqlTx) ReplaceAccount(a *ledger.Account) error {
	query := `
		INSERT INTO accounts (account_id, customer_id, account_number, balance)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			customer_id = excluded.customer_id,
			account_number = excluded.account_number,
			balance = excluded.balance
	`

	_, err := t.tx.Exec(query, a.ID, a.CustomerID, a.Number, a.Balance().String())
	if err != nil {
		return fmt.Errorf("failed to replace account: %w", err)
	}
	return nil
}

// InsertAccount inserts an account and returns the generated id.
func (t *sqlTx) InsertAccount(a *ledger.Account) (int64, error) {
	query := `INSERT INTO accounts (customer_id, account_number, balance) VALUES (?, ?, ?)`

	result, err := t.tx.Exec(query, a.CustomerID, a.Number, a.Balance().String())
	if err != nil {
		return 0, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get account id: %w", err)
	}
	return id, nil
}

// AppendEntry appends a transaction entry.
func (t *sqlTx) AppendEntry(accountID int64, amount decimal.Decimal, op ledger.Operation) (*ledger.Entry, error) {
	query := `
		INSERT INTO transactions (account_id, amount, transaction_type, timestamp)
		VALUES (?, ?, ?, ?)
	`

	ts := t.now().UTC()
	result, err := t.tx.Exec(query, accountID, amount.String(), string(op), ts)
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction id: %w", err)
	}

	return &ledger.Entry{
		ID:        id,
		AccountID: accountID,
		Amount:    amount,
		Operation: op,
		Time:      ts,
	}, nil
}

// ListEntries retrieves all entries of an account in insertion order.
func (t *sqlTx) ListEntries(accountID int64) ([]ledger.Entry, error) {
	query := `
		SELECT transaction_id, account_id, amount, transaction_type, timestamp
		FROM transactions
		WHERE account_id = ?
		ORDER BY transaction_id ASC
	`

	rows, err := t.tx.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var (
			entry ledger.Entry
			opStr string
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Amount,
			&opStr,
			&entry.Time,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		entry.Operation = ledger.Operation(opStr)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return entries, nil
}
