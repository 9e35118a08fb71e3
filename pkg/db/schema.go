// Package db provides the SQLite ledger store and export history.
package db

// Schema defines the SQL statements to create database tables.
// Amounts and balances are stored as decimal strings.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
    customer_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone_number TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    account_id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL,
    account_number INTEGER NOT NULL,
    balance TEXT NOT NULL DEFAULT '0',
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
);

-- Not UNIQUE: one account per customer is enforced by the directory.
CREATE INDEX IF NOT EXISTS idx_accounts_customer
    ON accounts(customer_id);

CREATE TABLE IF NOT EXISTS transactions (
    transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    transaction_type TEXT NOT NULL CHECK (transaction_type IN ('deposit', 'withdraw')),
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (account_id) REFERENCES accounts(account_id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_account
    ON transactions(account_id, transaction_id);

-- Tracks which transactions have been exported to Beancount files
CREATE TABLE IF NOT EXISTS export_history (
    transaction_id INTEGER PRIMARY KEY,
    account_id INTEGER NOT NULL,
    beancount_file TEXT NOT NULL,
    exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (transaction_id) REFERENCES transactions(transaction_id)
);

CREATE INDEX IF NOT EXISTS idx_export_history_account
    ON export_history(account_id);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
