package boltstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	bolt "go.etcd.io/bbolt"
)

type accountRecord struct {
	ID         int64           `json:"account_id"`
	CustomerID int64           `json:"customer_id"`
	Number     int64           `json:"account_number"`
	Balance    decimal.Decimal `json:"balance"`
}

func (r accountRecord) account() *ledger.Account {
	return ledger.RestoreAccount(r.ID, r.CustomerID, r.Number, r.Balance)
}

func newAccountRecord(a *ledger.Account) accountRecord {
	return accountRecord{ID: a.ID, CustomerID: a.CustomerID, Number: a.Number, Balance: a.Balance()}
}

type entryRecord struct {
	ID        int64            `json:"transaction_id"`
	AccountID int64            `json:"account_id"`
	Amount    decimal.Decimal  `json:"amount"`
	Type      ledger.Operation `json:"transaction_type"`
	Time      time.Time        `json:"timestamp"`
}

// boltTx implements ledger.Tx for one bbolt transaction.
type boltTx struct {
	tx  *bolt.Tx
	now func() time.Time
}

// GetAccountByID retrieves an account by its id.
func (t *boltTx) GetAccountByID(id int64) (*ledger.Account, error) {
	b, err := bucket(t.tx, BucketAccounts)
	if err != nil {
		return nil, err
	}

	data := b.Get(itob(id))
	if data == nil {
		return nil, fmt.Errorf("%w: account %d", ledger.ErrNotFound, id)
	}

	var rec accountRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return rec.account(), nil
}

// GetAccountByCustomerID retrieves the first account owned by a customer.
func (t *boltTx) GetAccountByCustomerID(customerID int64) (*ledger.Account, error) {
	b, err := bucket(t.tx, BucketAccounts)
	if err != nil {
		return nil, err
	}

	var found *ledger.Account
	err = b.ForEach(func(k, v []byte) error {
		var rec accountRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal account: %w", err)
		}
		if rec.CustomerID == customerID {
			found = rec.account()
			return errStop
		}
		return nil
	})
	if err != nil && err != errStop {
		return nil, err
	}
	return found, nil
}

// errStop ends a ForEach early.
var errStop = errors.New("stop iteration")

// GetCustomer retrieves a customer by id.
func (t *boltTx) GetCustomer(customerID int64) (*ledger.Customer, error) {
	b, err := bucket(t.tx, BucketCustomers)
	if err != nil {
		return nil, err
	}

	data := b.Get(itob(customerID))
	if data == nil {
		return nil, fmt.Errorf("%w: customer %d", ledger.ErrNotFound, customerID)
	}

	var c ledger.Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}
	return &c, nil
}

// InsertCustomerIfAbsent stores a customer unless the id is already present.
func (t *boltTx) InsertCustomerIfAbsent(c *ledger.Customer) error {
	b, err := bucket(t.tx, BucketCustomers)
	if err != nil {
		return err
	}

	if b.Get(itob(c.ID)) != nil {
		return nil
	}
	if err := put(b, c.ID, c); err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// checkCustomer mirrors the SQLite foreign key from accounts to customers.
func (t *boltTx) checkCustomer(customerID int64) error {
	b, err := bucket(t.tx, BucketCustomers)
	if err != nil {
		return err
	}
	if b.Get(itob(customerID)) == nil {
		return fmt.Errorf("foreign key violation: customer %d does not exist", customerID)
	}
	return nil
}

// ReplaceAccount writes an account under its id.
func (t *boltTx) ReplaceAccount(a *ledger.Account) error {
	if err := t.checkCustomer(a.CustomerID); err != nil {
		return err
	}

	b, err := bucket(t.tx, BucketAccounts)
	if err != nil {
		return err
	}

	// Keep the sequence ahead of explicitly written ids.
	if uint64(a.ID) > b.Sequence() {
		if err := b.SetSequence(uint64(a.ID)); err != nil {
			return fmt.Errorf("failed to advance sequence: %w", err)
		}
	}

	if err := put(b, a.ID, newAccountRecord(a)); err != nil {
		return fmt.Errorf("failed to replace account: %w", err)
	}
	return nil
}

// InsertAccount stores a new account and returns the generated id.
func (t *boltTx) InsertAccount(a *ledger.Account) (int64, error) {
	if err := t.checkCustomer(a.CustomerID); err != nil {
		return 0, err
	}

	b, err := bucket(t.tx, BucketAccounts)
	if err != nil {
		return 0, err
	}

	seq, err := b.NextSequence()
	if err != nil {
		return 0, fmt.Errorf("failed to generate ID: %w", err)
	}
	id := int64(seq)

	rec := newAccountRecord(a)
	rec.ID = id
	if err := put(b, id, rec); err != nil {
		return 0, fmt.Errorf("failed to insert account: %w", err)
	}
	return id, nil
}

// AppendEntry appends a transaction entry.
func (t *boltTx) AppendEntry(accountID int64, amount decimal.Decimal, op ledger.Operation) (*ledger.Entry, error) {
	accounts, err := bucket(t.tx, BucketAccounts)
	if err != nil {
		return nil, err
	}
	if accounts.Get(itob(accountID)) == nil {
		return nil, fmt.Errorf("foreign key violation: account %d does not exist", accountID)
	}

	b, err := bucket(t.tx, BucketTransactions)
	if err != nil {
		return nil, err
	}

	seq, err := b.NextSequence()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	rec := entryRecord{
		ID:        int64(seq),
		AccountID: accountID,
		Amount:    amount,
		Type:      op,
		Time:      t.now().UTC(),
	}
	if err := put(b, rec.ID, rec); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	return &ledger.Entry{
		ID:        rec.ID,
		AccountID: rec.AccountID,
		Amount:    rec.Amount,
		Operation: rec.Type,
		Time:      rec.Time,
	}, nil
}

// ListEntries retrieves all entries of an account in insertion order.
func (t *boltTx) ListEntries(accountID int64) ([]ledger.Entry, error) {
	b, err := bucket(t.tx, BucketTransactions)
	if err != nil {
		return nil, err
	}

	var decodeErr error
	results := list(b, func(data []byte) bool {
		var rec entryRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			decodeErr = err
			return false
		}
		return rec.AccountID == accountID
	})
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", decodeErr)
	}

	entries := make([]ledger.Entry, 0, len(results))
	for _, data := range results {
		var rec entryRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		entries = append(entries, ledger.Entry{
			ID:        rec.ID,
			AccountID: rec.AccountID,
			Amount:    rec.Amount,
			Operation: rec.Type,
			Time:      rec.Time,
		})
	}
	return entries, nil
}
