package ledger

import (
	"github.com/shopspring/decimal"
)

// StatementReader reads the transaction log of one account.
type StatementReader struct {
	store Store
}

// NewStatementReader creates a new StatementReader.
func NewStatementReader(store Store) *StatementReader {
	return &StatementReader{store: store}
}

// Read returns the account's entries, oldest first. It never writes.
func (r *StatementReader) Read(accountID int64) ([]Entry, error) {
	var entries []Entry
	err := r.store.View(func(tx Tx) error {
		var err error
		entries, err = tx.ListEntries(accountID)
		return err
	})
	if err != nil {
		return nil, persistence("list entries", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// AuditReport compares an account's stored balance with the replayed log.
type AuditReport struct {
	AccountID  int64           `json:"account_id"`
	Balance    decimal.Decimal `json:"balance"`
	Replayed   decimal.Decimal `json:"replayed"`
	Entries    int             `json:"entries"`
	Consistent bool            `json:"consistent"`
}

// Replay sums the signed amounts of entries starting from zero.
func Replay(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Signed())
	}
	return sum
}

// Audit checks the balance against the log inside one read unit.
func (r *StatementReader) Audit(accountID int64) (*AuditReport, error) {
	var report *AuditReport
	err := r.store.View(func(tx Tx) error {
		account, err := tx.GetAccountByID(accountID)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntries(accountID)
		if err != nil {
			return err
		}
		replayed := Replay(entries)
		report = &AuditReport{
			AccountID:  accountID,
			Balance:    account.Balance(),
			Replayed:   replayed,
			Entries:    len(entries),
			Consistent: replayed.Equal(account.Balance()),
		}
		return nil
	})
	if err != nil {
		return nil, persistence("audit account", err)
	}
	return report, nil
}
