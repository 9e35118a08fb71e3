package ledger

import (
	"github.com/shopspring/decimal"
)

// Processor applies deposits and withdrawals. The balance write and the log append
// of one call commit together or not at all.
type Processor struct {
	store     Store
	directory *Directory
}

// NewProcessor creates a new Processor.
func NewProcessor(store Store, directory *Directory) *Processor {
	return &Processor{store: store, directory: directory}
}

// Apply loads the account, applies amount under kind, persists the new balance and
// appends a log entry. It returns the persisted snapshot.
func (p *Processor) Apply(accountID int64, amount decimal.Decimal, kind string) (*Account, error) {
	var result *Account
	err := p.store.Update(func(tx Tx) error {
		account, err := tx.GetAccountByID(accountID)
		if err != nil {
			return persistence("load account", err)
		}

		op, err := ParseOperation(kind)
		if err != nil {
			return err
		}
		if err := account.apply(op, amount); err != nil {
			return err
		}

		saved, err := p.directory.Merge(tx, account, nil)
		if err != nil {
			return err
		}
		if _, err := tx.AppendEntry(saved.ID, amount, op); err != nil {
			return persistence("append entry", err)
		}

		result = saved
		return nil
	})
	if err != nil {
		return nil, persistence("apply transaction", err)
	}
	return result, nil
}

// Load returns the stored account with the given id.
func (p *Processor) Load(accountID int64) (*Account, error) {
	var account *Account
	err := p.store.View(func(tx Tx) error {
		var err error
		account, err = tx.GetAccountByID(accountID)
		return err
	})
	if err != nil {
		return nil, persistence("load account", err)
	}
	return account, nil
}
