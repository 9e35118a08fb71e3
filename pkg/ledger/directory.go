package ledger

// Directory resolves customers to their single account and merges account writes
// into the existing record.
type Directory struct {
	store Store
}

// NewDirectory creates a new Directory.
func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// Save merges candidate into the customer's existing account (if any) and persists it
// in its own unit. A non-nil customer marks an account creation call: the customer is
// inserted if absent and an existing stored balance wins over the candidate's.
func (d *Directory) Save(candidate *Account, customer *Customer) (*Account, error) {
	var saved *Account
	err := d.store.Update(func(tx Tx) error {
		var err error
		saved, err = d.Merge(tx, candidate, customer)
		return err
	})
	if err != nil {
		return nil, persistence("save account", err)
	}
	return saved, nil
}

// Merge runs the resolve-and-persist protocol inside the caller's unit.
func (d *Directory) Merge(tx Tx, candidate *Account, customer *Customer) (*Account, error) {
	existing, err := tx.GetAccountByCustomerID(candidate.CustomerID)
	if err != nil {
		return nil, persistence("find account by customer", err)
	}
	if existing != nil {
		candidate.ID = existing.ID
		candidate.Number = existing.Number
		if customer != nil {
			candidate.balance = existing.balance
		}
	}

	if customer != nil {
		if err := tx.InsertCustomerIfAbsent(customer); err != nil {
			return nil, persistence("insert customer", err)
		}
	}

	if candidate.ID != 0 {
		if err := tx.ReplaceAccount(candidate); err != nil {
			return nil, persistence("replace account", err)
		}
		return candidate, nil
	}

	id, err := tx.InsertAccount(candidate)
	if err != nil {
		return nil, persistence("insert account", err)
	}
	candidate.ID = id
	return candidate, nil
}

// FindByCustomer returns the customer's account, or nil if there is none.
func (d *Directory) FindByCustomer(customerID int64) (*Account, error) {
	var account *Account
	err := d.store.View(func(tx Tx) error {
		var err error
		account, err = tx.GetAccountByCustomerID(customerID)
		return err
	})
	if err != nil {
		return nil, persistence("find account by customer", err)
	}
	return account, nil
}
