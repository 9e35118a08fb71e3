// Package ledger keeps account balances, identities and the transaction log consistent.
package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the kind of a balance change.
type Operation string

const (
	OpDeposit  Operation = "deposit"
	OpWithdraw Operation = "withdraw"
)

// ParseOperation converts a raw kind into an Operation.
func ParseOperation(kind string) (Operation, error) {
	switch Operation(kind) {
	case OpDeposit, OpWithdraw:
		return Operation(kind), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperation, kind)
}

// Customer owns exactly one account.
type Customer struct {
	ID          int64  `json:"customer_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// Account is one customer's account. ID is zero until the account is first persisted.
// The balance is only changed through Deposit and Withdraw.
type Account struct {
	ID         int64
	CustomerID int64
	Number     int64
	balance    decimal.Decimal
}

// NewAccount returns an unsaved account with a zero balance.
func NewAccount(customerID, number int64) *Account {
	return &Account{CustomerID: customerID, Number: number, balance: decimal.Zero}
}

// RestoreAccount rebuilds an account from stored state.
func RestoreAccount(id, customerID, number int64, balance decimal.Decimal) *Account {
	return &Account{ID: id, CustomerID: customerID, Number: number, balance: balance}
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Deposit adds amount to the balance and returns the new balance.
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, fmt.Errorf("%w: deposit %s", ErrInvalidAmount, amount)
	}
	a.balance = a.balance.Add(amount)
	return a.balance, nil
}

// Withdraw subtracts amount from the balance and returns the new balance.
// The balance is left unchanged when it does not cover amount.
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, fmt.Errorf("%w: withdraw %s", ErrInvalidAmount, amount)
	}
	if a.balance.LessThan(amount) {
		return a.balance, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, a.balance, amount)
	}
	a.balance = a.balance.Sub(amount)
	return a.balance, nil
}

// apply dispatches op onto the matching mutator.
func (a *Account) apply(op Operation, amount decimal.Decimal) error {
	var err error
	switch op {
	case OpDeposit:
		_, err = a.Deposit(amount)
	case OpWithdraw:
		_, err = a.Withdraw(amount)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	return err
}

type accountJSON struct {
	ID         int64       `json:"account_id"`
	CustomerID int64       `json:"customer_id"`
	Number     int64       `json:"account_number"`
	Balance    json.Number `json:"balance"`
}

// MarshalJSON renders the balance as a bare JSON number.
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountJSON{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Number:     a.Number,
		Balance:    json.Number(a.balance.String()),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Account) UnmarshalJSON(data []byte) error {
	var v accountJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	balance := decimal.Zero
	if v.Balance != "" {
		b, err := decimal.NewFromString(string(v.Balance))
		if err != nil {
			return fmt.Errorf("invalid balance %q: %w", v.Balance, err)
		}
		balance = b
	}
	*a = *RestoreAccount(v.ID, v.CustomerID, v.Number, balance)
	return nil
}

// Entry is one immutable line of the transaction log.
// Amount is always positive; Operation gives its sign.
type Entry struct {
	ID        int64
	AccountID int64
	Amount    decimal.Decimal
	Operation Operation
	Time      time.Time
}

// Signed returns the entry's effect on the balance.
func (e Entry) Signed() decimal.Decimal {
	if e.Operation == OpWithdraw {
		return e.Amount.Neg()
	}
	return e.Amount
}
