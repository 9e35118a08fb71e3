package converter

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
)

func TestDefaultMapper(t *testing.T) {
	m := DefaultMapper()

	if m.Currency() != "USD" {
		t.Errorf("Currency() = %q, want USD", m.Currency())
	}
	if got := m.GetAssetAccount(1001); got != "Assets:Bank:Checking:N1001" {
		t.Errorf("GetAssetAccount = %q", got)
	}
	if got := m.GetCounterAccount(ledger.OpDeposit); got != DefaultDepositAccount {
		t.Errorf("deposit counter = %q", got)
	}
	if got := m.GetCounterAccount(ledger.OpWithdraw); got != DefaultWithdrawAccount {
		t.Errorf("withdraw counter = %q", got)
	}
}

func TestParseMapper(t *testing.T) {
	data := []byte(`
currency: EUR
default_asset_prefix: Assets:Savings
accounts:
  - account_number: 1001
    beancount: Assets:Bank:Main
operations:
  - type: withdraw
    beancount: Expenses:Cash
`)

	m, err := ParseMapper(data)
	if err != nil {
		t.Fatalf("ParseMapper failed: %v", err)
	}

	if m.Currency() != "EUR" {
		t.Errorf("Currency() = %q, want EUR", m.Currency())
	}
	if got := m.GetAssetAccount(1001); got != "Assets:Bank:Main" {
		t.Errorf("mapped asset = %q", got)
	}
	if got := m.GetAssetAccount(2002); got != "Assets:Savings:N2002" {
		t.Errorf("unmapped asset = %q", got)
	}
	if got := m.GetCounterAccount(ledger.OpWithdraw); got != "Expenses:Cash" {
		t.Errorf("withdraw counter = %q", got)
	}
	if got := m.GetCounterAccount(ledger.OpDeposit); got != DefaultDepositAccount {
		t.Errorf("deposit counter = %q", got)
	}
}

func TestParseMapperRejectsUnknownOperation(t *testing.T) {
	_, err := ParseMapper([]byte("operations:\n  - type: transfer\n    beancount: Equity:Other\n"))
	if err == nil {
		t.Fatal("expected error for unknown operation type")
	}
}

func TestNewMapperMissingFile(t *testing.T) {
	if _, err := NewMapper("/nonexistent/mapping.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConvertEntry(t *testing.T) {
	c := NewConverter(NewMapperFromConfig(MappingConfig{Currency: "JPY"}))
	account := ledger.RestoreAccount(3, 9, 1001, decimal.NewFromInt(500))

	txn := c.ConvertEntry(account, ledger.Entry{
		ID:        42,
		AccountID: 3,
		Amount:    decimal.NewFromInt(500),
		Operation: ledger.OpWithdraw,
		Time:      time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC),
	})

	if txn.Date != "2024-02-29" || txn.Narration != "Withdrawal" {
		t.Errorf("header = %s %q", txn.Date, txn.Narration)
	}
	if len(txn.Tags) != 1 || txn.Tags[0] != "txn-42" {
		t.Errorf("tags = %v", txn.Tags)
	}
	if len(txn.Postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(txn.Postings))
	}

	asset, counter := txn.Postings[0], txn.Postings[1]
	if asset.Account != "Assets:Bank:Checking:N1001" || !asset.Amount.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("asset posting = %+v", asset)
	}
	if counter.Account != DefaultWithdrawAccount || !counter.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("counter posting = %+v", counter)
	}
	if !asset.Amount.Add(counter.Amount).IsZero() {
		t.Error("postings do not balance")
	}
	if asset.Currency != "JPY" || counter.Currency != "JPY" {
		t.Errorf("currency = %s/%s, want JPY", asset.Currency, counter.Currency)
	}
}

func TestFormatTransaction(t *testing.T) {
	c := NewConverter(nil)
	account := ledger.RestoreAccount(3, 9, 1001, decimal.Zero)

	out := c.FormatTransaction(c.ConvertEntry(account, ledger.Entry{
		ID:        7,
		Amount:    decimal.RequireFromString("1000.50"),
		Operation: ledger.OpDeposit,
		Time:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != `2024-01-15 * "Deposit" #txn-7` {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  Assets:Bank:Checking:N1001 ") || !strings.HasSuffix(lines[1], " 1000.5 USD") {
		t.Errorf("asset line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  Equity:Deposits ") || !strings.HasSuffix(lines[2], " -1000.5 USD") {
		t.Errorf("counter line = %q", lines[2])
	}
}
