package boltstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/export"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "ledger.bolt"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCustomer(t *testing.T, s *Store, id int64) {
	t.Helper()

	err := s.Update(func(tx ledger.Tx) error {
		return tx.InsertCustomerIfAbsent(&ledger.Customer{ID: id, Name: "n", Email: "e", PhoneNumber: "p"})
	})
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
}

func TestForeignKeys(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx ledger.Tx) error {
		_, err := tx.InsertAccount(ledger.NewAccount(99, 1))
		return err
	})
	if err == nil {
		t.Error("expected InsertAccount without customer to fail")
	}

	err = s.Update(func(tx ledger.Tx) error {
		_, err := tx.AppendEntry(42, decimal.NewFromInt(1), ledger.OpDeposit)
		return err
	})
	if err == nil {
		t.Error("expected AppendEntry without account to fail")
	}
}

func TestReplaceAccountAdvancesSequence(t *testing.T) {
	s := newTestStore(t)
	seedCustomer(t, s, 1)
	seedCustomer(t, s, 2)

	err := s.Update(func(tx ledger.Tx) error {
		return tx.ReplaceAccount(ledger.RestoreAccount(5, 1, 1001, decimal.Zero))
	})
	if err != nil {
		t.Fatalf("ReplaceAccount failed: %v", err)
	}

	var id int64
	err = s.Update(func(tx ledger.Tx) error {
		var err error
		id, err = tx.InsertAccount(ledger.NewAccount(2, 1002))
		return err
	})
	if err != nil {
		t.Fatalf("InsertAccount failed: %v", err)
	}
	if id != 6 {
		t.Errorf("InsertAccount id = %d, want 6", id)
	}
}

func TestRollbackOnError(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(func(tx ledger.Tx) error {
		if err := tx.InsertCustomerIfAbsent(&ledger.Customer{ID: 1}); err != nil {
			return err
		}
		return ledger.ErrInsufficientFunds
	})
	if err != ledger.ErrInsufficientFunds {
		t.Fatalf("Update error = %v", err)
	}

	err = s.View(func(tx ledger.Tx) error {
		_, err := tx.GetCustomer(1)
		return err
	})
	if err == nil {
		t.Error("customer survived a rolled back unit")
	}
}

func TestViewIsReadOnly(t *testing.T) {
	s := newTestStore(t)

	err := s.View(func(tx ledger.Tx) error {
		return tx.InsertCustomerIfAbsent(&ledger.Customer{ID: 1})
	})
	if err == nil {
		t.Error("expected write inside View to fail")
	}
}

func TestEntriesAndStats(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	seedCustomer(t, s, 1)
	seedCustomer(t, s, 2)

	var first, second int64
	err := s.Update(func(tx ledger.Tx) error {
		var err error
		if first, err = tx.InsertAccount(ledger.NewAccount(1, 1001)); err != nil {
			return err
		}
		if second, err = tx.InsertAccount(ledger.NewAccount(2, 1002)); err != nil {
			return err
		}
		for _, id := range []int64{first, second, first} {
			if _, err := tx.AppendEntry(id, decimal.RequireFromString("1.5"), ledger.OpDeposit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var entries []ledger.Entry
	err = s.View(func(tx ledger.Tx) error {
		var err error
		entries, err = tx.ListEntries(first)
		return err
	})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != 1 || entries[1].ID != 3 {
		t.Errorf("entry ids = %d, %d, want 1, 3", entries[0].ID, entries[1].ID)
	}
	if !entries[0].Time.Equal(fixed) || !entries[0].Amount.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("entry = %+v", entries[0])
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalCustomers != 2 || stats.TotalAccounts != 2 || stats.TotalEntries != 3 {
		t.Errorf("stats = %+v, want 2/2/3", stats)
	}
	if stats.LastEntryAt == nil || !stats.LastEntryAt.Equal(fixed) {
		t.Errorf("LastEntryAt = %v, want %v", stats.LastEntryAt, fixed)
	}
}

func TestExportHistory(t *testing.T) {
	s := newTestStore(t)

	records := []export.Record{
		{EntryID: 1, AccountID: 7, BeancountFile: "a.beancount"},
		{EntryID: 2, AccountID: 8, BeancountFile: "b.beancount"},
		{EntryID: 3, AccountID: 7, BeancountFile: "a.beancount"},
		{EntryID: 1, AccountID: 7, BeancountFile: "c.beancount"},
	}
	for _, r := range records {
		if err := s.RecordExport(r); err != nil {
			t.Fatalf("RecordExport failed: %v", err)
		}
	}

	ids, err := s.ExportedEntryIDs(7)
	if err != nil {
		t.Fatalf("ExportedEntryIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("ExportedEntryIDs(7) = %v, want [1 3]", ids)
	}

	total, err := s.TotalExported()
	if err != nil {
		t.Fatalf("TotalExported failed: %v", err)
	}
	if total != 3 {
		t.Errorf("TotalExported = %d, want 3", total)
	}
}
