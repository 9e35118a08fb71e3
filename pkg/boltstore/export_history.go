package boltstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/export"
	bolt "go.etcd.io/bbolt"
)

type exportRecord struct {
	EntryID       int64     `json:"transaction_id"`
	AccountID     int64     `json:"account_id"`
	BeancountFile string    `json:"beancount_file"`
	ExportedAt    time.Time `json:"exported_at"`
}

// RecordExport records that a transaction has been written to a Beancount file.
func (s *Store) RecordExport(record export.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, BucketExportHistory)
		if err != nil {
			return err
		}
		rec := exportRecord{
			EntryID:       record.EntryID,
			AccountID:     record.AccountID,
			BeancountFile: record.BeancountFile,
			ExportedAt:    s.now().UTC(),
		}
		if err := put(b, rec.EntryID, rec); err != nil {
			return fmt.Errorf("failed to record export: %w", err)
		}
		return nil
	})
}

// ExportedEntryIDs retrieves the ids of all exported transactions of an account.
func (s *Store) ExportedEntryIDs(accountID int64) ([]int64, error) {
	var ids []int64
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, BucketExportHistory)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var rec exportRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal export record: %w", err)
			}
			if rec.AccountID == accountID {
				ids = append(ids, rec.EntryID)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// TotalExported returns the number of exported transactions.
func (s *Store) TotalExported() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, BucketExportHistory)
		if err != nil {
			return err
		}
		count = b.Stats().KeyN
		return nil
	})
	return count, err
}
