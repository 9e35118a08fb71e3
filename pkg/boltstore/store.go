// Package boltstore provides a bbolt-backed ledger store.
package boltstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	BucketCustomers     = "customers"
	BucketAccounts      = "accounts"
	BucketTransactions  = "transactions"
	BucketExportHistory = "export_history"
)

// Store represents the bbolt database wrapper.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// New creates a new Store instance and initializes buckets.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := []string{BucketCustomers, BucketAccounts, BucketTransactions, BucketExportHistory}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Update runs fn inside one read-write bbolt transaction.
func (s *Store) Update(fn func(tx ledger.Tx) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx, now: s.now})
	})
}

// View runs fn inside one read-only bbolt transaction.
func (s *Store) View(fn func(tx ledger.Tx) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx, now: s.now})
	})
}

// Stats retrieves ledger statistics.
func (s *Store) Stats() (*ledger.Stats, error) {
	var stats ledger.Stats
	err := s.db.View(func(tx *bolt.Tx) error {
		stats.TotalCustomers = tx.Bucket([]byte(BucketCustomers)).Stats().KeyN
		stats.TotalAccounts = tx.Bucket([]byte(BucketAccounts)).Stats().KeyN

		b := tx.Bucket([]byte(BucketTransactions))
		stats.TotalEntries = b.Stats().KeyN

		_, v := b.Cursor().Last()
		if v == nil {
			return nil
		}
		var rec entryRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		stats.LastEntryAt = &rec.Time
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// bucket returns the named bucket of tx.
func bucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("bucket %s not found", name)
	}
	return b, nil
}

// put marshals value as JSON under key.
func put(b *bolt.Bucket, key int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put(itob(key), data)
}

// list returns the values of b accepted by filter, in key order.
func list(b *bolt.Bucket, filter func(data []byte) bool) [][]byte {
	var results [][]byte
	_ = b.ForEach(func(k, v []byte) error {
		if filter == nil || filter(v) {
			// Copy the value since it's only valid during the transaction.
			copied := make([]byte, len(v))
			copy(copied, v)
			results = append(results, copied)
		}
		return nil
	})
	return results
}

// itob converts an int64 to a byte slice for use as a bbolt key.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
