package db

import (
	"fmt"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/export"
)

// ExportHistory manages export history operations.
type ExportHistory struct {
	conn *Connection
}

// NewExportHistory creates a new ExportHistory instance.
func NewExportHistory(conn *Connection) *ExportHistory {
	return &ExportHistory{conn: conn}
}

// RecordExport records that a transaction has been written to a Beancount file.
// Recording the same transaction again updates the file path.
func (h *ExportHistory) RecordExport(record export.Record) error {
	query := `
		INSERT INTO export_history (transaction_id, account_id, beancount_file)
		VALUES (?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			beancount_file = excluded.beancount_file,
			exported_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query, record.EntryID, record.AccountID, record.BeancountFile)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}

	return nil
}

// ExportedEntryIDs retrieves the ids of all exported transactions of an account.
func (h *ExportHistory) ExportedEntryIDs(accountID int64) ([]int64, error) {
	query := `SELECT transaction_id FROM export_history WHERE account_id = ?`

	rows, err := h.conn.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exported IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan transaction ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// TotalExported returns the number of exported transactions.
func (h *ExportHistory) TotalExported() (int, error) {
	var count int
	if err := h.conn.QueryRow(`SELECT COUNT(*) FROM export_history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get export count: %w", err)
	}
	return count, nil
}
