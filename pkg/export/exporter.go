// Package export writes account transaction logs to monthly Beancount files.
package export

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/beancount"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/converter"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/pathutil"
)

// Record marks one transaction as exported.
type Record struct {
	EntryID       int64
	AccountID     int64
	BeancountFile string
}

// History remembers which transactions have already been exported.
type History interface {
	RecordExport(record Record) error
	ExportedEntryIDs(accountID int64) ([]int64, error)
	TotalExported() (int, error)
}

// Result summarizes one export run.
type Result struct {
	AccountID    int64
	Exported     int
	Skipped      int
	FilesWritten []string
	// Preview holds the formatted transactions of a dry run.
	Preview []string
}

// Exporter appends not-yet-exported entries of an account to Beancount files.
type Exporter struct {
	store        ledger.Store
	history      History
	converter    *converter.Converter
	repo         beancount.Repository
	pathResolver *pathutil.PathResolver
	logger       *slog.Logger
}

// NewExporter creates a new Exporter.
func NewExporter(store ledger.Store, history History, cvtr *converter.Converter, repo beancount.Repository, pathResolver *pathutil.PathResolver, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		store:        store,
		history:      history,
		converter:    cvtr,
		repo:         repo,
		pathResolver: pathResolver,
		logger:       logger,
	}
}

// Export converts the account's new entries and appends them grouped by month.
// With dryRun set nothing is written and the formatted transactions are returned.
func (e *Exporter) Export(accountID int64, dryRun bool) (*Result, error) {
	var (
		account *ledger.Account
		entries []ledger.Entry
	)
	err := e.store.View(func(tx ledger.Tx) error {
		var err error
		if account, err = tx.GetAccountByID(accountID); err != nil {
			return err
		}
		entries, err = tx.ListEntries(accountID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read account %d: %w", accountID, err)
	}

	exportedIDs, err := e.history.ExportedEntryIDs(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exported IDs: %w", err)
	}

	newEntries := filterEntries(entries, exportedIDs)
	result := &Result{
		AccountID: accountID,
		Skipped:   len(entries) - len(newEntries),
	}

	e.logger.Info("New entries to export",
		"account_id", accountID,
		"new_entries", len(newEntries),
		"skipped_entries", result.Skipped,
	)

	byMonth := groupEntriesByMonth(newEntries)
	for _, monthKey := range sortedMonths(byMonth) {
		filePath, err := e.pathResolver.GetMonthFilePath(account.Number, monthKey)
		if err != nil {
			return result, err
		}

		for _, entry := range byMonth[monthKey] {
			formatted := e.converter.FormatTransaction(e.converter.ConvertEntry(account, entry))

			if dryRun {
				result.Preview = append(result.Preview, formatted)
				continue
			}

			if err := e.repo.AppendTransaction(account.Number, monthKey, formatted); err != nil {
				return result, fmt.Errorf("failed to append entry %d: %w", entry.ID, err)
			}
			if err := e.history.RecordExport(Record{
				EntryID:       entry.ID,
				AccountID:     accountID,
				BeancountFile: filePath,
			}); err != nil {
				return result, fmt.Errorf("failed to record export of entry %d: %w", entry.ID, err)
			}
			result.Exported++
		}

		if !dryRun {
			result.FilesWritten = append(result.FilesWritten, filePath)
			e.logger.Info("Updated file", "path", filePath, "entries", len(byMonth[monthKey]))
		}
	}

	return result, nil
}

func filterEntries(entries []ledger.Entry, exportedIDs []int64) []ledger.Entry {
	exported := make(map[int64]bool, len(exportedIDs))
	for _, id := range exportedIDs {
		exported[id] = true
	}

	var result []ledger.Entry
	for _, entry := range entries {
		if !exported[entry.ID] {
			result = append(result, entry)
		}
	}
	return result
}

func groupEntriesByMonth(entries []ledger.Entry) map[string][]ledger.Entry {
	groups := make(map[string][]ledger.Entry)
	for _, entry := range entries {
		monthKey := entry.Time.UTC().Format("2006-01")
		groups[monthKey] = append(groups[monthKey], entry)
	}
	return groups
}

func sortedMonths(groups map[string][]ledger.Entry) []string {
	months := make([]string, 0, len(groups))
	for month := range groups {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}
