// Package pathutil provides centralized path management for the ledger data directory.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PathResolver manages paths for the ledger databases and Beancount exports.
type PathResolver struct {
	dataRoot     string
	databasePath string
	boltPath     string
	exportDir    string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataRoot is the root directory for all ledger data (e.g., ./data)
	DataRoot string
	// DatabasePath is the path to the SQLite database file
	DatabasePath string
	// BoltPath is the path to the bbolt database file
	BoltPath string
	// ExportDir is the directory for exported Beancount files
	ExportDir string
}

// New creates a new PathResolver with the given configuration.
// Empty paths default to {DataRoot}/ledger.db, {DataRoot}/ledger.bolt and {DataRoot}/beancount.
func New(config Config) *PathResolver {
	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(config.DataRoot, "ledger.db")
	}

	boltPath := config.BoltPath
	if boltPath == "" {
		boltPath = filepath.Join(config.DataRoot, "ledger.bolt")
	}

	exportDir := config.ExportDir
	if exportDir == "" {
		exportDir = filepath.Join(config.DataRoot, "beancount")
	}

	return &PathResolver{
		dataRoot:     config.DataRoot,
		databasePath: dbPath,
		boltPath:     boltPath,
		exportDir:    exportDir,
	}
}

// GetDataRoot returns the data root directory.
func (p *PathResolver) GetDataRoot() string {
	return p.dataRoot
}

// GetDatabasePath returns the SQLite database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetBoltPath returns the bbolt database file path.
func (p *PathResolver) GetBoltPath() string {
	return p.boltPath
}

// GetExportDir returns the Beancount export directory.
func (p *PathResolver) GetExportDir() string {
	return p.exportDir
}

// GetAccountDir returns the export directory of one account.
// Example: data/beancount/1697712345123456
func (p *PathResolver) GetAccountDir(accountNumber int64) string {
	return filepath.Join(p.exportDir, strconv.FormatInt(accountNumber, 10))
}

// GetMonthFilePath returns the export file path for an account and month.
// yearMonth should be in YYYY-MM format.
// Example: data/beancount/1697712345123456/2024/2024-01.beancount
func (p *PathResolver) GetMonthFilePath(accountNumber int64, yearMonth string) (string, error) {
	parts := strings.Split(yearMonth, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid year-month format: %s. Expected YYYY-MM", yearMonth)
	}

	year := parts[0]
	filename := fmt.Sprintf("%s.beancount", yearMonth)

	return filepath.Join(p.GetAccountDir(accountNumber), year, filename), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
