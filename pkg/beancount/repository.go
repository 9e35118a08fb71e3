// Package beancount provides repository pattern for Beancount file operations.
package beancount

import (
	"fmt"
	"os"
	"time"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/pathutil"
)

// Repository defines the interface for Beancount file operations.
type Repository interface {
	// AppendTransaction appends a transaction to an account's monthly file
	AppendTransaction(accountNumber int64, yearMonth, transaction string, comment ...string) error

	// ReadMonthFile reads the content of an account's monthly file
	ReadMonthFile(accountNumber int64, yearMonth string) (string, error)

	// EnsureMonthFile ensures a monthly file exists with header
	EnsureMonthFile(accountNumber int64, yearMonth string) error
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct {
	pathResolver *pathutil.PathResolver
	now          func() time.Time
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		pathResolver: pathResolver,
		now:          time.Now,
	}
}

// AppendTransaction appends a transaction to a monthly file.
// It creates the file if it doesn't exist.
func (r *FileSystemRepository) AppendTransaction(accountNumber int64, yearMonth, transaction string, comment ...string) error {
	filePath, err := r.pathResolver.GetMonthFilePath(accountNumber, yearMonth)
	if err != nil {
		return fmt.Errorf("failed to get month file path: %w", err)
	}

	if err := r.EnsureMonthFile(accountNumber, yearMonth); err != nil {
		return fmt.Errorf("failed to ensure month file: %w", err)
	}

	var content string
	if len(comment) > 0 && comment[0] != "" {
		content += fmt.Sprintf("; %s\n", comment[0])
	}
	content += transaction
	if len(transaction) > 0 && transaction[len(transaction)-1] != '\n' {
		content += "\n"
	}
	content += "\n"

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file for appending: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// ReadMonthFile reads the content of a monthly file.
// Returns empty string if file doesn't exist.
func (r *FileSystemRepository) ReadMonthFile(accountNumber int64, yearMonth string) (string, error) {
	filePath, err := r.pathResolver.GetMonthFilePath(accountNumber, yearMonth)
	if err != nil {
		return "", fmt.Errorf("failed to get month file path: %w", err)
	}

	if !r.pathResolver.FileExists(filePath) {
		return "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}

// EnsureMonthFile ensures a monthly file exists with header.
// If the file already exists, this is a no-op.
func (r *FileSystemRepository) EnsureMonthFile(accountNumber int64, yearMonth string) error {
	filePath, err := r.pathResolver.GetMonthFilePath(accountNumber, yearMonth)
	if err != nil {
		return fmt.Errorf("failed to get month file path: %w", err)
	}

	if r.pathResolver.FileExists(filePath) {
		return nil
	}

	if err := r.pathResolver.EnsureParentDir(filePath); err != nil {
		return fmt.Errorf("failed to ensure parent directory: %w", err)
	}

	header := r.generateFileHeader(accountNumber, yearMonth)
	if err := os.WriteFile(filePath, []byte(header), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// generateFileHeader generates a header comment for a monthly file.
func (r *FileSystemRepository) generateFileHeader(accountNumber int64, yearMonth string) string {
	now := r.now().Format(time.RFC3339)
	return fmt.Sprintf("; Beancount file for account %d, %s\n; Generated at %s\n\n", accountNumber, yearMonth, now)
}
