// Package converter provides conversion from ledger entries to Beancount format.
package converter

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"gopkg.in/yaml.v3"
)

// Default Beancount account names used when the mapping file has no entry.
const (
	DefaultAssetPrefix     = "Assets:Bank:Checking"
	DefaultDepositAccount  = "Equity:Deposits"
	DefaultWithdrawAccount = "Expenses:Withdrawals"
	DefaultCurrency        = "USD"
)

// AccountMapping maps one ledger account number to a Beancount account name.
type AccountMapping struct {
	AccountNumber int64  `yaml:"account_number"`
	Beancount     string `yaml:"beancount"`
}

// OperationMapping maps an operation kind to its counter account.
type OperationMapping struct {
	Type      string `yaml:"type"`
	Beancount string `yaml:"beancount"`
}

// MappingConfig represents the complete mapping configuration.
type MappingConfig struct {
	Currency           string             `yaml:"currency"`
	DefaultAssetPrefix string             `yaml:"default_asset_prefix"`
	Accounts           []AccountMapping   `yaml:"accounts"`
	Operations         []OperationMapping `yaml:"operations"`
}

// Mapper maps ledger accounts and operations to Beancount account names.
type Mapper struct {
	config       MappingConfig
	accountMap   map[int64]string
	operationMap map[ledger.Operation]string
}

// NewMapper creates a new Mapper from a YAML configuration file.
func NewMapper(configPath string) (*Mapper, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMapper(data)
}

// ParseMapper creates a new Mapper from YAML content.
func ParseMapper(data []byte) (*Mapper, error) {
	var config MappingConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for _, op := range config.Operations {
		if _, err := ledger.ParseOperation(op.Type); err != nil {
			return nil, fmt.Errorf("invalid operation mapping: %w", err)
		}
	}

	return NewMapperFromConfig(config), nil
}

// DefaultMapper returns a Mapper that only uses the default account names.
func DefaultMapper() *Mapper {
	return NewMapperFromConfig(MappingConfig{})
}

// NewMapperFromConfig creates a Mapper from an in-memory configuration.
// Empty currency and asset prefix fall back to the defaults.
func NewMapperFromConfig(config MappingConfig) *Mapper {
	if config.Currency == "" {
		config.Currency = DefaultCurrency
	}
	if config.DefaultAssetPrefix == "" {
		config.DefaultAssetPrefix = DefaultAssetPrefix
	}

	m := &Mapper{
		config:       config,
		accountMap:   make(map[int64]string),
		operationMap: make(map[ledger.Operation]string),
	}

	for _, mapping := range config.Accounts {
		m.accountMap[mapping.AccountNumber] = mapping.Beancount
	}
	for _, mapping := range config.Operations {
		m.operationMap[ledger.Operation(mapping.Type)] = mapping.Beancount
	}

	return m
}

// Currency returns the configured commodity.
func (m *Mapper) Currency() string {
	return m.config.Currency
}

// GetAssetAccount returns the Beancount asset account for a ledger account number.
// Unmapped accounts become {DefaultAssetPrefix}:{number}.
func (m *Mapper) GetAssetAccount(accountNumber int64) string {
	if account := m.accountMap[accountNumber]; account != "" {
		return account
	}
	return m.config.DefaultAssetPrefix + ":N" + strconv.FormatInt(accountNumber, 10)
}

// GetCounterAccount returns the Beancount account balancing an operation.
func (m *Mapper) GetCounterAccount(op ledger.Operation) string {
	if account := m.operationMap[op]; account != "" {
		return account
	}
	if op == ledger.OpWithdraw {
		return DefaultWithdrawAccount
	}
	return DefaultDepositAccount
}
