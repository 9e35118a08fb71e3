// Package client provides an HTTP client for the bank ledger API.
package client

import (
	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// TransactionRequest represents a deposit or withdrawal.
type TransactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

// AccountResponse represents the response carrying one account.
type AccountResponse struct {
	Account *ledger.Account `json:"account"`
}

// StatementResponse represents the response of the statement endpoint.
type StatementResponse struct {
	Statement []statement.Line `json:"statement"`
}

// AuditResponse represents the response of the audit endpoint.
type AuditResponse struct {
	Audit *ledger.AuditReport `json:"audit"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
