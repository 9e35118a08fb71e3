package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/banking"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
)

// AccountsHandler handles account-related API endpoints.
type AccountsHandler struct {
	service *banking.Service
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(service *banking.Service) *AccountsHandler {
	return &AccountsHandler{service: service}
}

// CreateAccountRequest is the body of POST /api/1/accounts.
type CreateAccountRequest struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// TransactionRequest is the body of POST /api/1/accounts/{id}/transactions.
type TransactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

// AccountResponse wraps a single account.
type AccountResponse struct {
	Account *ledger.Account `json:"account"`
}

// StatementResponse wraps a statement.
type StatementResponse struct {
	Statement []statement.Line `json:"statement"`
}

// AuditResponse wraps an audit report.
type AuditResponse struct {
	Audit *ledger.AuditReport `json:"audit"`
}

// Create handles POST /api/1/accounts.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, CodeInvalidRequest, "Failed to parse request body")
		return
	}

	if req.CustomerID == 0 {
		writeJSONError(w, http.StatusBadRequest, CodeInvalidParameter, "Missing customer_id")
		return
	}

	account, err := h.service.CreateAccount(req.CustomerID, req.Name, req.Email, req.Phone)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AccountResponse{Account: account})
}

// Get handles GET /api/1/accounts/{id}.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	account, err := h.service.GetAccount(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{Account: account})
}

// Transact handles POST /api/1/accounts/{id}/transactions.
func (h *AccountsHandler) Transact(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, CodeInvalidRequest, "Failed to parse request body")
		return
	}

	account, err := h.service.ApplyTransaction(id, req.Amount, req.Type)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{Account: account})
}

// Statement handles GET /api/1/accounts/{id}/statement.
func (h *AccountsHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	lines, err := h.service.Statement(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatementResponse{Statement: lines})
}

// Audit handles GET /api/1/accounts/{id}/audit.
func (h *AccountsHandler) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	report, err := h.service.Audit(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuditResponse{Audit: report})
}

func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, CodeInvalidParameter, "Invalid account ID")
		return 0, false
	}
	return id, true
}
