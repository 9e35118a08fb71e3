package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/banking"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/boltstore"
)

type testClient struct {
	server *httptest.Server
}

func setupTestServer(t *testing.T) *testClient {
	t.Helper()

	st, err := boltstore.New(filepath.Join(t.TempDir(), "ledger.bolt"))
	if err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(NewRouter(banking.NewService(st, logger), logger, 5*time.Second))
	t.Cleanup(server.Close)

	return &testClient{server: server}
}

func (c *testClient) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()

	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	var errResp ErrorResponse
	decode(t, resp, &errResp)
	if errResp.Error != code {
		t.Errorf("error code = %q, want %q (%s)", errResp.Error, code, errResp.ErrorDescription)
	}
}

func TestHealth(t *testing.T) {
	client := setupTestServer(t)

	resp := client.request(t, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "OK" {
		t.Errorf("body = %q, want OK", body)
	}
}

func TestAccountLifecycle(t *testing.T) {
	client := setupTestServer(t)

	// Create
	resp := client.request(t, http.MethodPost, "/api/1/accounts", map[string]interface{}{
		"customer_id": 9,
		"name":        "Customer_01",
		"email":       "customer@example.com",
		"phone":       "123-456-7890",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		Account struct {
			ID         int64       `json:"account_id"`
			CustomerID int64       `json:"customer_id"`
			Number     int64       `json:"account_number"`
			Balance    json.Number `json:"balance"`
		} `json:"account"`
	}
	decode(t, resp, &created)
	if created.Account.ID == 0 || created.Account.CustomerID != 9 || created.Account.Balance != "0" {
		t.Fatalf("created = %+v", created.Account)
	}
	id := created.Account.ID
	base := "/api/1/accounts/" + strconv.FormatInt(id, 10)

	// Deposit, then withdraw
	resp = client.request(t, http.MethodPost, base+"/transactions", map[string]interface{}{"amount": 1000, "type": "deposit"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit status = %d", resp.StatusCode)
	}
	resp = client.request(t, http.MethodPost, base+"/transactions", map[string]interface{}{"amount": "500", "type": "withdraw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("withdraw status = %d", resp.StatusCode)
	}
	var updated struct {
		Account struct {
			Balance json.Number `json:"balance"`
		} `json:"account"`
	}
	decode(t, resp, &updated)
	if updated.Account.Balance != "500" {
		t.Errorf("balance = %s, want 500", updated.Account.Balance)
	}

	// Creating again returns the same account with its balance.
	resp = client.request(t, http.MethodPost, "/api/1/accounts", map[string]interface{}{"customer_id": 9})
	decode(t, resp, &created)
	if created.Account.ID != id || created.Account.Balance != "500" {
		t.Errorf("re-created = %+v, want id %d balance 500", created.Account, id)
	}

	// Get
	resp = client.request(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}

	// Statement
	resp = client.request(t, http.MethodGet, base+"/statement", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("statement status = %d", resp.StatusCode)
	}
	var stmt struct {
		Statement []struct {
			AccountID int64       `json:"account_id"`
			Amount    json.Number `json:"amount"`
			Type      string      `json:"type"`
			Time      string      `json:"time"`
		} `json:"statement"`
	}
	decode(t, resp, &stmt)
	if len(stmt.Statement) != 2 {
		t.Fatalf("statement has %d lines, want 2", len(stmt.Statement))
	}
	if stmt.Statement[0].Amount != "1000" || stmt.Statement[0].Type != "deposit" {
		t.Errorf("line 0 = %+v", stmt.Statement[0])
	}
	if stmt.Statement[1].Amount != "500" || stmt.Statement[1].Type != "withdraw" {
		t.Errorf("line 1 = %+v", stmt.Statement[1])
	}

	// Audit
	resp = client.request(t, http.MethodGet, base+"/audit", nil)
	var audit struct {
		Audit struct {
			Consistent bool `json:"consistent"`
			Entries    int  `json:"entries"`
		} `json:"audit"`
	}
	decode(t, resp, &audit)
	if !audit.Audit.Consistent || audit.Audit.Entries != 2 {
		t.Errorf("audit = %+v", audit.Audit)
	}
}

func TestErrors(t *testing.T) {
	client := setupTestServer(t)

	resp := client.request(t, http.MethodPost, "/api/1/accounts", map[string]interface{}{"customer_id": 1})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown account", http.MethodGet, "/api/1/accounts/999", nil, http.StatusNotFound, "not_found"},
		{"bad id", http.MethodGet, "/api/1/accounts/abc", nil, http.StatusBadRequest, CodeInvalidParameter},
		{"missing customer", http.MethodPost, "/api/1/accounts", map[string]interface{}{"name": "x"}, http.StatusBadRequest, CodeInvalidParameter},
		{"overdraft", http.MethodPost, "/api/1/accounts/1/transactions", map[string]interface{}{"amount": 150, "type": "withdraw"}, http.StatusConflict, "insufficient_funds"},
		{"bad kind", http.MethodPost, "/api/1/accounts/1/transactions", map[string]interface{}{"amount": 150, "type": "transfer"}, http.StatusBadRequest, "invalid_operation"},
		{"negative amount", http.MethodPost, "/api/1/accounts/1/transactions", map[string]interface{}{"amount": -2700, "type": "deposit"}, http.StatusBadRequest, "invalid_amount"},
		{"transaction on unknown account", http.MethodPost, "/api/1/accounts/999/transactions", map[string]interface{}{"amount": 1, "type": "deposit"}, http.StatusNotFound, "not_found"},
		{"audit unknown account", http.MethodGet, "/api/1/accounts/999/audit", nil, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, client.request(t, tt.method, tt.path, tt.body), tt.status, tt.code)
		})
	}

	// Malformed body
	req, _ := http.NewRequest(http.MethodPost, client.server.URL+"/api/1/accounts", bytes.NewBufferString("{"))
	raw, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer raw.Body.Close()
	expectError(t, raw, http.StatusBadRequest, CodeInvalidRequest)
}

func TestStatementOfUnknownAccountIsEmpty(t *testing.T) {
	client := setupTestServer(t)

	resp := client.request(t, http.MethodGet, "/api/1/accounts/5/statement", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(bytes.TrimSpace(body)) != `{"statement":[]}` {
		t.Errorf("body = %s", body)
	}
}
