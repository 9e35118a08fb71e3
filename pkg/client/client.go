package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/statement"
)

// ClientConfig represents the configuration for the API client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration // Default: 30 seconds
}

// Client is a bank ledger API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(config.BaseURL, "/"),
	}
}

// CreateAccount opens an account for the customer, or returns the existing one.
func (c *Client) CreateAccount(customerID int64, name, email, phone string) (*ledger.Account, error) {
	var resp AccountResponse
	err := c.do(http.MethodPost, "/api/1/accounts", CreateAccountRequest{
		CustomerID: customerID,
		Name:       name,
		Email:      email,
		Phone:      phone,
	}, http.StatusCreated, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Account, nil
}

// GetAccount fetches an account by id.
func (c *Client) GetAccount(accountID int64) (*ledger.Account, error) {
	var resp AccountResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/1/accounts/%d", accountID), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Account, nil
}

// ApplyTransaction applies amount to the account under the named operation kind.
func (c *Client) ApplyTransaction(accountID int64, amount decimal.Decimal, kind string) (*ledger.Account, error) {
	var resp AccountResponse
	err := c.do(http.MethodPost, fmt.Sprintf("/api/1/accounts/%d/transactions", accountID), TransactionRequest{
		Amount: amount,
		Type:   kind,
	}, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Account, nil
}

// Statement fetches the account's statement lines.
func (c *Client) Statement(accountID int64) ([]statement.Line, error) {
	var resp StatementResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/1/accounts/%d/statement", accountID), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	if resp.Statement == nil {
		resp.Statement = []statement.Line{}
	}
	return resp.Statement, nil
}

// Audit fetches the account's audit report.
func (c *Client) Audit(accountID int64) (*ledger.AuditReport, error) {
	var resp AuditResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/1/accounts/%d/audit", accountID), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.Audit, nil
}

func (c *Client) do(method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseError parses an error response from the API. Known error codes are
// mapped back to the ledger error kinds.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ledger API error (status %d): failed to read error response", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("ledger API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if kind := ledger.ErrorForCode(errResp.Error); kind != nil {
		return fmt.Errorf("%w (remote: %s)", kind, errResp.ErrorDescription)
	}

	if errResp.ErrorDescription != "" {
		return fmt.Errorf("ledger API error: %s - %s", errResp.Error, errResp.ErrorDescription)
	}

	return fmt.Errorf("ledger API error: %s", errResp.Error)
}
