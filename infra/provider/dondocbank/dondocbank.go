// Package dondocbank is the HTTP client for the banking service that holds
// every moim's shared account.
package dondocbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/devdibi/dondoc/pkg/config"
	"github.com/devdibi/dondoc/pkg/provider/banking"
)

// Client implements banking.Gateway against the bank's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a bank client from config.
func New(cfg config.Bank, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// envelope is the bank's uniform response wrapper.
type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	ErrorMessage string          `json:"errorMessage"`
}

type openOwnerRequest struct {
	IdentificationNumber string `json:"identificationNumber"`
	Name                 string `json:"name"`
}

type openAccountRequest struct {
	Name                 string `json:"name"`
	BankCode             int    `json:"bankCode"`
	IdentificationNumber string `json:"identificationNumber"`
	Password             string `json:"password"`
}

type openAccountResponse struct {
	AccountID     int64  `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
}

type transferRequest struct {
	FromAccount string `json:"fromAccount"`
	ToAccount   string `json:"toAccount"`
	Amount      int64  `json:"amount"`
}

type historyRequest struct {
	IdentificationNumber string `json:"identificationNumber"`
	AccountNumber        string `json:"accountNumber"`
}

type historyDetailRequest struct {
	IdentificationNumber string `json:"identificationNumber"`
	AccountNumber        string `json:"accountNumber"`
	HistoryID            int64  `json:"historyId"`
}

// OpenOwner registers the moim as an account owner at the bank.
func (c *Client) OpenOwner(ctx context.Context, identificationNumber, moimName string) error {
	return c.post(ctx, "/owner/create", openOwnerRequest{
		IdentificationNumber: identificationNumber,
		Name:                 moimName,
	}, nil)
}

// OpenAccount opens the moim's shared account.
func (c *Client) OpenAccount(ctx context.Context, moimName string, bankCode int, identificationNumber, password string) (*banking.OpenedAccount, error) {
	var out openAccountResponse
	err := c.post(ctx, "/account/create", openAccountRequest{
		Name:                 moimName,
		BankCode:             bankCode,
		IdentificationNumber: identificationNumber,
		Password:             password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &banking.OpenedAccount{
		AccountID:     out.AccountID,
		AccountNumber: out.AccountNumber,
	}, nil
}

// Transfer moves amount between two accounts.
func (c *Client) Transfer(ctx context.Context, fromAccount, toAccount string, amount int64) error {
	start := time.Now()
	err := c.post(ctx, "/account/transfer", transferRequest{
		FromAccount: fromAccount,
		ToAccount:   toAccount,
		Amount:      amount,
	}, nil)
	if err != nil {
		return err
	}
	c.logger.Info("bank transfer completed",
		"from", fromAccount, "to", toAccount, "amount", amount,
		"took", time.Since(start))
	return nil
}

// History lists the transactions of an account.
func (c *Client) History(ctx context.Context, identificationNumber, accountNumber string) ([]banking.HistoryEntry, error) {
	var out []banking.HistoryEntry
	err := c.post(ctx, "/account/history", historyRequest{
		IdentificationNumber: identificationNumber,
		AccountNumber:        accountNumber,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HistoryDetail returns one transaction of an account.
func (c *Client) HistoryDetail(ctx context.Context, identificationNumber, accountNumber string, historyID int64) (*banking.HistoryEntry, error) {
	var out banking.HistoryEntry
	err := c.post(ctx, "/account/history/detail", historyDetailRequest{
		IdentificationNumber: identificationNumber,
		AccountNumber:        accountNumber,
		HistoryID:            historyID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends body as JSON to path and decodes the envelope's data into out
// when out is non-nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bank returned status %d: %s", resp.StatusCode, string(raw))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("bank returned error: %s", env.ErrorMessage)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// Ensure Client implements banking.Gateway.
var _ banking.Gateway = (*Client)(nil)
