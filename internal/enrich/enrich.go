// Package enrich calls the Plaid transactions-enrich API. It is a standalone
// collaborator of the receipt pipeline, used by cmd/plaid-enrich to sanity
// check enrichment of raw transaction descriptions.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Plaid production environment.
const DefaultBaseURL = "https://production.plaid.com"

// Location is the optional city/region hint attached to a transaction.
type Location struct {
	City   string `json:"city,omitempty"`
	Region string `json:"region,omitempty"`
}

// Transaction is one raw transaction submitted for enrichment.
type Transaction struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	Amount          float64   `json:"amount"`
	Direction       string    `json:"direction"`
	ISOCurrencyCode string    `json:"iso_currency_code"`
	Location        *Location `json:"location,omitempty"`
	DatePosted      string    `json:"date_posted,omitempty"`
}

type enrichRequest struct {
	ClientID     string        `json:"client_id"`
	Secret       string        `json:"secret"`
	AccountType  string        `json:"account_type"`
	Transactions []Transaction `json:"transactions"`
}

// Response carries the raw outcome of an enrich call for printing: status
// code, headers, and unparsed body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client calls the transactions-enrich endpoint.
type Client struct {
	clientID string
	secret   string
	baseURL  string
	client   *http.Client
}

// NewClient creates a new enrichment Client instance.
func NewClient(clientID, secret, baseURL string) (*Client, error) {
	if clientID == "" || secret == "" {
		return nil, fmt.Errorf("plaid client id and secret are required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		clientID: clientID,
		secret:   secret,
		baseURL:  baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// EnrichTransactions submits the transactions for enrichment and returns the
// raw response. Non-2xx statuses are returned alongside the response so the
// caller can print the error body; only network-level failures return a nil
// response.
func (c *Client) EnrichTransactions(ctx context.Context, accountType string, transactions []Transaction) (*Response, error) {
	reqBody := enrichRequest{
		ClientID:     c.clientID,
		Secret:       c.secret,
		AccountType:  accountType,
		Transactions: transactions,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/transactions/enrich", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling enrich API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
