package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.printful.com"
	responseBodyReadLimit int64 = 2048
)

var errAPIKeyRequired = errors.New("printful api key is required")

// Client wraps the Printful order API used for print fulfillment.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	storeID    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Printful API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Printful client. storeID is optional and only needed
// for accounts with multiple stores.
func NewClient(apiKey, storeID string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		storeID:    strings.TrimSpace(storeID),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Recipient is the shipping destination for a fulfillment order.
type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	City        string `json:"city,omitempty"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
}

// OrderFile points Printful at the artwork to print.
type OrderFile struct {
	URL string `json:"url"`
}

// OrderItem is a single catalog variant plus its print files.
type OrderItem struct {
	VariantID int64       `json:"variant_id"`
	Quantity  int         `json:"quantity"`
	Files     []OrderFile `json:"files"`
}

// OrderRequest is the payload sent to POST /orders. Confirm stays false so
// orders land as drafts for manual review.
type OrderRequest struct {
	ExternalID string    `json:"external_id,omitempty"`
	Recipient  Recipient `json:"recipient"`
	Items      []OrderItem `json:"items"`
	Confirm    bool      `json:"confirm"`
}

// OrderCosts carries the cost breakdown Printful attaches to a draft order.
// Printful serializes amounts inconsistently (quoted and bare numbers both
// occur), which decimal.Decimal tolerates.
type OrderCosts struct {
	Currency string          `json:"currency"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Order is the draft order returned by Printful.
type Order struct {
	ID         int64      `json:"id"`
	ExternalID string     `json:"external_id"`
	Status     string     `json:"status"`
	Costs      OrderCosts `json:"costs"`
}

// CreateOrder submits a draft fulfillment order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "printful client not configured")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProviderOrder, err, "marshal order request")
	}

	url := fmt.Sprintf("%s/orders", strings.TrimRight(c.baseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProviderOrder, err, "build order request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.storeID != "" {
		httpReq.Header.Set("X-PF-Store-Id", c.storeID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProviderOrder, err, "execute order request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeProviderOrder,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"printful order request failed",
		)
	}

	var apiResp struct {
		Code   int   `json:"code"`
		Result Order `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeProviderOrder, err, "decode order response")
	}

	return &apiResp.Result, nil
}
