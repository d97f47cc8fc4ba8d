package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vendorhub/models"

	"golang.org/x/net/context/ctxhttp"
)

var (
	ErrUnauthorized = errors.New("backend rejected credentials")
	ErrNotFound     = errors.New("backend record not found")
)

// Client talks to the marketplace backend (Strapi) that owns subscriptions.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSubscriptionInvoice loads the invoice record of a subscription. The
// bearer token is passed through unchanged.
func (c *Client) FetchSubscriptionInvoice(ctx context.Context, subscriptionID int64, token string) (*models.InvoiceData, error) {
	url := fmt.Sprintf("%s/api/subscriptions/%s/invoice", c.baseURL, strconv.FormatInt(subscriptionID, 10))
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ctxhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice for subscription %d: %w", subscriptionID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("backend returned status %d for subscription %d", resp.StatusCode, subscriptionID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice response: %w", err)
	}

	return decodeInvoice(body)
}

// decodeInvoice accepts the bare invoice object or Strapi's {"data": {...}}
// envelope.
func decodeInvoice(body []byte) (*models.InvoiceData, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(bytes.TrimSpace(envelope.Data)) > 0 && !bytes.Equal(bytes.TrimSpace(envelope.Data), []byte("null")) {
		body = envelope.Data
	}

	var invoice models.InvoiceData
	if err := json.Unmarshal(body, &invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice: %w", err)
	}
	if invoice.InvoiceNumber == "" {
		return nil, ErrNotFound
	}
	return &invoice, nil
}
