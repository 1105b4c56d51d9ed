// Package gateway talks to the external mobile-money collaborator. The
// gateway either hosts its own checkout (redirect URL) or hands back a
// reference the storefront polls until a terminal status.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
)

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateRequest is the gateway's payment-creation payload.
type CreateRequest struct {
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Provider    string  `json:"provider"`
	PhoneNumber string  `json:"phone_number"`
	AccountName string  `json:"account_name"`
}

// CreateResult carries either a hosted-checkout RedirectURL (no polling) or
// a Reference to poll.
type CreateResult struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
	Status      string `json:"status"`
}

// StatusResult is one poll response.
type StatusResult struct {
	Reference string               `json:"reference"`
	Status    models.PaymentStatus `json:"-"`
	RawStatus string               `json:"status"`
	Message   string               `json:"message"`
}

// CompleteResult is the manual-completion response.
type CompleteResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	var out CreateResult
	if err := c.do(ctx, http.MethodPost, "/v1/payments", req, &out); err != nil {
		return CreateResult{}, domain.GatewayError{Op: "create", Err: err}
	}
	if out.Reference == "" && out.RedirectURL == "" {
		return CreateResult{}, domain.GatewayError{Op: "create", Err: fmt.Errorf("gateway returned neither reference nor redirect url")}
	}
	return out, nil
}

func (c *Client) Status(ctx context.Context, reference string) (StatusResult, error) {
	var out StatusResult
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+reference+"/status", nil, &out); err != nil {
		return StatusResult{}, domain.GatewayError{Op: "status", Err: err}
	}
	out.Status = models.ParsePaymentStatus(out.RawStatus)
	return out, nil
}

func (c *Client) Complete(ctx context.Context, reference string) (CompleteResult, error) {
	var out CompleteResult
	if err := c.do(ctx, http.MethodPost, "/v1/payments/"+reference+"/complete", nil, &out); err != nil {
		return CompleteResult{}, domain.GatewayError{Op: "complete", Err: err}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway responded %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
