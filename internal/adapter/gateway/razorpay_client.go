// Package gateway wraps the payment provider's REST API. The provider is a
// hard service boundary: orders are created before the hosted checkout
// opens, and payment status is fetched again during verification rather
// than trusted from the client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinagsv/quickbite-api/configs"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

type RazorpayClient struct {
	http      *http.Client
	baseURL   string
	keyID     string
	keySecret string
}

func NewRazorpayClient(cfg configs.Config) *RazorpayClient {
	timeout := cfg.Gateway.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayClient{
		http:      &http.Client{Timeout: timeout},
		baseURL:   cfg.Gateway.BaseURL,
		keyID:     cfg.Gateway.KeyID,
		keySecret: cfg.Gateway.KeySecret,
	}
}

type createOrderReq struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResp struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type paymentResp struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string, notes map[string]string) (*usecase.GatewayOrder, error) {
	body, err := json.Marshal(createOrderReq{
		Amount:   amountCents,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	var out orderResp
	if err := c.do(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &usecase.GatewayOrder{
		ID:          out.ID,
		AmountCents: out.Amount,
		Currency:    out.Currency,
	}, nil
}

func (c *RazorpayClient) FetchPayment(ctx context.Context, paymentID string) (*usecase.GatewayPayment, error) {
	var out paymentResp
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &out); err != nil {
		return nil, err
	}
	return &usecase.GatewayPayment{
		ID:          out.ID,
		OrderID:     out.OrderID,
		Status:      out.Status,
		AmountCents: out.Amount,
		Currency:    out.Currency,
	}, nil
}

func (c *RazorpayClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway %s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ usecase.PaymentGateway = (*RazorpayClient)(nil)
