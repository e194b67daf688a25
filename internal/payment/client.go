// Package payment holds the outbound client for the external payment
// gateway. The gateway confirms payments asynchronously through the
// webhook receiver; this client only creates checkout links.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Link is what the gateway hands back for a payment request: a hosted
// checkout page plus an equivalent QR code.
type Link struct {
	CheckoutURL string `json:"checkout_url"`
	QRCode      string `json:"qr_code"`
}

// Webhook is the inbound callback body. Delivery is at-least-once and
// possibly out of order; OrderCode is the idempotency key.
type Webhook struct {
	OrderCode   string `json:"orderCode"`
	AmountCents int64  `json:"amount"`
	Code        string `json:"code"`
	Description string `json:"desc"`
	Signature   string `json:"signature"`
}

// CodeSuccess is the gateway's status code for a successful payment.
const CodeSuccess = "00"

type Gateway interface {
	CreatePaymentLink(ctx context.Context, orderCode string, amountCents int64, description string) (*Link, error)
}

type Client struct {
	baseURL  string
	clientID string
	apiKey   string
	http     *http.Client
}

// NewClient builds a gateway client with a bounded timeout. A timeout or
// gateway error never touches the pending ledger entry; the entry waits
// for a later webhook or the reconciliation job.
func NewClient(baseURL, clientID, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	OrderCode   string `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type createResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		CheckoutURL string `json:"checkoutUrl"`
		QRCode      string `json:"qrCode"`
	} `json:"data"`
}

func (c *Client) CreatePaymentLink(ctx context.Context, orderCode string, amountCents int64, description string) (*Link, error) {
	body, err := json.Marshal(createRequest{OrderCode: orderCode, Amount: amountCents, Description: description})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/payment-requests", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode payment gateway response: %w", err)
	}
	if out.Code != CodeSuccess {
		return nil, fmt.Errorf("payment gateway rejected request: code %s (%s)", out.Code, out.Desc)
	}
	return &Link{CheckoutURL: out.Data.CheckoutURL, QRCode: out.Data.QRCode}, nil
}
