package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.razorpay.com/v1"
	clientTimeout  = 15 * time.Second
)

// RazorpayGateway talks to the Razorpay orders API over REST with basic
// auth. Amounts are in minor units (paise for INR).
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

type RazorpayOption func(*RazorpayGateway)

// WithBaseURL points the client at a different API host, used in tests.
func WithBaseURL(url string) RazorpayOption {
	return func(g *RazorpayGateway) { g.baseURL = url }
}

func NewRazorpayGateway(keyID, keySecret string, opts ...RazorpayOption) *RazorpayGateway {
	g := &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: clientTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, payload)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &order, nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(g.keySecret, orderID, paymentID, signature)
}
