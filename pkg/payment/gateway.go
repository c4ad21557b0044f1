package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Order is a gateway-side record created before payment capture. The local
// appointment references it by ID.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway is the payment provider capability injected at construction time.
// The sandbox implementation satisfies the same interface and is selected by
// configuration when credentials are absent.
type Gateway interface {
	// CreateOrder opens an order for amount in minor units (e.g. paise).
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
	// VerifySignature checks the capture callback signature for an order.
	VerifySignature(orderID, paymentID, signature string) bool
}

// signPayload computes the capture signature: hex HMAC-SHA256 over
// "<orderID>|<paymentID>" keyed with the gateway secret.
func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func verifySignature(secret, orderID, paymentID, signature string) bool {
	expected := signPayload(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
