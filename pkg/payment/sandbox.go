package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SandboxGateway mints local order IDs without calling any provider. It is
// wired in when gateway credentials are not configured, so process startup
// never depends on payment credentials being present.
type SandboxGateway struct {
	secret string
}

func NewSandboxGateway(secret string) *SandboxGateway {
	if secret == "" {
		secret = "sandbox"
	}
	return &SandboxGateway{secret: secret}
}

func (g *SandboxGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	return &Order{
		ID:       fmt.Sprintf("order_sandbox_%s", uuid.New().String()),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *SandboxGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(g.secret, orderID, paymentID, signature)
}

// Sign produces a valid capture signature for an order, letting sandbox
// clients exercise the verification flow end to end.
func (g *SandboxGateway) Sign(orderID, paymentID string) string {
	return signPayload(g.secret, orderID, paymentID)
}
