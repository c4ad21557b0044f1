package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureRoundTrip(t *testing.T) {
	sig := signPayload("secret", "order_123", "pay_456")
	assert.True(t, verifySignature("secret", "order_123", "pay_456", sig))
}

func TestSignatureRejectsTampering(t *testing.T) {
	sig := signPayload("secret", "order_123", "pay_456")

	assert.False(t, verifySignature("secret", "order_999", "pay_456", sig))
	assert.False(t, verifySignature("secret", "order_123", "pay_999", sig))
	assert.False(t, verifySignature("other", "order_123", "pay_456", sig))

	// Flip one hex character.
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	assert.False(t, verifySignature("secret", "order_123", "pay_456", string(tampered)))
}

func TestSandboxGateway(t *testing.T) {
	g := NewSandboxGateway("")

	order, err := g.CreateOrder(context.Background(), 50000, "INR", "appt_1")
	require.NoError(t, err)
	assert.Contains(t, order.ID, "order_sandbox_")
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "INR", order.Currency)

	sig := g.Sign(order.ID, "pay_1")
	assert.True(t, g.VerifySignature(order.ID, "pay_1", sig))
	assert.False(t, g.VerifySignature(order.ID, "pay_2", sig))
}
