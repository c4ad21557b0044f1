package api_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

// Helper function to generate unique names
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// Helper to register a doctor and return its ID and token
func registerTestDoctor(t *testing.T) (string, string) {
	t.Helper()

	resp := makeRequest("POST", "/auth/register/doctor", map[string]interface{}{
		"name":       uniqueName("Dr Test"),
		"email":      fmt.Sprintf("doctor_%d@example.com", time.Now().UnixNano()),
		"password":   "test-password",
		"department": "Cardiology",
		"fee":        500,
	}, "")
	if !resp.IsSuccess() {
		t.Fatalf("Failed to register test doctor: %s", resp.Message)
	}
	return resp.GetString("id"), resp.GetString("token")
}

// Helper to register a patient and return its ID and token
func registerTestPatient(t *testing.T) (string, string) {
	t.Helper()

	resp := makeRequest("POST", "/auth/register/patient", map[string]interface{}{
		"name":         uniqueName("Test Patient"),
		"email":        fmt.Sprintf("patient_%d@example.com", time.Now().UnixNano()),
		"password":     "test-password",
		"age":          30,
		"gender":       "Female",
		"phone_number": "9999999999",
	}, "")
	if !resp.IsSuccess() {
		t.Fatalf("Failed to register test patient: %s", resp.Message)
	}
	return resp.GetString("id"), resp.GetString("token")
}

// sandboxSign reproduces the sandbox gateway capture signature, so the
// payment verification flow can be exercised without live credentials.
func sandboxSign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte("sandbox"))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
