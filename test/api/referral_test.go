package api_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralFlow(t *testing.T) {
	_, fromToken := registerTestDoctor(t)
	toDoctorID, toToken := registerTestDoctor(t)
	patientID, _ := registerTestPatient(t)

	createResp := makeRequest("POST", "/doctors/referrals", map[string]interface{}{
		"patient_id":    patientID,
		"to_doctor_id":  toDoctorID,
		"referral_date": "2026-10-01T00:00:00Z",
		"notes":         "needs a second opinion",
	}, fromToken)
	require.True(t, createResp.IsSuccess(), createResp.Message)

	referralID := createResp.GetString("id")
	require.NotEmpty(t, referralID)
	assert.Equal(t, "pending", createResp.Data["status"])

	// Only the receiving doctor may resolve it
	forbidden := makeRequest("PUT", fmt.Sprintf("/doctors/referrals/%s/accept", referralID), nil, fromToken)
	assert.Equal(t, 403, forbidden.StatusCode)

	accepted := makeRequest("PUT", fmt.Sprintf("/doctors/referrals/%s/accept", referralID), nil, toToken)
	require.True(t, accepted.IsSuccess(), accepted.Message)
	assert.Equal(t, "accepted", accepted.Data["status"])

	// Resolution is final
	again := makeRequest("PUT", fmt.Sprintf("/doctors/referrals/%s/decline", referralID), nil, toToken)
	assert.Equal(t, 409, again.StatusCode)

	sent := makeRequest("GET", "/doctors/referrals/sent", nil, fromToken)
	require.True(t, sent.IsSuccess(), sent.Message)

	received := makeRequest("GET", "/doctors/referrals/received", nil, toToken)
	require.True(t, received.IsSuccess(), received.Message)
}
