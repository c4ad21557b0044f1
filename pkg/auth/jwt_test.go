package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-api/internal/model"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	userID := uuid.New()

	token, err := issuer.Issue(userID, model.RoleDoctor, 3)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTIssuer("secret-a").Issue(uuid.New(), model.RolePatient, 0)
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewJWTIssuer("test-secret").Validate("not.a.token")
	assert.Error(t, err)
}
