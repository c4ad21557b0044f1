package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/internal/repository"
	"github.com/medibook/hospital-api/pkg/auth"
	"github.com/medibook/hospital-api/pkg/httputil"
)

const contextIdentityKey = "identity"

type AuthMiddleware struct {
	tokens   auth.TokenIssuer
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewAuthMiddleware(tokens auth.TokenIssuer, doctors repository.DoctorRepository,
	patients repository.PatientRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		doctors:  doctors,
		patients: patients,
	}
}

// Authenticate verifies the bearer token, looks up the live user record and
// attaches the identity to the context. A token whose version no longer
// matches the record is treated as revoked.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "no token provided")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "no token provided")
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "token failed")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "token failed")
			return
		}

		identity, err := m.resolve(c, userID, claims.Role)
		if err != nil {
			abortUnauthorized(c, "user not found")
			return
		}
		if identity == nil {
			abortUnauthorized(c, "invalid role")
			return
		}
		if identity.TokenVersion != claims.TokenVersion {
			abortUnauthorized(c, "token revoked")
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context, userID uuid.UUID, role model.Role) (*model.Identity, error) {
	switch role {
	case model.RoleDoctor:
		doctor, err := m.doctors.Get(c.Request.Context(), userID)
		if err != nil {
			return nil, err
		}
		return &model.Identity{
			ID:           doctor.ID,
			Role:         model.RoleDoctor,
			Name:         doctor.Name,
			Email:        doctor.Email,
			TokenVersion: doctor.TokenVersion,
		}, nil
	case model.RolePatient:
		patient, err := m.patients.Get(c.Request.Context(), userID)
		if err != nil {
			return nil, err
		}
		return &model.Identity{
			ID:           patient.ID,
			Role:         model.RolePatient,
			Name:         patient.Name,
			Email:        patient.Email,
			TokenVersion: patient.TokenVersion,
		}, nil
	}
	return nil, nil
}

// RequireRole gates a route group to a single role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok || identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, httputil.Response{
				Status:  "error",
				Message: "access restricted to " + string(role) + "s",
			})
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the authenticated identity set by Authenticate.
func IdentityFromContext(c *gin.Context) (*model.Identity, bool) {
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*model.Identity)
	return identity, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
		Status:  "error",
		Message: message,
	})
}
