package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medibook/hospital-api/internal/model"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the bearer token claim set. Validation checks signature and
// expiry only; the role and token version are compared against the stored
// record by the caller, so revocation takes effect on the next live user
// lookup.
type Claims struct {
	UserID       string     `json:"id"`
	Role         model.Role `json:"role"`
	TokenVersion int        `json:"tokenVersion"`
	jwt.RegisteredClaims
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, role model.Role, tokenVersion int) (string, error)
	Validate(token string) (*Claims, error)
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string) TokenIssuer {
	return &jwtIssuer{secret: []byte(secret), ttl: TokenTTL}
}

func (i *jwtIssuer) Issue(userID uuid.UUID, role model.Role, tokenVersion int) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID.String(),
		Role:         role,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *jwtIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
