package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims are the claims carried by a MonoRec access token.
type AccessClaims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"role"`
	jwt.RegisteredClaims
}

// TokenRequest describes the identity to mint a token for.
type TokenRequest struct {
	Subject string
	Email   string
	Name    string
	Roles   []string
	TTL     time.Duration
	Now     time.Time
}

// IssueAccessToken signs an HS256 token for req and returns it together with
// its claims. A fresh jti identifies the session.
func IssueAccessToken(req TokenRequest) (string, AccessClaims, error) {
	secret := GetJWTSecretByte()
	if len(secret) == 0 {
		return "", AccessClaims{}, fmt.Errorf("jwt secret is not configured")
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	claims := AccessClaims{
		Email: req.Email,
		Name:  req.Name,
		Roles: req.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.Subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", AccessClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseAccessToken verifies the signature and expiry of tokenString.
// Tokens without a subject or jti are rejected.
func ParseAccessToken(tokenString string) (*AccessClaims, error) {
	secret := GetJWTSecretByte()
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret is not configured", ErrInvalidToken)
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or jti", ErrInvalidToken)
	}
	return claims, nil
}
