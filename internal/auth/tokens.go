// Package auth issues and validates the HS256 bearer tokens used by both the
// user-facing API and the reservation collaborator.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload. userId is the load-bearing claim; email rides
// along for log readability.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints HS256 tokens with a shared secret.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewIssuer creates a token issuer.
func NewIssuer(secret string, lifetime time.Duration) *Issuer {
	if secret == "" {
		panic("auth: jwt secret is required")
	}
	if lifetime <= 0 {
		lifetime = 7 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), lifetime: lifetime}
}

// Issue signs a token for the given user.
func (i *Issuer) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token string and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
