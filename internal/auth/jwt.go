// Package auth signs and verifies the durable session marker.
//
// The marker is an HS256 JWT whose claims carry the logged-in principal.
// A marker that fails to parse or verify is treated by callers as absent.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidMarker = errors.New("invalid session marker")

// Claims are the registered claims plus the session principal.
type Claims struct {
	jwt.RegisteredClaims
	Principal models.Principal `json:"principal"`
}

// SignMarker issues a marker for p. A zero ttl yields a marker without expiry.
func SignMarker(p models.Principal, secretKey []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  p.Email,
		},
		Principal: p,
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign session marker: %w", err)
	}
	return s, nil
}

// ParseMarker verifies tokenString and returns the principal it carries.
func ParseMarker(tokenString string, secretKey []byte) (models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: %v", ErrInvalidMarker, err)
	}
	if !token.Valid || claims.Principal.Email == "" {
		return models.Principal{}, ErrInvalidMarker
	}
	return claims.Principal, nil
}
