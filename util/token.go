package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionClaims is the payload of an administrator session token.
type SessionClaims struct {
	LoggedIn bool `json:"logged_in"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token for username valid until expires.
func IssueSessionToken(username string, expires time.Time) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		LoggedIn: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTSecretByte())
}

// ParseSessionToken verifies signature and expiry and returns the claims.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return GetJWTSecretByte(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || !claims.LoggedIn || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
