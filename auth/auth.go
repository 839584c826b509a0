// Package auth mints HS256 tokens for local development. Production identities come
// from Auth0.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the browser client sends the token in.
const CookieName = "auth_token"

var ErrNoSecret = errors.New("auth: JWT secret not set")

// Issuer signs development tokens.
type Issuer struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// CreateToken returns a signed token whose subject is the user id.
func (i Issuer) CreateToken(subject string) (string, error) {
	if i.Secret == "" {
		return "", ErrNoSecret
	}
	ttl := i.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    i.Issuer,
		Audience:  jwt.ClaimStrings{i.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString([]byte(i.Secret))
}

// VerifyToken parses a development token and returns its subject.
func (i Issuer) VerifyToken(tokenString string) (string, error) {
	if i.Secret == "" {
		return "", ErrNoSecret
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(i.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.Issuer),
		jwt.WithAudience(i.Audience),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
