// Package auth implements the admin gate: a single shared password is exchanged for a
// short-lived signed token, and that token is what the admin routes check.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role the app hands out.
const RoleAdmin = "admin"

const issuer = "golf-club"

var (
	// ErrWrongPassword is returned by Login when the password doesn't match.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidToken is returned by Verify for any token that can't be trusted.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload of an admin session token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Authenticator checks the admin password and issues/verifies session tokens.
type Authenticator struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// New returns an Authenticator. All three values come from validated config;
// there is no built-in fallback password.
func New(password, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks password and, if it matches, returns a signed admin token and its expiry.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		return "", time.Time{}, ErrWrongPassword
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   RoleAdmin,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: RoleAdmin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Verify parses and validates a token issued by Login.
func (a *Authenticator) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrInvalidToken)
	}
	return claims, nil
}
