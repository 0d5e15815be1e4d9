// Package utils provides helpers for operator session tokens and secret
// verification.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpiredToken is returned by VerifySession for a token past its expiry.
var ErrExpiredToken = errors.New("session token expired")

// SessionToken is a signed JWT identifying the operator along with its
// expiry. Tokens are short-lived; there is no refresh flow, the operator
// simply logs in again.
type SessionToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for the admin principal.
// Claims: subject (sub=admin), expiration (exp) and issued at (iat).
func NewSessionToken(secret string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySession parses and validates a session token, returning the
// principal from the subject claim. Expired tokens fail with
// ErrExpiredToken; any other defect is reported as-is.
func VerifySession(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", err
	}
	if !tok.Valid {
		return "", errors.New("invalid session token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}
