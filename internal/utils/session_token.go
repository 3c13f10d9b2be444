package utils // package utils provides helpers for signing the portal session cookie

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession is returned for a session token that fails signature,
// expiry or subject checks.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed session cookie value along with its expiry.  The
// subject is the workspace id; nothing about the backend user is stored in
// it, the backend keeps that behind its own cookie.
type SessionToken struct {
	Token     string
	SessionID string
	Exp       time.Time
}

// NewSessionToken mints a fresh session id and signs it as an HS256 JWT.
func NewSessionToken(secret string, ttl time.Duration) (SessionToken, error) {
	return SignSession(secret, uuid.NewString(), ttl)
}

// SignSession signs an existing session id, extending its lifetime.
func SignSession(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, fmt.Errorf("sign session: %w", err)
	}
	return SessionToken{Token: signed, SessionID: sessionID, Exp: exp}, nil
}

// ParseSession validates raw and returns the session id it carries.
func ParseSession(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: bad subject", ErrInvalidSession)
	}
	return claims.Subject, nil
}
