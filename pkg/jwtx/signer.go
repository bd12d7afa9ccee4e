package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the smallest HMAC key accepted for link signing.
const MinKeySize = 32

// LinkSigner mints and verifies HS256 link tokens with a single symmetric key.
// Links never leave the service that issued them, so there is no key set or
// rotation.
type LinkSigner struct {
	key    []byte
	issuer string
}

// NewLinkSigner creates a signer. The key must be at least MinKeySize bytes.
func NewLinkSigner(key []byte, issuer string) (*LinkSigner, error) {
	if len(key) < MinKeySize {
		return nil, fmt.Errorf("jwtx: link key too short (%d bytes, need %d)", len(key), MinKeySize)
	}
	if issuer == "" {
		return nil, errors.New("jwtx: issuer required")
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &LinkSigner{key: k, issuer: issuer}, nil
}

// Issuer returns the issuer stamped on every token.
func (s *LinkSigner) Issuer() string { return s.issuer }

// Sign mints a token for subject. It returns the compact token and its jti so
// the caller can record which link is current.
func (s *LinkSigner) Sign(subject, purpose, email string, ttl time.Duration, now time.Time) (string, string, error) {
	if subject == "" || purpose == "" {
		return "", "", ErrInvalidClaim
	}
	claims := NewLinkClaims(subject, purpose, email, s.issuer, ttl, now)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, claims.ID, nil
}
