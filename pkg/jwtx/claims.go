package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Link purposes. A token minted for one purpose never verifies for another.
const (
	PurposeEmailVerification = "email_verification"
)

// LinkClaims are the claims carried by a signed one-shot link token.
type LinkClaims struct {
	jwt.RegisteredClaims

	// Purpose binds the token to a single flow.
	Purpose string `json:"purpose"`

	// Email is the address the link was sent to, so a later address change
	// invalidates outstanding links.
	Email string `json:"email,omitempty"`
}

// NewLinkClaims builds claims for subject valid for ttl from now.
func NewLinkClaims(subject, purpose, email, issuer string, ttl time.Duration, now time.Time) LinkClaims {
	return LinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Purpose: purpose,
		Email:   email,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidatePurpose checks the token was minted for the expected flow.
func (c *LinkClaims) ValidatePurpose(expected string) error {
	if expected == "" || c.Purpose != expected {
		return ErrPurpose
	}
	return nil
}
