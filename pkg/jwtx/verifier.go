package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrPurpose      = errors.New("jwtx: purpose mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Verify parses tokenStr, checks the signature, issuer, validity window and
// purpose as of now, and returns its claims.
func (s *LinkSigner) Verify(tokenStr, purpose string, now time.Time) (*LinkClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	token, err := parser.ParseWithClaims(tokenStr, &LinkClaims{}, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*LinkClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidClaim
	}
	if err := claims.ValidatePurpose(purpose); err != nil {
		return nil, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSig
	default:
		return ErrMalformed
	}
}
