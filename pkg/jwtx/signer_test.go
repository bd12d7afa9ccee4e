package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/borrowsmart/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newSigner(t *testing.T) *jwtx.LinkSigner {
	t.Helper()
	s, err := jwtx.NewLinkSigner(testKey, "borrowsmart")
	require.NoError(t, err)
	return s
}

func TestNewLinkSigner(t *testing.T) {
	_, err := jwtx.NewLinkSigner([]byte("short"), "borrowsmart")
	require.Error(t, err)

	_, err = jwtx.NewLinkSigner(testKey, "")
	require.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	s := newSigner(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tok, jti, err := s.Sign("user-1", jwtx.PurposeEmailVerification, "a@uni.edu", time.Hour, now)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := s.Verify(tok, jwtx.PurposeEmailVerification, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, jti, claims.ID)
	require.Equal(t, "a@uni.edu", claims.Email)
}

func TestVerifyRejects(t *testing.T) {
	s := newSigner(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tok, _, err := s.Sign("user-1", jwtx.PurposeEmailVerification, "", time.Hour, now)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		_, err := s.Verify(tok, jwtx.PurposeEmailVerification, now.Add(2*time.Hour))
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong purpose", func(t *testing.T) {
		_, err := s.Verify(tok, "password_reset", now)
		require.ErrorIs(t, err, jwtx.ErrPurpose)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := jwtx.NewLinkSigner([]byte(strings.Repeat("z", 32)), "borrowsmart")
		require.NoError(t, err)
		_, err = other.Verify(tok, jwtx.PurposeEmailVerification, now)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := jwtx.NewLinkSigner(testKey, "elsewhere")
		require.NoError(t, err)
		_, err = other.Verify(tok, jwtx.PurposeEmailVerification, now)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify("not-a-token", jwtx.PurposeEmailVerification, now)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewLinkClaims("user-1", jwtx.PurposeEmailVerification, "", "borrowsmart", time.Hour, now)
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Verify(unsigned, jwtx.PurposeEmailVerification, now)
		require.Error(t, err)
	})
}

func TestValidatePurpose(t *testing.T) {
	c := &jwtx.LinkClaims{Purpose: jwtx.PurposeEmailVerification}
	require.NoError(t, c.ValidatePurpose(jwtx.PurposeEmailVerification))
	require.ErrorIs(t, c.ValidatePurpose(""), jwtx.ErrPurpose)
}
