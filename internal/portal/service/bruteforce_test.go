package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockoutAndRecovery(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	for i := 1; i <= 4; i++ {
		_, err := e.auth.Login(ctx, LoginInput{Email: u.Email, Password: "Wrong123!"}, client, nil)
		require.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i)
	}

	_, err := e.auth.Login(ctx, LoginInput{Email: u.Email, Password: "Wrong123!"}, client, nil)
	require.ErrorIs(t, err, ErrAccountLocked, "fifth failure locks")
	require.Equal(t, 1, e.countEvents(t, u.ID, "ACCOUNT_LOCKED"))
	require.Equal(t, 1, e.rec.get("locked"))

	_, err = e.auth.Login(ctx, LoginInput{Email: u.Email, Password: testPassword}, client, nil)
	require.ErrorIs(t, err, ErrAddressBlocked, "the offending address is blocked too")

	other := client
	other.SourceAddr = "10.0.0.2"
	_, err = e.auth.Login(ctx, LoginInput{Email: u.Email, Password: testPassword}, other, nil)
	require.ErrorIs(t, err, ErrAccountLocked, "lock follows the account to other addresses")

	e.clock.Advance(15*time.Minute + time.Second)
	res, err := e.auth.Login(ctx, LoginInput{Email: u.Email, Password: testPassword}, other, nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionToken)

	locked, err := e.bruteforce.IsAccountLocked(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, locked)
}

func TestFailureCountRestartsAfterWindow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	subject := "user-1"
	for range 4 {
		_, err := e.bruteforce.RecordFailure(ctx, subject, client.SourceAddr)
		require.NoError(t, err)
	}
	e.clock.Advance(16 * time.Minute)

	out, err := e.bruteforce.RecordFailure(ctx, subject, client.SourceAddr)
	require.NoError(t, err)
	require.Equal(t, 1, out.Attempts)
	require.False(t, out.AccountLocked)
}

func TestUnknownAccountsLockLikeKnownOnes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.Equal(t, e.bruteforce.Subject(nil, "Ghost@Uni.edu "), e.bruteforce.Subject(nil, "ghost@uni.edu"))
	require.NotContains(t, e.bruteforce.Subject(nil, "ghost@uni.edu"), "ghost")

	var err error
	for range 5 {
		_, err = e.auth.Login(ctx, LoginInput{Email: "ghost@uni.edu", Password: "Wrong123!"}, client, nil)
	}
	require.ErrorIs(t, err, ErrAccountLocked)

	other := client
	other.SourceAddr = "10.0.0.2"
	_, err = e.auth.Login(ctx, LoginInput{Email: "ghost@uni.edu", Password: "Wrong123!"}, other, nil)
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestLockoutBlocksAddressForOtherAccounts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	target := e.activeUser(t, "target@uni.edu")
	bystander := e.activeUser(t, "other@uni.edu")

	for range 5 {
		_, err := e.auth.Login(ctx, LoginInput{Email: target.Email, Password: "Wrong123!"}, client, nil)
		require.Error(t, err)
	}
	require.Equal(t, 1, e.rec.get("blocked"))
	require.Equal(t, 1, e.countEvents(t, target.ID, "IP_BLOCKED"))

	blocked, err := e.bruteforce.IsAddressBlocked(ctx, client.SourceAddr)
	require.NoError(t, err)
	require.True(t, blocked)

	_, err = e.auth.Login(ctx, LoginInput{Email: bystander.Email, Password: testPassword}, client, nil)
	require.ErrorIs(t, err, ErrAddressBlocked)

	other := client
	other.SourceAddr = "10.0.0.2"
	_, err = e.auth.Login(ctx, LoginInput{Email: bystander.Email, Password: testPassword}, other, nil)
	require.NoError(t, err, "other addresses are unaffected")
}

func TestRecordFailureBlocksAtPairThreshold(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	for i := 1; i < 5; i++ {
		out, err := e.bruteforce.RecordFailure(ctx, "user-1", client.SourceAddr)
		require.NoError(t, err)
		require.False(t, out.AddressBlocked, "attempt %d", i)
	}
	out, err := e.bruteforce.RecordFailure(ctx, "user-1", client.SourceAddr)
	require.NoError(t, err)
	require.True(t, out.NewlyLocked)
	require.True(t, out.AddressBlocked)

	// Further failures refresh the block.
	e.clock.Advance(10 * time.Minute)
	out, err = e.bruteforce.RecordFailure(ctx, "user-1", client.SourceAddr)
	require.NoError(t, err)
	require.True(t, out.AddressBlocked)
	e.clock.Advance(55 * time.Minute)
	blocked, err := e.bruteforce.IsAddressBlocked(ctx, client.SourceAddr)
	require.NoError(t, err)
	require.True(t, blocked, "refreshed block outlives the first expiry")
}

func TestAddressBlockAcrossAccounts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	victim := e.activeUser(t, "victim@uni.edu")

	// Ten failures spread over five accounts stay under the per-account
	// threshold but trip the address block.
	for i := range 10 {
		email := fmt.Sprintf("user%d@uni.edu", i%5)
		_, err := e.auth.Login(ctx, LoginInput{Email: email, Password: "Wrong123!"}, client, nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	require.Equal(t, 1, e.rec.get("blocked"))

	blocked, err := e.bruteforce.IsAddressBlocked(ctx, client.SourceAddr)
	require.NoError(t, err)
	require.True(t, blocked)

	_, err = e.auth.Login(ctx, LoginInput{Email: victim.Email, Password: testPassword}, client, nil)
	require.ErrorIs(t, err, ErrAddressBlocked)

	other := client
	other.SourceAddr = "10.0.0.99"
	_, err = e.auth.Login(ctx, LoginInput{Email: victim.Email, Password: testPassword}, other, nil)
	require.NoError(t, err, "other addresses are unaffected")

	e.clock.Advance(time.Hour + time.Second)
	blocked, err = e.bruteforce.IsAddressBlocked(ctx, client.SourceAddr)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestSuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	for range 4 {
		_, err := e.auth.Login(ctx, LoginInput{Email: u.Email, Password: "Wrong123!"}, client, nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := e.auth.Login(ctx, LoginInput{Email: u.Email, Password: testPassword}, client, nil)
	require.NoError(t, err)

	out, err := e.bruteforce.RecordFailure(ctx, u.ID, client.SourceAddr)
	require.NoError(t, err)
	require.Equal(t, 1, out.Attempts)
}
