/*
Package authsdk provides a client SDK and the shared wire types of the BorrowSmart
portal authentication API.

# Overview

The portal authenticates with server-side sessions carried in cookies, not bearer
tokens. SDKClient therefore behaves like a browser: it keeps the portal's cookies in
a jar and remembers the CSRF token of the current session, attaching it as the
X-CSRF-Token header to every POST, PUT, PATCH and DELETE.

	client := authsdk.NewSDKClient("https://borrow.example.edu")

	// Start a pre-authentication session and pick up its CSRF token
	_, err := client.FetchCSRFToken(ctx)

	// Sign in
	res, err := client.Login(ctx, authsdk.LoginRequest{Email: email, Password: password})

# Two-Factor Login

Accounts with two-factor authentication enabled receive a six digit code by email.
Login then answers with status LoginStatusTwoFactorRequired and no session; the
login completes with the code:

	res, err := client.Login(ctx, authsdk.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	if res.Status == authsdk.LoginStatusTwoFactorRequired {
		res, err = client.VerifyTwoFactor(ctx, code)
	}

The session identifier and the CSRF token change on every privilege change. The
client picks the new token up from each LoginResponse.

# Error Handling

Every non-2xx response is returned as an *APIError carrying the HTTP status, a
machine readable code and a message that is safe to display:

  - validation_error (400): Field names the offending form field
  - authentication_failed (401)
  - authorization_failed (403)
  - security_anomaly (403): CSRF mismatch or session hijack detection
  - rate_limited (429)
  - maintenance (503)
  - server_error (500)

Example:

	_, err := client.Login(ctx, req)
	if authsdk.IsCode(err, authsdk.ErrorCodeRateLimited) {
		// locked out or address blocked; retry later
	}

The server uses the same type to render its errors with APIError.WriteError.

# Thread Safety

The CSRF token is guarded by a mutex and the cookie jar is safe for concurrent
use, but requests from one SDKClient share one session. Use one client per
simulated user.
*/
package authsdk
