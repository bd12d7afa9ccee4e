package service

import "errors"

// Error categories. Every error a service returns to the HTTP layer either
// wraps one of these or is an internal failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrAuthentication  = errors.New("authentication failed")
	ErrAuthorization   = errors.New("authorization failed")
	ErrRateLimited     = errors.New("rate limited")
	ErrSecurityAnomaly = errors.New("security anomaly")
)

// Error is a categorised failure whose message is safe to show to clients.
type Error struct {
	Category error
	Message  string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Category }

func newError(category error, msg string) *Error {
	return &Error{Category: category, Message: msg}
}

var (
	ErrInvalidCredentials = newError(ErrAuthentication, "Invalid email or password.")
	ErrEmailNotVerified   = newError(ErrAuthentication, "Please verify your email address before logging in.")
	ErrAccountInactive    = newError(ErrAuthentication, "This account is not active. Please contact the administrator.")
	ErrInvalidCode        = newError(ErrAuthentication, "Invalid or expired verification code.")
	ErrNoPendingChallenge = newError(ErrAuthentication, "No two-factor verification is in progress. Please log in again.")
	ErrInvalidToken       = newError(ErrAuthentication, "This link is invalid or has expired.")
	ErrSessionInvalid     = newError(ErrAuthentication, "Please log in to continue.")
	ErrSessionExpired     = newError(ErrAuthentication, "Your session has expired. Please log in again.")
	ErrWrongPassword      = newError(ErrAuthentication, "Current password is incorrect.")

	ErrForbidden = newError(ErrAuthorization, "You do not have permission to access this resource.")

	ErrAccountLocked   = newError(ErrRateLimited, "Too many failed attempts. This account is temporarily locked.")
	ErrAddressBlocked  = newError(ErrRateLimited, "Too many failed attempts from your network. Please try again later.")
	ErrTooManyRequests = newError(ErrRateLimited, "Too many requests. Please try again later.")

	ErrSessionHijack = newError(ErrSecurityAnomaly, "Session validation failed. Please log in again.")
	ErrCSRFMismatch  = newError(ErrSecurityAnomaly, "Invalid or missing CSRF token.")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
