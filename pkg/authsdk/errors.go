package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeValidation      = "validation_error"
	ErrorCodeAuthentication  = "authentication_failed"
	ErrorCodeAuthorization   = "authorization_failed"
	ErrorCodeRateLimited     = "rate_limited"
	ErrorCodeSecurityAnomaly = "security_anomaly"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeMaintenance     = "maintenance"
	ErrorCodeServerError     = "server_error"
)

// ============================================================================
// APIError - portal error envelope
// ============================================================================

// APIError is the JSON error body returned by the portal. It implements the
// error interface so the same type is written by handlers and returned by the
// SDK client.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable category, e.g. "authentication_failed"
	Code string `json:"error"`

	// Description is safe to show to the user
	Description string `json:"error_description"`

	// Field names the offending form field for validation errors
	Field string `json:"field,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// NewAPIError creates an APIError.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrServerError hides internal failures from clients.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "An unexpected error occurred. Please try again later.",
	}

	// ErrNotFound is returned for unknown resources and unmatched paths.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "The requested resource was not found.",
	}

	// ErrInvalidFormBody is returned when the form body cannot be parsed.
	ErrInvalidFormBody = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: "invalid form body",
	}

	// ErrLoginRequired is returned to API clients hitting a protected route
	// without a session.
	ErrLoginRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAuthentication,
		Description: "Please log in to continue.",
	}

	// ErrForbidden is returned when the caller's role lacks access.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAuthorization,
		Description: "You do not have permission to access this resource.",
	}

	// ErrMaintenance is returned while the portal is in maintenance mode.
	ErrMaintenance = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeMaintenance,
		Description: "The portal is undergoing maintenance. Please try again later.",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
