package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
)

// categoryErrors maps service error categories to their HTTP rendering. The
// description is replaced by the concrete error's message when it has one.
var categoryErrors = []struct {
	category error
	apiErr   authsdk.APIError
}{
	{service.ErrValidation, authsdk.APIError{StatusCode: http.StatusBadRequest, Code: authsdk.ErrorCodeValidation, Description: "The request is invalid."}},
	{service.ErrAuthentication, authsdk.APIError{StatusCode: http.StatusUnauthorized, Code: authsdk.ErrorCodeAuthentication, Description: "Authentication failed."}},
	{service.ErrAuthorization, authsdk.APIError{StatusCode: http.StatusForbidden, Code: authsdk.ErrorCodeAuthorization, Description: "Access denied."}},
	{service.ErrRateLimited, authsdk.APIError{StatusCode: http.StatusTooManyRequests, Code: authsdk.ErrorCodeRateLimited, Description: "Too many requests. Please try again later."}},
	{service.ErrSecurityAnomaly, authsdk.APIError{StatusCode: http.StatusForbidden, Code: authsdk.ErrorCodeSecurityAnomaly, Description: "The request was rejected."}},
}

// writeError renders err as an authsdk.APIError. Uncategorised errors are
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr == nil {
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	apiErr.WriteError(w)
}

func toAPIError(err error) *authsdk.APIError {
	if errors.Is(err, store.ErrNotFound) {
		return authsdk.ErrNotFound
	}

	for _, ce := range categoryErrors {
		if !errors.Is(err, ce.category) {
			continue
		}
		apiErr := ce.apiErr

		var ve *service.ValidationError
		var se *service.Error
		switch {
		case errors.As(err, &ve):
			apiErr.Field = ve.Field
			apiErr.Description = ve.Message
		case errors.As(err, &se):
			apiErr.Description = se.Message
		}
		return &apiErr
	}
	return nil
}
