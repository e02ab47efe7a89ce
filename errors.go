package gatehouse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error codes returned by the platform. The set is open ended; these are the
// codes client code commonly branches on.
const (
	ErrorCodeTokenMissing     = "TOKEN_MISSING"
	ErrorCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrorCodeInvalidToken     = "INVALID_TOKEN"
	ErrorCodeForbidden        = "FORBIDDEN"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeValidationFailed = "VALIDATION_FAILED"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeWatchlistMatch   = "WATCHLIST_MATCH"
	ErrorCodeRateLimited      = "RATE_LIMITED"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)

// APIError is a non-2xx response decoded from the platform error contract.
// Message is always non-empty: responses with no usable body fall back to a
// generic message carrying the status code.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	RequestID  string `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gatehouse: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("gatehouse: %s (status %d)", e.Message, e.StatusCode)
}

// AuthError wraps an APIError for 401 responses and TOKEN_MISSING errors, so
// callers can redirect to login on any authentication failure with a single
// errors.As check.
type AuthError struct {
	*APIError
}

func (e *AuthError) Error() string {
	return e.APIError.Error()
}

func (e *AuthError) Unwrap() error {
	return e.APIError
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNotFound reports whether err is a 404 from the platform.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// AsAPIError extracts the APIError from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody matches the wire shape of platform errors. Older endpoints use
// "error" where newer ones use "message"; both are accepted.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Path    string `json:"path"`
}

// parseAPIError builds an APIError from a non-2xx response. It never returns
// nil and never produces an empty message.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(headerRequestID),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(body) > 0 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Code = eb.Code
			apiErr.Path = eb.Path
			switch {
			case eb.Message != "":
				apiErr.Message = eb.Message
			case eb.Error != "":
				apiErr.Message = eb.Error
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return apiErr
}
