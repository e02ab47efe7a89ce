package gatehouse

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseAPIError_MessageField(t *testing.T) {
	resp := errResponse(http.StatusForbidden,
		`{"message":"escort required for this facility","code":"FORBIDDEN","path":"/api/visits"}`)

	apiErr := parseAPIError(resp)

	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, ErrorCodeForbidden, apiErr.Code)
	assert.Equal(t, "escort required for this facility", apiErr.Message)
	assert.Equal(t, "/api/visits", apiErr.Path)
}

func TestParseAPIError_LegacyErrorField(t *testing.T) {
	resp := errResponse(http.StatusNotFound, `{"error":"tenant not found","code":"NOT_FOUND"}`)

	apiErr := parseAPIError(resp)

	assert.Equal(t, "tenant not found", apiErr.Message)
	assert.Equal(t, ErrorCodeNotFound, apiErr.Code)
}

func TestParseAPIError_MessageWinsOverError(t *testing.T) {
	resp := errResponse(http.StatusBadRequest, `{"message":"new shape","error":"old shape"}`)
	assert.Equal(t, "new shape", parseAPIError(resp).Message)
}

func TestParseAPIError_EmptyBodyFallsBack(t *testing.T) {
	apiErr := parseAPIError(errResponse(http.StatusBadGateway, ""))

	assert.Equal(t, "request failed with status 502", apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

func TestParseAPIError_NonJSONBodyFallsBack(t *testing.T) {
	apiErr := parseAPIError(errResponse(http.StatusInternalServerError, "<html>upstream exploded</html>"))
	assert.Equal(t, "request failed with status 500", apiErr.Message)
}

func TestParseAPIError_EmptyJSONObjectFallsBack(t *testing.T) {
	apiErr := parseAPIError(errResponse(http.StatusServiceUnavailable, `{}`))
	assert.Equal(t, "request failed with status 503", apiErr.Message)
}

func TestParseAPIError_CapturesRequestID(t *testing.T) {
	resp := errResponse(http.StatusConflict, `{"message":"already checked in","code":"CONFLICT"}`)
	resp.Header.Set(headerRequestID, "req-123")

	apiErr := parseAPIError(resp)
	assert.Equal(t, "req-123", apiErr.RequestID)
}

func TestAPIError_ErrorString(t *testing.T) {
	withCode := &APIError{StatusCode: 409, Code: ErrorCodeConflict, Message: "already checked in"}
	assert.Equal(t, "gatehouse: already checked in (CONFLICT, status 409)", withCode.Error())

	bare := &APIError{StatusCode: 500, Message: "boom"}
	assert.Equal(t, "gatehouse: boom (status 500)", bare.Error())
}

func TestIsAuth_MatchesWrappedAuthError(t *testing.T) {
	authErr := &AuthError{APIError: &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidToken,
		Message:    "authentication token is invalid",
	}}
	wrapped := fmt.Errorf("loading dashboard: %w", authErr)

	assert.True(t, IsAuth(wrapped))
	assert.False(t, IsAuth(errors.New("plain failure")))
	assert.False(t, IsAuth(&APIError{StatusCode: http.StatusForbidden, Message: "denied"}))
}

func TestIsNotFound(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound, Message: "visit not found"}

	assert.True(t, IsNotFound(fmt.Errorf("get visit: %w", notFound)))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusForbidden, Message: "denied"}))
	assert.False(t, IsNotFound(errors.New("plain failure")))
}

func TestAsAPIError_UnwrapsThroughAuthError(t *testing.T) {
	authErr := &AuthError{APIError: &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeTokenMissing,
		Message:    "authentication token required",
	}}

	apiErr, ok := AsAPIError(authErr)
	require.True(t, ok)
	assert.Equal(t, ErrorCodeTokenMissing, apiErr.Code)

	_, ok = AsAPIError(errors.New("not an API error"))
	assert.False(t, ok)
}
