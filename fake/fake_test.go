package fake

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedClock = time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

func startServer(t *testing.T, opts Options) string {
	t.Helper()
	srv := New(opts, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func doRequest(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeErrorPayload(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var payload errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestServer_Health(t *testing.T) {
	url := startServer(t, Options{Now: func() time.Time { return fixedClock }})

	resp := doRequest(t, http.MethodGet, url+"/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2025-07-10T09:00:00Z", body["time"])
}

func TestServer_AuthRequired(t *testing.T) {
	url := startServer(t, Options{Token: "secret"})

	resp := doRequest(t, http.MethodGet, url+"/api/visits", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	payload := decodeErrorPayload(t, resp)
	assert.Equal(t, "TOKEN_MISSING", payload.Code)
	assert.NotEmpty(t, payload.Message)
	assert.Equal(t, "/api/visits", payload.Path)

	resp = doRequest(t, http.MethodGet, url+"/api/visits", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeErrorPayload(t, resp).Code)

	resp = doRequest(t, http.MethodGet, url+"/api/visits", "secret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_AuthBearerPrefixRequired(t *testing.T) {
	url := startServer(t, Options{Token: "secret"})

	req, err := http.NewRequest(http.MethodGet, url+"/api/visits", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "secret")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeErrorPayload(t, resp).Code)
}

func TestServer_AuthExemptPaths(t *testing.T) {
	url := startServer(t, Options{Token: "secret"})

	resp := doRequest(t, http.MethodGet, url+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, url+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// QR lookup is open; without a token parameter it fails validation, not
	// authentication.
	resp = doRequest(t, http.MethodGet, url+"/api/qr-check-in", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeErrorPayload(t, resp).Code)
}

func TestServer_NotFoundGoesThroughMiddleware(t *testing.T) {
	url := startServer(t, Options{Token: "secret"})

	// Unmatched paths still hit the auth middleware first.
	resp := doRequest(t, http.MethodGet, url+"/api/nope", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, url+"/api/nope", "secret")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	payload := decodeErrorPayload(t, resp)
	assert.Equal(t, "NOT_FOUND", payload.Code)
	assert.Equal(t, "/api/nope", payload.Path)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	url := startServer(t, Options{Token: "secret"})

	resp := doRequest(t, http.MethodDelete, url+"/api/visits", "secret")

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	payload := decodeErrorPayload(t, resp)
	assert.Equal(t, "VALIDATION_FAILED", payload.Code)
	assert.Equal(t, "method not allowed", payload.Message)
}

func TestServer_MalformedBody(t *testing.T) {
	url := startServer(t, Options{})

	resp, err := http.Post(url+"/api/visits", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload := decodeErrorPayload(t, resp)
	assert.Equal(t, "VALIDATION_FAILED", payload.Code)
	assert.Contains(t, payload.Message, "not valid JSON")
}

func TestServer_RateLimit(t *testing.T) {
	url := startServer(t, Options{RateLimit: 0.01, RateBurst: 1})

	resp := doRequest(t, http.MethodGet, url+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, url+"/health", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeErrorPayload(t, resp).Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	url := startServer(t, Options{Token: "secret"})

	req, err := http.NewRequest(http.MethodOptions, url+"/api/visits", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dashboard.example.gov")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Preflight succeeds without credentials.
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://dashboard.example.gov", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Tenant-ID")
}

func TestServer_RequestID(t *testing.T) {
	url := startServer(t, Options{})

	req, err := http.NewRequest(http.MethodGet, url+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-fixed")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-fixed", resp.Header.Get("X-Request-ID"))

	resp = doRequest(t, http.MethodGet, url+"/health", "")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_MetricsUsePrivateRegistries(t *testing.T) {
	// Two servers in one process must not collide on metric registration,
	// and each scrape endpoint reports its own traffic.
	urlA := startServer(t, Options{})
	urlB := startServer(t, Options{})

	doRequest(t, http.MethodGet, urlA+"/health", "")

	resp := doRequest(t, http.MethodGet, urlA+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gatehouse_fake_http_requests_total")

	resp = doRequest(t, http.MethodGet, urlB+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
