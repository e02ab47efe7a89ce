// Package gatehouse provides the Go client for the Gatehouse visitor
// management API. A Client bundles one HTTP connection's worth of state
// (base URL, credentials, throttle, instrumentation) and exposes the
// platform surface as per-concern services: Visits, Tenants, Security,
// Audit, Notifications, Roles and friends.
package gatehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gatehouse-hq/gatehouse-go/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "gatehouse-go/1.0"

	headerRequestID = "X-Request-ID"
	headerTenantID  = "X-Tenant-ID"
)

// Client is the entry point to the Gatehouse API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokenFn    func() string
	tenantID   string
	userAgent  string
	logger     *zap.Logger
	limiter    *rate.Limiter
	recorder   *metrics.Recorder

	// Per-concern services. All share this client.
	Visits            *VisitsService
	Visitors          *VisitorsService
	Tenants           *TenantsService
	Facilities        *FacilitiesService
	Users             *UsersService
	Security          *SecurityService
	Audit             *AuditService
	Notifications     *NotificationsService
	Roles             *RolesService
	IdentityProviders *IdentityProvidersService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for injecting
// transports or mocks during testing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sets a static bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.tokenFn = func() string { return token }
	}
}

// WithTokenSource sets a callback consulted before each request, for callers
// that rotate tokens externally. Returning "" sends the request anonymously.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.tokenFn = fn
		}
	}
}

// WithLogger attaches a logger. The client logs requests at debug level and
// failures at warn level; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTenant scopes every request to one tenant. Callers with cross-tenant
// access, such as the dashboard, leave this unset and see all tenants.
func WithTenant(tenantID string) Option {
	return func(c *Client) {
		c.tenantID = tenantID
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit throttles outgoing requests client-side. Zero rps disables
// throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMetrics records request counts and latencies on the given recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for the API served at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Visits = &VisitsService{client: c}
	c.Visitors = &VisitorsService{client: c}
	c.Tenants = &TenantsService{client: c}
	c.Facilities = &FacilitiesService{client: c}
	c.Users = &UsersService{client: c}
	c.Security = &SecurityService{client: c}
	c.Audit = &AuditService{client: c}
	c.Notifications = &NotificationsService{client: c}
	c.Roles = &RolesService{client: c}
	c.IdentityProviders = &IdentityProvidersService{client: c}

	return c, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// newRequest builds an HTTP request against the API. A nil body sends no
// payload; otherwise body is JSON encoded.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, uuid.New().String())
	if c.tenantID != "" {
		req.Header.Set(headerTenantID, c.tenantID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenFn != nil {
		if token := c.tokenFn(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// do executes one API call and decodes a 2xx JSON response into out. Non-2xx
// responses are decoded into the platform error contract; there is no
// automatic retry. op labels the call for logging and metrics, e.g.
// "visits.list".
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if c.recorder != nil {
		c.recorder.IncInFlight()
		defer c.recorder.DecInFlight()
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if c.recorder != nil {
			c.recorder.RecordRequest(op, "transport_error", duration)
		}
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.recorder != nil {
		c.recorder.RecordRequest(op, fmt.Sprintf("%d", resp.StatusCode), duration)
	}
	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp)
		c.logger.Warn("API error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("message", apiErr.Message))
		if resp.StatusCode == http.StatusUnauthorized || apiErr.Code == ErrorCodeTokenMissing {
			return &AuthError{APIError: apiErr}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Export is a binary payload produced by a file export endpoint, such as the
// audit CSV or the visit calendar ICS.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// doBlob executes an export call and returns the raw response body. The
// filename comes from the Content-Disposition header when present.
func (c *Client) doBlob(ctx context.Context, op, method, path string, query url.Values) (*Export, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, path, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.recorder != nil {
			c.recorder.RecordRequest(op, "transport_error", time.Since(start))
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.recorder != nil {
		c.recorder.RecordRequest(op, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp)
		if resp.StatusCode == http.StatusUnauthorized || apiErr.Code == ErrorCodeTokenMissing {
			return nil, &AuthError{APIError: apiErr}
		}
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export body: %w", err)
	}

	export := &Export{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			export.Filename = params["filename"]
		}
	}
	return export, nil
}
