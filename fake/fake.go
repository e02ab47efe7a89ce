// Package fake runs an in-memory rendition of the visitor-management
// platform API. It speaks the same wire contract as the hosted service,
// so the client, the dashboard aggregator and demo tooling can run
// against it without network access or credentials.
package fake

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
	"github.com/gatehouse-hq/gatehouse-go/metrics"
)

// Options configures a fake server. The zero value serves unauthenticated,
// unthrottled requests on :8080 with the default demo seed.
type Options struct {
	// Addr is the listen address used by Start.
	Addr string

	// Token, when set, is required as a bearer token on every route except
	// health, metrics and QR lookup.
	Token string

	// RateLimit throttles requests per second across all callers. Zero
	// disables throttling.
	RateLimit float64
	RateBurst int

	// Seed is the initial dataset. Nil loads DefaultSeed.
	Seed *Seed

	// Now overrides the server clock. Tests use this to pin "today".
	Now func() time.Time

	// Registry receives the server's Prometheus metrics and backs the
	// /metrics endpoint. Nil gives the server a private registry, so two
	// fakes in one process never collide on registration.
	Registry *prometheus.Registry
}

// Server is the fake platform API server.
type Server struct {
	store      *store
	router     *mux.Router
	httpServer *http.Server
	metrics    *metrics.HTTPMetrics
	logger     *zap.Logger
	opts       Options
}

// New creates a fake server with its seed loaded and routes registered.
func New(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 20
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	st := newStore(opts.Now)
	seed := opts.Seed
	if seed == nil {
		seed = DefaultSeedAt(st.now())
	}
	st.apply(seed)

	router := mux.NewRouter()
	s := &Server{
		store:   st,
		router:  router,
		metrics: metrics.NewHTTPMetrics(opts.Registry),
		logger:  logger,
		opts:    opts,
	}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	middlewares := []func(http.Handler) http.Handler{
		recovery(s.logger),
		requestID,
		logging(s.logger),
		cors,
		s.metrics.Middleware,
	}
	if s.opts.RateLimit > 0 {
		rl := newRateLimiter(s.opts.RateLimit, s.opts.RateBurst, s.logger)
		middlewares = append(middlewares, rl.middleware)
	}
	auth := &authenticator{token: s.opts.Token, logger: s.logger}
	middlewares = append(middlewares, auth.middleware)

	applied := chain(middlewares...)
	s.router.Use(func(next http.Handler) http.Handler {
		return applied(next)
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics",
		promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/visits", s.handleListVisits).Methods(http.MethodGet)
	api.HandleFunc("/visits", s.handleCreateVisit).Methods(http.MethodPost)
	api.HandleFunc("/visits/calendar/export", s.handleExportCalendar).Methods(http.MethodGet)
	api.HandleFunc("/visits/{id}", s.handleGetVisit).Methods(http.MethodGet)
	api.HandleFunc("/visits/{id}", s.handleUpdateVisit).Methods(http.MethodPut)
	api.HandleFunc("/visits/{id}/check-in", s.handleCheckIn).Methods(http.MethodPost)
	api.HandleFunc("/visits/{id}/check-out", s.handleCheckOut).Methods(http.MethodPost)
	api.HandleFunc("/visits/{id}/cancel", s.handleCancelVisit).Methods(http.MethodPost)
	api.HandleFunc("/qr-check-in", s.handleQRLookup).Methods(http.MethodGet)

	api.HandleFunc("/visitors", s.handleListVisitors).Methods(http.MethodGet)
	api.HandleFunc("/visitors", s.handleCreateVisitor).Methods(http.MethodPost)
	api.HandleFunc("/visitors/{id}", s.handleGetVisitor).Methods(http.MethodGet)
	api.HandleFunc("/visitors/{id}", s.handleUpdateVisitor).Methods(http.MethodPut)

	api.HandleFunc("/facilities", s.handleListFacilities).Methods(http.MethodGet)
	api.HandleFunc("/facilities", s.handleCreateFacility).Methods(http.MethodPost)
	api.HandleFunc("/facilities/{id}", s.handleGetFacility).Methods(http.MethodGet)
	api.HandleFunc("/facilities/{id}", s.handleUpdateFacility).Methods(http.MethodPut)

	api.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)

	api.HandleFunc("/tenants", s.handleListTenants).Methods(http.MethodGet)
	api.HandleFunc("/tenants", s.handleCreateTenant).Methods(http.MethodPost)
	api.HandleFunc("/tenants/{id}", s.handleGetTenant).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{id}", s.handleUpdateTenant).Methods(http.MethodPut)
	api.HandleFunc("/tenants/{id}/stats", s.handleTenantStats).Methods(http.MethodGet)

	security := api.PathPrefix("/security").Subrouter()
	security.HandleFunc("/watchlist", s.handleListWatchlist).Methods(http.MethodGet)
	security.HandleFunc("/watchlist", s.handleAddWatchlistEntry).Methods(http.MethodPost)
	security.HandleFunc("/watchlist/screen", s.handleScreen).Methods(http.MethodPost)
	security.HandleFunc("/watchlist/{id}", s.handleRemoveWatchlistEntry).Methods(http.MethodDelete)
	security.HandleFunc("/alerts", s.handleListAlerts).Methods(http.MethodGet)
	security.HandleFunc("/alerts/{id}/acknowledge", s.handleAcknowledgeAlert).Methods(http.MethodPost)
	security.HandleFunc("/stats", s.handleSecurityStats).Methods(http.MethodGet)

	audit := api.PathPrefix("/audit").Subrouter()
	audit.HandleFunc("/logs", s.handleListAudit).Methods(http.MethodGet)
	audit.HandleFunc("/logs/export", s.handleExportAudit).Methods(http.MethodGet)

	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.HandleFunc("/templates", s.handleListTemplates).Methods(http.MethodGet)
	notifications.HandleFunc("/templates", s.handleCreateTemplate).Methods(http.MethodPost)
	notifications.HandleFunc("/templates/{id}", s.handleUpdateTemplate).Methods(http.MethodPut)
	notifications.HandleFunc("/logs", s.handleListNotifLogs).Methods(http.MethodGet)

	api.HandleFunc("/roles", s.handleListRoles).Methods(http.MethodGet)
	api.HandleFunc("/roles", s.handleCreateRole).Methods(http.MethodPost)
	api.HandleFunc("/roles/{id}/permissions", s.handleSetRolePermissions).Methods(http.MethodPost)

	api.HandleFunc("/identity-providers", s.handleListIdPs).Methods(http.MethodGet)
	api.HandleFunc("/identity-providers", s.handleCreateIdP).Methods(http.MethodPost)
	api.HandleFunc("/identity-providers/{id}", s.handleUpdateIdP).Methods(http.MethodPut)
	api.HandleFunc("/identity-providers/{id}", s.handleDeleteIdP).Methods(http.MethodDelete)

	s.router.NotFoundHandler = applied(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "endpoint not found")
	}))
	s.router.MethodNotAllowedHandler = applied(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, gatehouse.ErrorCodeValidationFailed, "method not allowed")
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.store.now().UTC().Format(time.RFC3339),
	})
}

// Handler returns the server's handler for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting fake server",
		zap.String("addr", s.opts.Addr),
		zap.Bool("auth", s.opts.Token != ""))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down fake server")
	return s.httpServer.Shutdown(ctx)
}
