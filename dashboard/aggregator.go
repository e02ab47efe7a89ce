// Package dashboard assembles the cross-tenant overview shown on the
// operations dashboard: per-tenant statistics fetched concurrently, a
// security summary, recent audit activity and compliance placeholders, with
// a periodic refresher to keep it current.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
	"github.com/gatehouse-hq/gatehouse-go/mockdata"
)

// Config tunes the aggregator. Zero values take defaults.
type Config struct {
	// MaxConcurrent bounds the number of tenant stat fetches in flight.
	MaxConcurrent int
	// Timeout bounds one whole overview refresh.
	Timeout time.Duration
	// RecentAuditLimit is how many recent audit entries the overview keeps.
	RecentAuditLimit int
	// MockSeed seeds the fallback data used when optional endpoints fail.
	MockSeed int64
}

// Overview is one assembled dashboard snapshot.
type Overview struct {
	GeneratedAt time.Time

	// Totals sums the stats of every tenant that reported successfully.
	Totals gatehouse.TenantStats
	// PerTenant holds each successful tenant's stats, keyed by tenant ID.
	PerTenant map[string]*gatehouse.TenantStats
	// Errors holds each failed tenant's error, keyed by tenant ID. A tenant
	// appears in exactly one of PerTenant and Errors.
	Errors map[string]error

	// Security and RecentAudit are optional enrichments. When the platform
	// cannot serve them the dashboard still renders, with placeholder data
	// and the corresponding Degraded flag set.
	Security         *gatehouse.SecurityStats
	SecurityDegraded bool
	RecentAudit      []*gatehouse.AuditLog
	AuditDegraded    bool

	// Compliance figures are client-side placeholders for now.
	Compliance mockdata.ComplianceMetrics
}

// Aggregator builds dashboard overviews from the platform API.
type Aggregator struct {
	client        *gatehouse.Client
	logger        *zap.Logger
	mock          *mockdata.Generator
	maxConcurrent int
	timeout       time.Duration
	auditLimit    int
}

// NewAggregator creates an aggregator over client.
func NewAggregator(client *gatehouse.Client, cfg Config, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RecentAuditLimit <= 0 {
		cfg.RecentAuditLimit = 10
	}

	return &Aggregator{
		client:        client,
		logger:        logger,
		mock:          mockdata.New(cfg.MockSeed),
		maxConcurrent: cfg.MaxConcurrent,
		timeout:       cfg.Timeout,
		auditLimit:    cfg.RecentAuditLimit,
	}
}

// Overview lists the caller's tenants and assembles a snapshot across all of
// them. Listing tenants is the one hard dependency; everything after it
// degrades per tenant or per panel instead of failing the snapshot.
func (a *Aggregator) Overview(ctx context.Context) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	tenants, err := a.client.Tenants.List(ctx, &gatehouse.ListOptions{Limit: 200})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	ids := make([]string, 0, len(tenants.Tenants))
	for _, t := range tenants.Tenants {
		if t.IsActive {
			ids = append(ids, t.ID)
		}
	}
	return a.overviewFor(ctx, ids)
}

// OverviewFor assembles a snapshot for an explicit set of tenant IDs.
func (a *Aggregator) OverviewFor(ctx context.Context, tenantIDs []string) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.overviewFor(ctx, tenantIDs)
}

func (a *Aggregator) overviewFor(ctx context.Context, tenantIDs []string) (*Overview, error) {
	ov := &Overview{
		GeneratedAt: time.Now(),
		PerTenant:   make(map[string]*gatehouse.TenantStats, len(tenantIDs)),
		Errors:      make(map[string]error),
		Compliance:  mockdata.Compliance(),
	}

	// Fetch every tenant's stats in parallel. A failed tenant is recorded
	// and skipped; it must not sink the others, and a tenant contributes to
	// the totals at most once.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)

	for _, id := range tenantIDs {
		g.Go(func() error {
			stats, err := a.client.Tenants.Stats(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Warn("tenant stats fetch failed",
					zap.String("tenant_id", id),
					zap.Error(err))
				ov.Errors[id] = err
				return nil
			}
			ov.PerTenant[id] = stats
			return nil
		})
	}
	_ = g.Wait()

	for _, stats := range ov.PerTenant {
		ov.Totals.ActiveVisits += stats.ActiveVisits
		ov.Totals.TodayVisits += stats.TodayVisits
		ov.Totals.CheckedIn += stats.CheckedIn
		ov.Totals.PreRegistered += stats.PreRegistered
		ov.Totals.TotalVisitors += stats.TotalVisitors
	}

	a.attachSecurity(ctx, ov)
	a.attachRecentAudit(ctx, ov)

	a.logger.Debug("overview assembled",
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("succeeded", len(ov.PerTenant)),
		zap.Int("failed", len(ov.Errors)),
		zap.Bool("security_degraded", ov.SecurityDegraded),
		zap.Bool("audit_degraded", ov.AuditDegraded))

	return ov, nil
}

// attachSecurity fills the security panel, falling back to generated
// placeholder figures when the endpoint is unavailable.
func (a *Aggregator) attachSecurity(ctx context.Context, ov *Overview) {
	stats, err := a.client.Security.Stats(ctx)
	if err != nil {
		a.logger.Warn("security stats unavailable, using fallback data", zap.Error(err))
		ov.Security = a.mock.SecurityStats()
		ov.SecurityDegraded = true
		return
	}
	ov.Security = stats
}

// attachRecentAudit fills the recent activity panel, falling back to
// generated placeholder entries when the endpoint is unavailable.
func (a *Aggregator) attachRecentAudit(ctx context.Context, ov *Overview) {
	list, err := a.client.Audit.List(ctx, &gatehouse.AuditListOptions{
		ListOptions: gatehouse.ListOptions{Limit: a.auditLimit},
	})
	if err != nil {
		a.logger.Warn("audit logs unavailable, using fallback data", zap.Error(err))
		ov.RecentAudit = a.mock.AuditLogs("", a.auditLimit)
		ov.AuditDegraded = true
		return
	}
	ov.RecentAudit = list.Logs
}
