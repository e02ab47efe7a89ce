package fake

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// store is the in-memory state behind the fake server. All access goes
// through its methods; the mutex covers every map.
type store struct {
	mu sync.RWMutex

	tenants    map[string]*gatehouse.Tenant
	visitors   map[string]*gatehouse.Visitor
	facilities map[string]*gatehouse.Facility
	users      map[string]*gatehouse.User
	visits     map[string]*gatehouse.Visit
	watchlist  map[string]*gatehouse.WatchlistEntry
	alerts     map[string]*gatehouse.SecurityAlert
	roles      map[string]*gatehouse.Role
	templates  map[string]*gatehouse.NotificationTemplate
	idps       map[string]*gatehouse.IdentityProvider

	auditLogs []*gatehouse.AuditLog
	notifLogs []*gatehouse.NotificationLog

	// qrTokens maps an issued check-in token to its visit ID.
	qrTokens map[string]string

	screeningsToday int
	defaultTenant   string

	now func() time.Time
}

func newStore(now func() time.Time) *store {
	if now == nil {
		now = time.Now
	}
	return &store{
		tenants:    make(map[string]*gatehouse.Tenant),
		visitors:   make(map[string]*gatehouse.Visitor),
		facilities: make(map[string]*gatehouse.Facility),
		users:      make(map[string]*gatehouse.User),
		visits:     make(map[string]*gatehouse.Visit),
		watchlist:  make(map[string]*gatehouse.WatchlistEntry),
		alerts:     make(map[string]*gatehouse.SecurityAlert),
		roles:      make(map[string]*gatehouse.Role),
		templates:  make(map[string]*gatehouse.NotificationTemplate),
		idps:       make(map[string]*gatehouse.IdentityProvider),
		qrTokens:   make(map[string]string),
		now:        now,
	}
}

func newID() string {
	return uuid.New().String()
}

// resolveTenant picks the tenant new records belong to: an explicit ID wins,
// otherwise the first seeded tenant.
func (s *store) resolveTenant(explicit string) string {
	if explicit != "" {
		return explicit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultTenant
}

func (s *store) appendAudit(tenantID, actor, action, resource, resourceID, detail string, flags []gatehouse.ComplianceFlag) {
	if len(flags) == 0 {
		flags = []gatehouse.ComplianceFlag{gatehouse.ComplianceFICAM}
	}
	s.auditLogs = append(s.auditLogs, &gatehouse.AuditLog{
		ID:              newID(),
		TenantID:        tenantID,
		Actor:           actor,
		Action:          action,
		Resource:        resource,
		ResourceID:      resourceID,
		Detail:          detail,
		ComplianceFlags: flags,
		CreatedAt:       s.now(),
	})
}

// audit appends an entry under the write lock. Mutating store methods that
// already hold the lock call appendAudit directly instead.
func (s *store) audit(tenantID, actor, action, resource, resourceID, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendAudit(tenantID, actor, action, resource, resourceID, detail, nil)
}

// screenLocked reports the active watchlist entries matching name, by full
// name or alias, case-insensitively. Callers hold at least the read lock.
func (s *store) screenLocked(tenantID, name string) []*gatehouse.WatchlistEntry {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	var matches []*gatehouse.WatchlistEntry
	for _, entry := range s.watchlist {
		if !entry.Active {
			continue
		}
		if tenantID != "" && entry.TenantID != tenantID {
			continue
		}
		if strings.ToLower(entry.FullName) == needle {
			matches = append(matches, entry)
			continue
		}
		for _, alias := range entry.Aliases {
			if strings.ToLower(alias) == needle {
				matches = append(matches, entry)
				break
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}

// screen runs a screening and counts it toward the daily total.
func (s *store) screen(tenantID, name string) []*gatehouse.WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screeningsToday++
	return s.screenLocked(tenantID, name)
}

// tenantStats derives the dashboard counters for one tenant from its stored
// visits and visitors.
func (s *store) tenantStats(tenantID string) (*gatehouse.TenantStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tenants[tenantID]; !ok {
		return nil, false
	}

	stats := &gatehouse.TenantStats{TenantID: tenantID}
	today := s.now().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)

	for _, v := range s.visits {
		if v.TenantID != tenantID {
			continue
		}
		switch v.Status {
		case gatehouse.VisitCheckedIn:
			stats.CheckedIn++
			stats.ActiveVisits++
		case gatehouse.VisitPreRegistered:
			stats.PreRegistered++
		}
		if !v.ScheduledStart.Before(today) && v.ScheduledStart.Before(tomorrow) {
			stats.TodayVisits++
		}
	}
	for _, vis := range s.visitors {
		if vis.TenantID == tenantID {
			stats.TotalVisitors++
		}
	}
	return stats, true
}

// securityStats derives the security panel counters.
func (s *store) securityStats() *gatehouse.SecurityStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &gatehouse.SecurityStats{ScreeningsToday: s.screeningsToday}
	for _, entry := range s.watchlist {
		if entry.Active {
			stats.WatchlistEntries++
		}
	}
	for _, alert := range s.alerts {
		if !alert.Acknowledged {
			stats.ActiveAlerts++
		}
	}
	today := s.now().Truncate(24 * time.Hour)
	for _, v := range s.visits {
		if v.Status == gatehouse.VisitDenied && v.UpdatedAt.After(today) {
			stats.DeniedToday++
		}
	}
	return stats
}

// issueQRToken mints a check-in token for a visit. Callers hold the write
// lock.
func (s *store) issueQRTokenLocked(visitID string) string {
	token := uuid.New().String()
	s.qrTokens[token] = visitID
	return token
}

func (s *store) lookupQRToken(token string) (*gatehouse.Visit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visitID, ok := s.qrTokens[token]
	if !ok {
		return nil, false
	}
	v, ok := s.visits[visitID]
	if !ok {
		return nil, false
	}
	return copyVisit(v), true
}

// copyVisit returns a shallow copy so handlers can marshal outside the lock.
func copyVisit(v *gatehouse.Visit) *gatehouse.Visit {
	cp := *v
	return &cp
}
