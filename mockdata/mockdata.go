// Package mockdata generates deterministic demo and fallback data: seed
// records for the fake server, and the placeholder security and compliance
// figures the dashboard falls back to when optional endpoints are
// unavailable. The same seed always produces the same records.
package mockdata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// refTime anchors generated timestamps so that a seed fully determines the
// output. It is a Monday, which keeps weekly demo visits predictable.
var refTime = time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)

// Generator produces pseudo-random records from a fixed seed.
type Generator struct {
	rng  *rand.Rand
	base time.Time
}

// New returns a generator anchored at a fixed reference date. Use NewAt to
// anchor demo data around the present instead.
func New(seed int64) *Generator {
	return NewAt(seed, refTime)
}

// NewAt returns a generator whose timestamps cluster around base.
func NewAt(seed int64, base time.Time) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		base: base.UTC().Truncate(time.Minute),
	}
}

// id returns a UUID drawn from the generator's stream, so IDs are stable for
// a given seed.
func (g *Generator) id() string {
	return uuid.Must(uuid.NewRandomFromReader(g.rng)).String()
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

var (
	firstNames = []string{
		"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan", "Ruth", "Omar",
		"Ines", "Derek", "Priya", "Carl", "Dana", "Felix", "Grace", "Hugo",
	}
	lastNames = []string{
		"Alvarez", "Brooks", "Chen", "Dubois", "Eriksen", "Fontaine",
		"Garcia", "Haddad", "Ivanov", "Jensen", "Kim", "Lindqvist",
		"Moreau", "Novak", "Okafor", "Petrov",
	}
	companies = []string{
		"Meridian Systems", "Cobalt Labs", "Northfield Group",
		"Vantage Partners", "Halcyon Works", "Redline Logistics",
	}
	purposes = []string{
		"Vendor meeting", "Contract review", "Site inspection",
		"Maintenance call", "Interview", "Training session", "Delivery",
	}
	facilityNames = []string{
		"Headquarters", "Annex B", "Research Campus", "Field Office",
		"Data Center East", "Logistics Hub",
	}
	alertTypes = []string{
		"watchlist_match", "badge_not_returned", "after_hours_access",
		"escort_missing",
	}
	auditActions = []string{
		"visit.create", "visit.check_in", "visit.check_out", "visit.cancel",
		"visitor.create", "watchlist.add", "alert.acknowledge",
		"role.update", "user.login",
	}
)

// Tenants generates n active tenants.
func (g *Generator) Tenants(n int) []*gatehouse.Tenant {
	names := []string{
		"Acme Federal", "Bluepeak Health", "Cascade University",
		"Dover Municipal", "Eastgate Labs", "Fairview Courts",
	}
	tenants := make([]*gatehouse.Tenant, 0, n)
	for i := 0; i < n; i++ {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}
		slug := slugify(name)
		tenants = append(tenants, &gatehouse.Tenant{
			ID:        g.id(),
			Name:      name,
			Slug:      slug,
			Domain:    slug + ".example.com",
			IsActive:  true,
			CreatedAt: g.base.AddDate(0, 0, -(30 + i)),
			UpdatedAt: g.base.AddDate(0, 0, -i),
		})
	}
	return tenants
}

// Facilities generates n facilities for a tenant.
func (g *Generator) Facilities(tenantID string, n int) []*gatehouse.Facility {
	facilities := make([]*gatehouse.Facility, 0, n)
	for i := 0; i < n; i++ {
		facilities = append(facilities, &gatehouse.Facility{
			ID:             g.id(),
			TenantID:       tenantID,
			Name:           facilityNames[i%len(facilityNames)],
			Address:        fmt.Sprintf("%d Commerce Way", 100+g.rng.Intn(900)),
			Timezone:       "America/New_York",
			SecurityLevel:  g.pick([]string{"standard", "elevated", "restricted"}),
			EscortRequired: g.rng.Intn(4) == 0,
			IsActive:       true,
			CreatedAt:      g.base.AddDate(0, 0, -20),
			UpdatedAt:      g.base.AddDate(0, 0, -2),
		})
	}
	return facilities
}

// Users generates n host users for a tenant.
func (g *Generator) Users(tenantID string, n int) []*gatehouse.User {
	users := make([]*gatehouse.User, 0, n)
	for i := 0; i < n; i++ {
		first := g.pick(firstNames)
		last := g.pick(lastNames)
		users = append(users, &gatehouse.User{
			ID:        g.id(),
			TenantID:  tenantID,
			Email:     fmt.Sprintf("%s.%s@example.gov", slugify(first), slugify(last)),
			FirstName: first,
			LastName:  last,
			IsActive:  true,
			CreatedAt: g.base.AddDate(0, 0, -15),
		})
	}
	return users
}

// Visitors generates n visitors for a tenant.
func (g *Generator) Visitors(tenantID string, n int) []*gatehouse.Visitor {
	visitors := make([]*gatehouse.Visitor, 0, n)
	for i := 0; i < n; i++ {
		first := g.pick(firstNames)
		last := g.pick(lastNames)
		visitors = append(visitors, &gatehouse.Visitor{
			ID:        g.id(),
			TenantID:  tenantID,
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s@%s", slugify(first), slugify(last), "mail.example.com"),
			Phone:     fmt.Sprintf("+1-555-%04d", g.rng.Intn(10000)),
			Company:   g.pick(companies),
			CreatedAt: g.base.AddDate(0, 0, -g.rng.Intn(60)),
			UpdatedAt: g.base.AddDate(0, 0, -g.rng.Intn(5)),
		})
	}
	return visitors
}

// Visits generates n visits for a tenant spread over the week around the
// generator's base time. Statuses and their timestamps stay consistent:
// checked-in visits have a check-in time, checked-out visits both.
func (g *Generator) Visits(tenantID string, visitors []*gatehouse.Visitor, facilities []*gatehouse.Facility, hosts []*gatehouse.User, n int) []*gatehouse.Visit {
	if len(visitors) == 0 || len(facilities) == 0 || len(hosts) == 0 {
		return nil
	}

	visits := make([]*gatehouse.Visit, 0, n)
	for i := 0; i < n; i++ {
		visitor := visitors[g.rng.Intn(len(visitors))]
		facility := facilities[g.rng.Intn(len(facilities))]
		host := hosts[g.rng.Intn(len(hosts))]

		dayOffset := g.rng.Intn(8) - 3
		start := g.base.AddDate(0, 0, dayOffset).Add(time.Duration(g.rng.Intn(9)) * time.Hour)
		v := &gatehouse.Visit{
			ID:             g.id(),
			TenantID:       tenantID,
			VisitorID:      visitor.ID,
			HostUserID:     host.ID,
			FacilityID:     facility.ID,
			Purpose:        g.pick(purposes),
			Status:         gatehouse.VisitPreRegistered,
			ScheduledStart: start,
			ScheduledEnd:   start.Add(time.Duration(1+g.rng.Intn(3)) * time.Hour),
			EscortRequired: facility.EscortRequired,
			CreatedAt:      start.AddDate(0, 0, -2),
			UpdatedAt:      start.AddDate(0, 0, -1),
		}

		switch {
		case dayOffset < 0:
			in := v.ScheduledStart.Add(5 * time.Minute)
			out := v.ScheduledEnd.Add(-10 * time.Minute)
			v.Status = gatehouse.VisitCheckedOut
			v.CheckInTime = &in
			v.CheckOutTime = &out
			v.Badge = g.badge()
		case dayOffset == 0 && g.rng.Intn(2) == 0:
			in := v.ScheduledStart.Add(3 * time.Minute)
			v.Status = gatehouse.VisitCheckedIn
			v.CheckInTime = &in
			v.Badge = g.badge()
		case g.rng.Intn(10) == 0:
			v.Status = gatehouse.VisitCancelled
		}

		// Roughly one visit in five recurs weekly.
		if g.rng.Intn(5) == 0 && v.Status == gatehouse.VisitPreRegistered {
			end := v.ScheduledStart.AddDate(0, 2, 0)
			v.Recurring = true
			v.RecurrencePattern = "weekly"
			v.RecurrenceInterval = 1
			v.RecurrenceDays = []int{int(v.ScheduledStart.Weekday())}
			v.RecurrenceEnd = &end
		}

		visits = append(visits, v)
	}
	return visits
}

func (g *Generator) badge() *gatehouse.Badge {
	t := gatehouse.BadgePrinted
	if g.rng.Intn(5) == 0 {
		t = gatehouse.BadgeCIVPIVI
	}
	return &gatehouse.Badge{
		Type:     t,
		Number:   fmt.Sprintf("B-%06d", g.rng.Intn(1000000)),
		IssuedAt: g.base,
	}
}

// WatchlistEntries generates n active watchlist entries.
func (g *Generator) WatchlistEntries(tenantID string, n int) []*gatehouse.WatchlistEntry {
	severities := []gatehouse.Severity{
		gatehouse.SeverityLow, gatehouse.SeverityMedium,
		gatehouse.SeverityHigh, gatehouse.SeverityCritical,
	}
	entries := make([]*gatehouse.WatchlistEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, &gatehouse.WatchlistEntry{
			ID:        g.id(),
			TenantID:  tenantID,
			FullName:  g.pick(firstNames) + " " + g.pick(lastNames),
			Reason:    g.pick([]string{"Prior incident", "Barred by court order", "Terminated contractor"}),
			Severity:  severities[g.rng.Intn(len(severities))],
			Active:    true,
			CreatedAt: g.base.AddDate(0, 0, -g.rng.Intn(90)),
		})
	}
	return entries
}

// AuditLogs generates n audit entries, newest first.
func (g *Generator) AuditLogs(tenantID string, n int) []*gatehouse.AuditLog {
	logs := make([]*gatehouse.AuditLog, 0, n)
	for i := 0; i < n; i++ {
		action := g.pick(auditActions)
		logs = append(logs, &gatehouse.AuditLog{
			ID:              g.id(),
			TenantID:        tenantID,
			Actor:           fmt.Sprintf("%s.%s@example.gov", slugify(g.pick(firstNames)), slugify(g.pick(lastNames))),
			Action:          action,
			Resource:        actionResource(action),
			ResourceID:      g.id(),
			ComplianceFlags: g.flags(),
			CreatedAt:       g.base.Add(-time.Duration(i*37+g.rng.Intn(30)) * time.Minute),
		})
	}
	return logs
}

func (g *Generator) flags() []gatehouse.ComplianceFlag {
	all := []gatehouse.ComplianceFlag{
		gatehouse.ComplianceFICAM, gatehouse.ComplianceFIPS140,
		gatehouse.ComplianceHIPAA, gatehouse.ComplianceFERPA,
	}
	var out []gatehouse.ComplianceFlag
	for _, f := range all {
		if g.rng.Intn(3) == 0 {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		out = append(out, gatehouse.ComplianceFICAM)
	}
	return out
}

// SecurityStats generates a plausible security summary.
func (g *Generator) SecurityStats() *gatehouse.SecurityStats {
	return &gatehouse.SecurityStats{
		ActiveAlerts:     g.rng.Intn(5),
		WatchlistEntries: 10 + g.rng.Intn(30),
		DeniedToday:      g.rng.Intn(3),
		ScreeningsToday:  5 + g.rng.Intn(45),
	}
}

func actionResource(action string) string {
	for i := 0; i < len(action); i++ {
		if action[i] == '.' {
			return action[:i]
		}
	}
	return action
}

func slugify(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+'a'-'A')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case c == ' ' || c == '-':
			out = append(out, '-')
		}
	}
	return string(out)
}
