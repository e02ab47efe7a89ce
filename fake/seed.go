package fake

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
	"github.com/gatehouse-hq/gatehouse-go/mockdata"
)

// Seed is the initial state loaded into a fake server.
type Seed struct {
	Tenants    []*gatehouse.Tenant
	Facilities []*gatehouse.Facility
	Visitors   []*gatehouse.Visitor
	Users      []*gatehouse.User
	Visits     []*gatehouse.Visit
	Watchlist  []*gatehouse.WatchlistEntry
	Roles      []*gatehouse.Role
	Templates  []*gatehouse.NotificationTemplate
	AuditLogs  []*gatehouse.AuditLog
}

// DefaultSeed generates a demo dataset anchored at the present: two tenants
// with facilities, hosts, visitors, a week of visits and a small watchlist.
func DefaultSeed() *Seed {
	return DefaultSeedAt(time.Now())
}

// DefaultSeedAt generates the demo dataset anchored at base. The data is
// deterministic for a fixed base.
func DefaultSeedAt(base time.Time) *Seed {
	gen := mockdata.NewAt(1, base)
	seed := &Seed{Tenants: gen.Tenants(2)}

	for _, tenant := range seed.Tenants {
		facilities := gen.Facilities(tenant.ID, 2)
		visitors := gen.Visitors(tenant.ID, 8)
		users := gen.Users(tenant.ID, 4)
		visits := gen.Visits(tenant.ID, visitors, facilities, users, 12)

		seed.Facilities = append(seed.Facilities, facilities...)
		seed.Visitors = append(seed.Visitors, visitors...)
		seed.Users = append(seed.Users, users...)
		seed.Visits = append(seed.Visits, visits...)
		seed.Watchlist = append(seed.Watchlist, gen.WatchlistEntries(tenant.ID, 3)...)
		seed.AuditLogs = append(seed.AuditLogs, gen.AuditLogs(tenant.ID, 15)...)
	}
	return seed
}

// seedFile is the YAML fixture format. Records reference each other by
// name rather than ID: visits name their visitor and host by email and
// their facility by name.
type seedFile struct {
	Tenants []struct {
		Name   string `yaml:"name"`
		Slug   string `yaml:"slug"`
		Domain string `yaml:"domain"`
	} `yaml:"tenants"`
	Facilities []struct {
		Name           string `yaml:"name"`
		Tenant         string `yaml:"tenant"`
		Address        string `yaml:"address"`
		SecurityLevel  string `yaml:"security_level"`
		EscortRequired bool   `yaml:"escort_required"`
	} `yaml:"facilities"`
	Visitors []struct {
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Email     string `yaml:"email"`
		Company   string `yaml:"company"`
		Tenant    string `yaml:"tenant"`
	} `yaml:"visitors"`
	Users []struct {
		Email     string `yaml:"email"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Tenant    string `yaml:"tenant"`
	} `yaml:"users"`
	Visits []struct {
		Visitor  string `yaml:"visitor"`
		Host     string `yaml:"host"`
		Facility string `yaml:"facility"`
		Purpose  string `yaml:"purpose"`
		StartsIn string `yaml:"starts_in"`
		Duration string `yaml:"duration"`
		Status   string `yaml:"status"`
	} `yaml:"visits"`
	Watchlist []struct {
		FullName string   `yaml:"full_name"`
		Aliases  []string `yaml:"aliases"`
		Reason   string   `yaml:"reason"`
		Severity string   `yaml:"severity"`
		Tenant   string   `yaml:"tenant"`
	} `yaml:"watchlist"`
}

// LoadSeedFile reads a YAML fixture and resolves it into a Seed. Unknown
// references (a visit naming a visitor that is not in the file) are errors.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(f.Tenants) == 0 {
		return nil, fmt.Errorf("seed file %s defines no tenants", path)
	}

	now := time.Now()
	seed := &Seed{}

	tenantsBySlug := make(map[string]*gatehouse.Tenant)
	for _, t := range f.Tenants {
		tenant := &gatehouse.Tenant{
			ID:        newID(),
			Name:      t.Name,
			Slug:      t.Slug,
			Domain:    t.Domain,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		tenantsBySlug[t.Slug] = tenant
		seed.Tenants = append(seed.Tenants, tenant)
	}

	resolveTenant := func(slug string) (*gatehouse.Tenant, error) {
		if slug == "" {
			return seed.Tenants[0], nil
		}
		t, ok := tenantsBySlug[slug]
		if !ok {
			return nil, fmt.Errorf("unknown tenant %q", slug)
		}
		return t, nil
	}

	facilitiesByName := make(map[string]*gatehouse.Facility)
	for _, fc := range f.Facilities {
		tenant, err := resolveTenant(fc.Tenant)
		if err != nil {
			return nil, fmt.Errorf("facility %q: %w", fc.Name, err)
		}
		facility := &gatehouse.Facility{
			ID:             newID(),
			TenantID:       tenant.ID,
			Name:           fc.Name,
			Address:        fc.Address,
			SecurityLevel:  fc.SecurityLevel,
			EscortRequired: fc.EscortRequired,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		facilitiesByName[fc.Name] = facility
		seed.Facilities = append(seed.Facilities, facility)
	}

	visitorsByEmail := make(map[string]*gatehouse.Visitor)
	for _, v := range f.Visitors {
		tenant, err := resolveTenant(v.Tenant)
		if err != nil {
			return nil, fmt.Errorf("visitor %q: %w", v.Email, err)
		}
		visitor := &gatehouse.Visitor{
			ID:        newID(),
			TenantID:  tenant.ID,
			FirstName: v.FirstName,
			LastName:  v.LastName,
			Email:     v.Email,
			Company:   v.Company,
			CreatedAt: now,
			UpdatedAt: now,
		}
		visitorsByEmail[v.Email] = visitor
		seed.Visitors = append(seed.Visitors, visitor)
	}

	usersByEmail := make(map[string]*gatehouse.User)
	for _, u := range f.Users {
		tenant, err := resolveTenant(u.Tenant)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Email, err)
		}
		user := &gatehouse.User{
			ID:        newID(),
			TenantID:  tenant.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			IsActive:  true,
			CreatedAt: now,
		}
		usersByEmail[u.Email] = user
		seed.Users = append(seed.Users, user)
	}

	for i, v := range f.Visits {
		visitor, ok := visitorsByEmail[v.Visitor]
		if !ok {
			return nil, fmt.Errorf("visit %d: unknown visitor %q", i, v.Visitor)
		}
		facility, ok := facilitiesByName[v.Facility]
		if !ok {
			return nil, fmt.Errorf("visit %d: unknown facility %q", i, v.Facility)
		}

		var hostID string
		if v.Host != "" {
			host, ok := usersByEmail[v.Host]
			if !ok {
				return nil, fmt.Errorf("visit %d: unknown host %q", i, v.Host)
			}
			hostID = host.ID
		}

		startsIn, err := time.ParseDuration(v.StartsIn)
		if err != nil {
			return nil, fmt.Errorf("visit %d: bad starts_in %q: %w", i, v.StartsIn, err)
		}
		duration := time.Hour
		if v.Duration != "" {
			if duration, err = time.ParseDuration(v.Duration); err != nil {
				return nil, fmt.Errorf("visit %d: bad duration %q: %w", i, v.Duration, err)
			}
		}

		status := gatehouse.VisitStatus(v.Status)
		if status == "" {
			status = gatehouse.VisitPreRegistered
		}
		switch status {
		case gatehouse.VisitPreRegistered, gatehouse.VisitCheckedIn,
			gatehouse.VisitCheckedOut, gatehouse.VisitCancelled, gatehouse.VisitDenied:
		default:
			return nil, fmt.Errorf("visit %d: unknown status %q", i, v.Status)
		}

		start := now.Add(startsIn)
		visit := &gatehouse.Visit{
			ID:             newID(),
			TenantID:       visitor.TenantID,
			VisitorID:      visitor.ID,
			HostUserID:     hostID,
			FacilityID:     facility.ID,
			Purpose:        v.Purpose,
			Status:         status,
			ScheduledStart: start,
			ScheduledEnd:   start.Add(duration),
			EscortRequired: facility.EscortRequired,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if status == gatehouse.VisitCheckedIn || status == gatehouse.VisitCheckedOut {
			in := start
			visit.CheckInTime = &in
			visit.Badge = &gatehouse.Badge{Type: gatehouse.BadgePrinted, Number: "B-SEEDED", IssuedAt: in}
		}
		if status == gatehouse.VisitCheckedOut {
			out := start.Add(duration)
			visit.CheckOutTime = &out
		}
		seed.Visits = append(seed.Visits, visit)
	}

	for _, wl := range f.Watchlist {
		tenant, err := resolveTenant(wl.Tenant)
		if err != nil {
			return nil, fmt.Errorf("watchlist %q: %w", wl.FullName, err)
		}
		severity := gatehouse.Severity(wl.Severity)
		if severity == "" {
			severity = gatehouse.SeverityMedium
		}
		seed.Watchlist = append(seed.Watchlist, &gatehouse.WatchlistEntry{
			ID:        newID(),
			TenantID:  tenant.ID,
			FullName:  wl.FullName,
			Aliases:   wl.Aliases,
			Reason:    wl.Reason,
			Severity:  severity,
			Active:    true,
			CreatedAt: now,
		})
	}

	return seed, nil
}

// apply loads the seed into the store. Pre-registered visits get a QR token
// so self check-in works on seeded data.
func (s *store) apply(seed *Seed) {
	if seed == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range seed.Tenants {
		if s.defaultTenant == "" {
			s.defaultTenant = t.ID
		}
		s.tenants[t.ID] = t
	}
	for _, f := range seed.Facilities {
		s.facilities[f.ID] = f
	}
	for _, v := range seed.Visitors {
		s.visitors[v.ID] = v
	}
	for _, u := range seed.Users {
		s.users[u.ID] = u
	}
	for _, v := range seed.Visits {
		if v.Status == gatehouse.VisitPreRegistered && v.QRToken == "" {
			v.QRToken = s.issueQRTokenLocked(v.ID)
		} else if v.QRToken != "" {
			s.qrTokens[v.QRToken] = v.ID
		}
		s.visits[v.ID] = v
	}
	for _, e := range seed.Watchlist {
		s.watchlist[e.ID] = e
	}
	for _, role := range seed.Roles {
		s.roles[role.ID] = role
	}
	for _, tmpl := range seed.Templates {
		s.templates[tmpl.ID] = tmpl
	}
	s.auditLogs = append(s.auditLogs, seed.AuditLogs...)
}
