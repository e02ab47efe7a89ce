package fake

import (
	"sort"
	"strings"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// Typed accessors per entity. List methods return copies sorted newest
// first so pagination is stable; update methods apply a mutation under the
// write lock and report whether the record existed.

func (s *store) listTenants() []*gatehouse.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *store) getTenant(id string) (*gatehouse.Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (s *store) putTenant(t *gatehouse.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultTenant == "" {
		s.defaultTenant = t.ID
	}
	s.tenants[t.ID] = t
}

func (s *store) updateTenant(id string, mutate func(*gatehouse.Tenant)) (*gatehouse.Tenant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, false
	}
	mutate(t)
	t.UpdatedAt = s.now()
	cp := *t
	return &cp, true
}

func (s *store) listVisitors(tenantID, search string) []*gatehouse.Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(search)
	out := make([]*gatehouse.Visitor, 0, len(s.visitors))
	for _, v := range s.visitors {
		if tenantID != "" && v.TenantID != tenantID {
			continue
		}
		if needle != "" && !visitorMatches(v, needle) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(v *gatehouse.Visitor) (string, int64) { return v.ID, v.CreatedAt.UnixNano() })
	return out
}

func visitorMatches(v *gatehouse.Visitor, needle string) bool {
	return strings.Contains(strings.ToLower(v.FullName()), needle) ||
		strings.Contains(strings.ToLower(v.Email), needle) ||
		strings.Contains(strings.ToLower(v.Company), needle)
}

func (s *store) getVisitor(id string) (*gatehouse.Visitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visitors[id]
	if !ok {
		return nil, false
	}
	cp := *v
	return &cp, true
}

func (s *store) putVisitor(v *gatehouse.Visitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitors[v.ID] = v
}

func (s *store) updateVisitor(id string, mutate func(*gatehouse.Visitor)) (*gatehouse.Visitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[id]
	if !ok {
		return nil, false
	}
	mutate(v)
	v.UpdatedAt = s.now()
	cp := *v
	return &cp, true
}

func (s *store) listFacilities(tenantID string) []*gatehouse.Facility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		if tenantID != "" && f.TenantID != tenantID {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *store) getFacility(id string) (*gatehouse.Facility, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facilities[id]
	if !ok {
		return nil, false
	}
	cp := *f
	return &cp, true
}

func (s *store) putFacility(f *gatehouse.Facility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[f.ID] = f
}

func (s *store) updateFacility(id string, mutate func(*gatehouse.Facility)) (*gatehouse.Facility, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return nil, false
	}
	mutate(f)
	f.UpdatedAt = s.now()
	cp := *f
	return &cp, true
}

func (s *store) listUsers(tenantID, roleID, search string) []*gatehouse.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(search)
	out := make([]*gatehouse.User, 0, len(s.users))
	for _, u := range s.users {
		if tenantID != "" && u.TenantID != tenantID {
			continue
		}
		if roleID != "" && u.RoleID != roleID {
			continue
		}
		if needle != "" {
			name := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
			if !strings.Contains(name, needle) {
				continue
			}
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (s *store) getUser(id string) (*gatehouse.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (s *store) putUser(u *gatehouse.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *store) listVisits(filter visitFilter) []*gatehouse.Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.Visit, 0, len(s.visits))
	for _, v := range s.visits {
		if !filter.matches(v) {
			continue
		}
		out = append(out, copyVisit(v))
	}
	sortByCreatedDesc(out, func(v *gatehouse.Visit) (string, int64) { return v.ID, v.ScheduledStart.UnixNano() })
	return out
}

func (s *store) getVisit(id string) (*gatehouse.Visit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visits[id]
	if !ok {
		return nil, false
	}
	return copyVisit(v), true
}

func (s *store) listWatchlist(tenantID string) []*gatehouse.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.WatchlistEntry, 0, len(s.watchlist))
	for _, e := range s.watchlist {
		if tenantID != "" && e.TenantID != tenantID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(e *gatehouse.WatchlistEntry) (string, int64) { return e.ID, e.CreatedAt.UnixNano() })
	return out
}

func (s *store) putWatchlistEntry(e *gatehouse.WatchlistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchlist[e.ID] = e
}

func (s *store) deleteWatchlistEntry(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.watchlist[id]; !ok {
		return false
	}
	delete(s.watchlist, id)
	return true
}

func (s *store) listAlerts(severity gatehouse.Severity, unacknowledged bool) []*gatehouse.SecurityAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.SecurityAlert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if severity != "" && a.Severity != severity {
			continue
		}
		if unacknowledged && a.Acknowledged {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(a *gatehouse.SecurityAlert) (string, int64) { return a.ID, a.CreatedAt.UnixNano() })
	return out
}

func (s *store) acknowledgeAlert(id, by string) (*gatehouse.SecurityAlert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, false
	}
	if !a.Acknowledged {
		now := s.now()
		a.Acknowledged = true
		a.AcknowledgedBy = by
		a.AcknowledgedAt = &now
	}
	cp := *a
	return &cp, true
}

func (s *store) listRoles() []*gatehouse.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.Role, 0, len(s.roles))
	for _, r := range s.roles {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *store) putRole(r *gatehouse.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[r.ID] = r
}

func (s *store) setRolePermissions(id string, perms []gatehouse.Permission) (*gatehouse.Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, false
	}
	r.Permissions = perms
	r.UpdatedAt = s.now()
	cp := *r
	return &cp, true
}

func (s *store) listTemplates() []*gatehouse.NotificationTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.NotificationTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *store) putTemplate(t *gatehouse.NotificationTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

func (s *store) updateTemplate(id string, mutate func(*gatehouse.NotificationTemplate)) (*gatehouse.NotificationTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, false
	}
	mutate(t)
	t.UpdatedAt = s.now()
	cp := *t
	return &cp, true
}

func (s *store) listNotifLogs(templateID, status string) []*gatehouse.NotificationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.NotificationLog, 0, len(s.notifLogs))
	for _, l := range s.notifLogs {
		if templateID != "" && l.TemplateID != templateID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(l *gatehouse.NotificationLog) (string, int64) { return l.ID, l.CreatedAt.UnixNano() })
	return out
}

func (s *store) appendNotifLog(l *gatehouse.NotificationLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifLogs = append(s.notifLogs, l)
}

func (s *store) listIdPs() []*gatehouse.IdentityProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.IdentityProvider, 0, len(s.idps))
	for _, p := range s.idps {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *store) putIdP(p *gatehouse.IdentityProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idps[p.ID] = p
}

func (s *store) updateIdP(id string, mutate func(*gatehouse.IdentityProvider)) (*gatehouse.IdentityProvider, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.idps[id]
	if !ok {
		return nil, false
	}
	mutate(p)
	p.UpdatedAt = s.now()
	cp := *p
	return &cp, true
}

func (s *store) deleteIdP(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.idps[id]; !ok {
		return false
	}
	delete(s.idps, id)
	return true
}

func (s *store) listAudit(filter auditFilter) []*gatehouse.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*gatehouse.AuditLog, 0, len(s.auditLogs))
	for _, l := range s.auditLogs {
		if !filter.matches(l) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(l *gatehouse.AuditLog) (string, int64) { return l.ID, l.CreatedAt.UnixNano() })
	return out
}

// sortByCreatedDesc orders newest first, breaking timestamp ties by ID so
// repeated listings paginate identically.
func sortByCreatedDesc[T any](items []T, key func(T) (string, int64)) {
	sort.Slice(items, func(i, j int) bool {
		idI, tsI := key(items[i])
		idJ, tsJ := key(items[j])
		if tsI != tsJ {
			return tsI > tsJ
		}
		return idI < idJ
	})
}
