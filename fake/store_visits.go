package fake

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

var errVisitNotFound = errors.New("visit not found")

// transitionError reports a lifecycle violation, such as checking out a
// visit that was never checked in.
type transitionError struct {
	from, to gatehouse.VisitStatus
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("visit cannot move from %s to %s", e.from, e.to)
}

// denialError reports a check-in denied by watchlist screening.
type denialError struct {
	entry *gatehouse.WatchlistEntry
}

func (e *denialError) Error() string {
	return fmt.Sprintf("visitor matches active watchlist entry %s", e.entry.ID)
}

// visitFilter selects visits for listing.
type visitFilter struct {
	tenantID   string
	status     gatehouse.VisitStatus
	facilityID string
	visitorID  string
	from, to   time.Time
}

func (f visitFilter) matches(v *gatehouse.Visit) bool {
	if f.tenantID != "" && v.TenantID != f.tenantID {
		return false
	}
	if f.status != "" && v.Status != f.status {
		return false
	}
	if f.facilityID != "" && v.FacilityID != f.facilityID {
		return false
	}
	if f.visitorID != "" && v.VisitorID != f.visitorID {
		return false
	}
	if !f.from.IsZero() && v.ScheduledStart.Before(f.from) {
		return false
	}
	if !f.to.IsZero() && v.ScheduledStart.After(f.to) {
		return false
	}
	return true
}

// createVisit stores a new pre-registered visit, issues its QR token and
// records the audit entry.
func (s *store) createVisit(v *gatehouse.Visit, actor string) *gatehouse.Visit {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	v.ID = newID()
	v.Status = gatehouse.VisitPreRegistered
	v.QRToken = s.issueQRTokenLocked(v.ID)
	v.CreatedAt = now
	v.UpdatedAt = now

	s.visits[v.ID] = v
	s.appendAudit(v.TenantID, actor, "visit.create", "visit", v.ID, "", nil)
	return copyVisit(v)
}

// updateVisit applies a mutation to a pre-registered visit.
func (s *store) updateVisit(id string, actor string, mutate func(*gatehouse.Visit)) (*gatehouse.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visits[id]
	if !ok {
		return nil, errVisitNotFound
	}
	if v.Status != gatehouse.VisitPreRegistered {
		return nil, &transitionError{from: v.Status, to: v.Status}
	}
	mutate(v)
	v.UpdatedAt = s.now()
	s.appendAudit(v.TenantID, actor, "visit.update", "visit", v.ID, "", nil)
	return copyVisit(v), nil
}

// checkInVisit moves a visit to checked_in, screening the visitor against
// the watchlist first. A match denies the visit, raises an alert and returns
// a denialError; the caller decides the HTTP shape.
func (s *store) checkInVisit(id, actor string, badgeType gatehouse.BadgeType) (*gatehouse.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visits[id]
	if !ok {
		return nil, errVisitNotFound
	}
	if !v.Status.CanTransitionTo(gatehouse.VisitCheckedIn) {
		return nil, &transitionError{from: v.Status, to: gatehouse.VisitCheckedIn}
	}

	now := s.now()

	var visitorName string
	if visitor, ok := s.visitors[v.VisitorID]; ok {
		visitorName = visitor.FullName()
	}
	if matches := s.screenLocked(v.TenantID, visitorName); len(matches) > 0 {
		entry := matches[0]
		v.Status = gatehouse.VisitDenied
		v.DeniedReason = fmt.Sprintf("watchlist match: %s", entry.Reason)
		v.UpdatedAt = now

		alertID := newID()
		s.alerts[alertID] = &gatehouse.SecurityAlert{
			ID:        alertID,
			TenantID:  v.TenantID,
			Type:      "watchlist_match",
			Severity:  entry.Severity,
			Message:   fmt.Sprintf("check-in denied: %s matches watchlist", visitorName),
			VisitID:   v.ID,
			CreatedAt: now,
		}
		s.appendAudit(v.TenantID, actor, "visit.deny", "visit", v.ID,
			fmt.Sprintf("watchlist entry %s", entry.ID), nil)
		return copyVisit(v), &denialError{entry: entry}
	}

	if badgeType == "" {
		badgeType = gatehouse.BadgePrinted
	}
	v.Status = gatehouse.VisitCheckedIn
	v.CheckInTime = &now
	v.Badge = &gatehouse.Badge{
		Type:     badgeType,
		Number:   "B-" + strings.ToUpper(uuid.New().String()[:8]),
		IssuedAt: now,
	}
	v.UpdatedAt = now
	s.appendAudit(v.TenantID, actor, "visit.check_in", "visit", v.ID, string(badgeType), nil)
	return copyVisit(v), nil
}

// checkOutVisit moves a checked-in visit to checked_out.
func (s *store) checkOutVisit(id, actor string) (*gatehouse.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visits[id]
	if !ok {
		return nil, errVisitNotFound
	}
	if !v.Status.CanTransitionTo(gatehouse.VisitCheckedOut) {
		return nil, &transitionError{from: v.Status, to: gatehouse.VisitCheckedOut}
	}

	now := s.now()
	v.Status = gatehouse.VisitCheckedOut
	v.CheckOutTime = &now
	v.UpdatedAt = now
	s.appendAudit(v.TenantID, actor, "visit.check_out", "visit", v.ID, "", nil)
	return copyVisit(v), nil
}

// cancelVisit moves a pre-registered visit to cancelled.
func (s *store) cancelVisit(id, actor, reason string) (*gatehouse.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visits[id]
	if !ok {
		return nil, errVisitNotFound
	}
	if !v.Status.CanTransitionTo(gatehouse.VisitCancelled) {
		return nil, &transitionError{from: v.Status, to: gatehouse.VisitCancelled}
	}

	v.Status = gatehouse.VisitCancelled
	v.UpdatedAt = s.now()
	s.appendAudit(v.TenantID, actor, "visit.cancel", "visit", v.ID, reason, nil)
	return copyVisit(v), nil
}

// expandVisit attaches the visitor record for expanded responses.
func (s *store) expandVisit(v *gatehouse.Visit) *gatehouse.Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if visitor, ok := s.visitors[v.VisitorID]; ok {
		cp := *visitor
		v.Visitor = &cp
	}
	return v
}
