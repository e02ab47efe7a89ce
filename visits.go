package gatehouse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// VisitStatus is the lifecycle state of a visit.
type VisitStatus string

const (
	VisitPreRegistered VisitStatus = "pre_registered"
	VisitCheckedIn     VisitStatus = "checked_in"
	VisitCheckedOut    VisitStatus = "checked_out"
	VisitCancelled     VisitStatus = "cancelled"
	VisitDenied        VisitStatus = "denied"
)

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next. Checked-out, cancelled and denied are terminal.
func (s VisitStatus) CanTransitionTo(next VisitStatus) bool {
	switch s {
	case VisitPreRegistered:
		return next == VisitCheckedIn || next == VisitCancelled || next == VisitDenied
	case VisitCheckedIn:
		return next == VisitCheckedOut
	default:
		return false
	}
}

// BadgeType selects the kind of credential issued at check-in.
type BadgeType string

const (
	// BadgePrinted is a disposable paper badge printed at the front desk.
	BadgePrinted BadgeType = "printed"
	// BadgeCIVPIVI is a CIV/PIV-I interoperable smart card credential.
	BadgeCIVPIVI BadgeType = "civ_piv_i"
)

// Badge is the credential issued to a visitor at check-in.
type Badge struct {
	Type     BadgeType `json:"type"`
	Number   string    `json:"number"`
	IssuedAt time.Time `json:"issued_at"`
}

// Visit is one scheduled or in-progress visit.
type Visit struct {
	ID             string      `json:"id"`
	TenantID       string      `json:"tenant_id"`
	VisitorID      string      `json:"visitor_id"`
	HostUserID     string      `json:"host_user_id"`
	FacilityID     string      `json:"facility_id"`
	Purpose        string      `json:"purpose,omitempty"`
	Status         VisitStatus `json:"status"`
	ScheduledStart time.Time   `json:"scheduled_start"`
	ScheduledEnd   time.Time   `json:"scheduled_end"`
	CheckInTime    *time.Time  `json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time  `json:"check_out_time,omitempty"`
	Badge          *Badge      `json:"badge,omitempty"`
	EscortRequired bool        `json:"escort_required"`
	DeniedReason   string      `json:"denied_reason,omitempty"`

	// Recurrence fields, present when the visit repeats. Days of week use
	// 0=Sunday through 6=Saturday.
	Recurring          bool       `json:"recurring"`
	RecurrencePattern  string     `json:"recurrence_pattern,omitempty"`
	RecurrenceInterval int        `json:"recurrence_interval,omitempty"`
	RecurrenceDays     []int      `json:"recurrence_days_of_week,omitempty"`
	RecurrenceEnd      *time.Time `json:"recurrence_end_date,omitempty"`

	// QRToken is the self check-in token encoded in the visitor's QR code.
	// Present on pre-registered visits.
	QRToken string `json:"qr_token,omitempty"`

	// Visitor is populated on expanded responses.
	Visitor *Visitor `json:"visitor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisitList is one page of visits.
type VisitList struct {
	Visits []*Visit `json:"data"`
	Pagination
}

// VisitListOptions filters and pages List.
type VisitListOptions struct {
	ListOptions
	Status     VisitStatus
	FacilityID string
	VisitorID  string
	From       time.Time
	To         time.Time
}

func (o *VisitListOptions) query() url.Values {
	if o == nil {
		return nil
	}
	q := o.ListOptions.query()
	if o.Status != "" {
		q.Set("status", string(o.Status))
	}
	if o.FacilityID != "" {
		q.Set("facility_id", o.FacilityID)
	}
	if o.VisitorID != "" {
		q.Set("visitor_id", o.VisitorID)
	}
	if !o.From.IsZero() {
		q.Set("from", o.From.Format(time.RFC3339))
	}
	if !o.To.IsZero() {
		q.Set("to", o.To.Format(time.RFC3339))
	}
	return q
}

// CreateVisitRequest registers a visit.
type CreateVisitRequest struct {
	VisitorID      string    `json:"visitor_id"`
	HostUserID     string    `json:"host_user_id"`
	FacilityID     string    `json:"facility_id"`
	Purpose        string    `json:"purpose,omitempty"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	EscortRequired bool      `json:"escort_required"`

	Recurring          bool       `json:"recurring,omitempty"`
	RecurrencePattern  string     `json:"recurrence_pattern,omitempty"`
	RecurrenceInterval int        `json:"recurrence_interval,omitempty"`
	RecurrenceDays     []int      `json:"recurrence_days_of_week,omitempty"`
	RecurrenceEnd      *time.Time `json:"recurrence_end_date,omitempty"`
}

// UpdateVisitRequest changes a pre-registered visit. Nil fields are left
// untouched.
type UpdateVisitRequest struct {
	HostUserID     *string    `json:"host_user_id,omitempty"`
	FacilityID     *string    `json:"facility_id,omitempty"`
	Purpose        *string    `json:"purpose,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	EscortRequired *bool      `json:"escort_required,omitempty"`
}

// CheckInRequest controls badge issuance at check-in. A zero BadgeType lets
// the server default to a printed badge.
type CheckInRequest struct {
	BadgeType BadgeType `json:"badge_type,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// QRVisit is the result of resolving a QR check-in token.
type QRVisit struct {
	Token string `json:"token"`
	Visit *Visit `json:"visit"`
}

// CalendarExportOptions scopes ExportCalendar.
type CalendarExportOptions struct {
	FacilityID string
	From       time.Time
	To         time.Time
}

// VisitsService handles visit scheduling, the check-in and check-out desk
// flows, and QR self check-in.
type VisitsService struct {
	client *Client
}

// List returns one page of visits matching opts.
func (s *VisitsService) List(ctx context.Context, opts *VisitListOptions) (*VisitList, error) {
	var list VisitList
	if err := s.client.do(ctx, "visits.list", http.MethodGet, "/api/visits", opts.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create registers a new visit in pre_registered state.
func (s *VisitsService) Create(ctx context.Context, req *CreateVisitRequest) (*Visit, error) {
	var visit Visit
	if err := s.client.do(ctx, "visits.create", http.MethodPost, "/api/visits", nil, req, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// Get returns a single visit by ID.
func (s *VisitsService) Get(ctx context.Context, id string) (*Visit, error) {
	var visit Visit
	if err := s.client.do(ctx, "visits.get", http.MethodGet, "/api/visits/"+id, nil, nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// Update modifies a visit's schedule or details.
func (s *VisitsService) Update(ctx context.Context, id string, req *UpdateVisitRequest) (*Visit, error) {
	var visit Visit
	if err := s.client.do(ctx, "visits.update", http.MethodPut, "/api/visits/"+id, nil, req, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// Cancel cancels a pre-registered visit.
func (s *VisitsService) Cancel(ctx context.Context, id, reason string) (*Visit, error) {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	var visit Visit
	if err := s.client.do(ctx, "visits.cancel", http.MethodPost, "/api/visits/"+id+"/cancel", nil, body, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// CheckIn checks a visitor in and returns the visit with its issued badge.
// Visitors matching an active watchlist entry are denied instead; the
// returned error carries the denial.
func (s *VisitsService) CheckIn(ctx context.Context, id string, req *CheckInRequest) (*Visit, error) {
	if req == nil {
		req = &CheckInRequest{}
	}
	var visit Visit
	if err := s.client.do(ctx, "visits.check_in", http.MethodPost, "/api/visits/"+id+"/check-in", nil, req, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// CheckOut checks a visitor out.
func (s *VisitsService) CheckOut(ctx context.Context, id string) (*Visit, error) {
	var visit Visit
	if err := s.client.do(ctx, "visits.check_out", http.MethodPost, "/api/visits/"+id+"/check-out", nil, nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// LookupQRToken resolves a QR check-in token to its visit.
func (s *VisitsService) LookupQRToken(ctx context.Context, token string) (*QRVisit, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	q := url.Values{}
	q.Set("token", token)
	var qv QRVisit
	if err := s.client.do(ctx, "visits.qr_lookup", http.MethodGet, "/api/qr-check-in", q, nil, &qv); err != nil {
		return nil, err
	}
	return &qv, nil
}

// QRCheckIn runs the full self check-in flow for a scanned QR payload: the
// token is extracted from the scan, resolved to a visit, and the visit is
// checked in with a printed badge.
func (s *VisitsService) QRCheckIn(ctx context.Context, rawScan string) (*Visit, error) {
	token := ParseQRToken(rawScan)
	qv, err := s.LookupQRToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if qv.Visit == nil {
		return nil, fmt.Errorf("token %q resolved to no visit", token)
	}
	return s.CheckIn(ctx, qv.Visit.ID, &CheckInRequest{BadgeType: BadgePrinted})
}

// ExportCalendar downloads the visit schedule as an iCalendar file.
func (s *VisitsService) ExportCalendar(ctx context.Context, opts *CalendarExportOptions) (*Export, error) {
	q := url.Values{}
	if opts != nil {
		if opts.FacilityID != "" {
			q.Set("facility_id", opts.FacilityID)
		}
		if !opts.From.IsZero() {
			q.Set("from", opts.From.Format(time.RFC3339))
		}
		if !opts.To.IsZero() {
			q.Set("to", opts.To.Format(time.RFC3339))
		}
	}
	return s.client.doBlob(ctx, "visits.export_calendar", http.MethodGet, "/api/visits/calendar/export", q)
}
