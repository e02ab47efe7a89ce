package gatehouse

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Severity ranks watchlist entries and security alerts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// WatchlistEntry is a person flagged for screening. Check-in against an
// active entry is denied and raises an alert.
type WatchlistEntry struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	FullName  string    `json:"full_name"`
	Aliases   []string  `json:"aliases,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Severity  Severity  `json:"severity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchlistEntryList is one page of watchlist entries.
type WatchlistEntryList struct {
	Entries []*WatchlistEntry `json:"data"`
	Pagination
}

// AddWatchlistEntryRequest flags a person.
type AddWatchlistEntryRequest struct {
	FullName string   `json:"full_name"`
	Aliases  []string `json:"aliases,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

// ScreenRequest asks whether a name matches the watchlist.
type ScreenRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// ScreenResult is the outcome of a watchlist screening.
type ScreenResult struct {
	Match   bool              `json:"match"`
	Entries []*WatchlistEntry `json:"entries,omitempty"`
}

// SecurityAlert is raised for events needing operator attention, such as a
// watchlist hit at check-in.
type SecurityAlert struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	Type           string     `json:"type"`
	Severity       Severity   `json:"severity"`
	Message        string     `json:"message"`
	VisitID        string     `json:"visit_id,omitempty"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SecurityAlertList is one page of alerts.
type SecurityAlertList struct {
	Alerts []*SecurityAlert `json:"data"`
	Pagination
}

// AlertListOptions filters and pages ListAlerts.
type AlertListOptions struct {
	ListOptions
	Severity Severity
	// Unacknowledged restricts the list to open alerts.
	Unacknowledged bool
}

func (o *AlertListOptions) query() url.Values {
	if o == nil {
		return nil
	}
	q := o.ListOptions.query()
	if o.Severity != "" {
		q.Set("severity", string(o.Severity))
	}
	if o.Unacknowledged {
		q.Set("unacknowledged", "true")
	}
	return q
}

// SecurityStats is the security summary shown on the dashboard.
type SecurityStats struct {
	ActiveAlerts     int `json:"active_alerts"`
	WatchlistEntries int `json:"watchlist_entries"`
	DeniedToday      int `json:"denied_today"`
	ScreeningsToday  int `json:"screenings_today"`
}

// SecurityService handles the watchlist, screening and alerts.
type SecurityService struct {
	client *Client
}

// ListWatchlist returns one page of watchlist entries.
func (s *SecurityService) ListWatchlist(ctx context.Context, opts *ListOptions) (*WatchlistEntryList, error) {
	var list WatchlistEntryList
	if err := s.client.do(ctx, "security.watchlist_list", http.MethodGet, "/api/security/watchlist", opts.queryOrNil(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AddToWatchlist flags a person for screening.
func (s *SecurityService) AddToWatchlist(ctx context.Context, req *AddWatchlistEntryRequest) (*WatchlistEntry, error) {
	var entry WatchlistEntry
	if err := s.client.do(ctx, "security.watchlist_add", http.MethodPost, "/api/security/watchlist", nil, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveFromWatchlist deletes a watchlist entry.
func (s *SecurityService) RemoveFromWatchlist(ctx context.Context, id string) error {
	return s.client.do(ctx, "security.watchlist_remove", http.MethodDelete, "/api/security/watchlist/"+id, nil, nil, nil)
}

// Screen checks a name against the active watchlist without creating any
// records. Registration flows call this before booking a visit.
func (s *SecurityService) Screen(ctx context.Context, req *ScreenRequest) (*ScreenResult, error) {
	var result ScreenResult
	if err := s.client.do(ctx, "security.screen", http.MethodPost, "/api/security/watchlist/screen", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAlerts returns one page of security alerts.
func (s *SecurityService) ListAlerts(ctx context.Context, opts *AlertListOptions) (*SecurityAlertList, error) {
	var list SecurityAlertList
	if err := s.client.do(ctx, "security.alerts_list", http.MethodGet, "/api/security/alerts", opts.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AcknowledgeAlert marks an alert as handled.
func (s *SecurityService) AcknowledgeAlert(ctx context.Context, id string) (*SecurityAlert, error) {
	var alert SecurityAlert
	if err := s.client.do(ctx, "security.alert_ack", http.MethodPost, "/api/security/alerts/"+id+"/acknowledge", nil, nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// Stats returns the security summary for the dashboard.
func (s *SecurityService) Stats(ctx context.Context) (*SecurityStats, error) {
	var stats SecurityStats
	if err := s.client.do(ctx, "security.stats", http.MethodGet, "/api/security/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
