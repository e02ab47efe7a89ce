package gatehouse

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// ComplianceFlag tags an audit entry with the regime it is retained for.
type ComplianceFlag string

const (
	ComplianceFICAM   ComplianceFlag = "FICAM"
	ComplianceFIPS140 ComplianceFlag = "FIPS_140"
	ComplianceHIPAA   ComplianceFlag = "HIPAA"
	ComplianceFERPA   ComplianceFlag = "FERPA"
)

// AuditLog is one immutable audit trail entry.
type AuditLog struct {
	ID              string           `json:"id"`
	TenantID        string           `json:"tenant_id"`
	Actor           string           `json:"actor"`
	Action          string           `json:"action"`
	Resource        string           `json:"resource"`
	ResourceID      string           `json:"resource_id,omitempty"`
	Detail          string           `json:"detail,omitempty"`
	ComplianceFlags []ComplianceFlag `json:"compliance_flags,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// AuditLogList is one page of audit entries.
type AuditLogList struct {
	Logs []*AuditLog `json:"data"`
	Pagination
}

// AuditListOptions filters and pages List.
type AuditListOptions struct {
	ListOptions
	Actor    string
	Action   string
	Flag     ComplianceFlag
	From     time.Time
	To       time.Time
	TenantID string
}

func (o *AuditListOptions) query() url.Values {
	if o == nil {
		return nil
	}
	q := o.ListOptions.query()
	if o.Actor != "" {
		q.Set("actor", o.Actor)
	}
	if o.Action != "" {
		q.Set("action", o.Action)
	}
	if o.Flag != "" {
		q.Set("flag", string(o.Flag))
	}
	if !o.From.IsZero() {
		q.Set("from", o.From.Format(time.RFC3339))
	}
	if !o.To.IsZero() {
		q.Set("to", o.To.Format(time.RFC3339))
	}
	if o.TenantID != "" {
		q.Set("tenant_id", o.TenantID)
	}
	return q
}

// AuditService reads the audit trail.
type AuditService struct {
	client *Client
}

// List returns one page of audit entries matching opts, newest first.
func (s *AuditService) List(ctx context.Context, opts *AuditListOptions) (*AuditLogList, error) {
	var list AuditLogList
	if err := s.client.do(ctx, "audit.list", http.MethodGet, "/api/audit/logs", opts.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Export downloads the matching audit entries as CSV.
func (s *AuditService) Export(ctx context.Context, opts *AuditListOptions) (*Export, error) {
	return s.client.doBlob(ctx, "audit.export", http.MethodGet, "/api/audit/logs/export", opts.query())
}
