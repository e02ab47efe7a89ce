package gatehouse

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// NotificationTemplate defines one outbound message, with {{variable}}
// placeholders filled in at send time.
type NotificationTemplate struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// NotificationTemplateList is one page of templates.
type NotificationTemplateList struct {
	Templates []*NotificationTemplate `json:"data"`
	Pagination
}

// CreateTemplateRequest defines a new template.
type CreateTemplateRequest struct {
	Name      string   `json:"name"`
	Channel   string   `json:"channel"`
	Subject   string   `json:"subject,omitempty"`
	Body      string   `json:"body"`
	Variables []string `json:"variables,omitempty"`
}

// UpdateTemplateRequest changes a template. Nil fields are left untouched.
type UpdateTemplateRequest struct {
	Name    *string `json:"name,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Body    *string `json:"body,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// NotificationLog records one delivery attempt.
type NotificationLog struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	TemplateID string     `json:"template_id"`
	Recipient  string     `json:"recipient"`
	Channel    string     `json:"channel"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NotificationLogList is one page of delivery records.
type NotificationLogList struct {
	Logs []*NotificationLog `json:"data"`
	Pagination
}

// NotificationLogOptions filters and pages ListLogs.
type NotificationLogOptions struct {
	ListOptions
	TemplateID string
	Status     string
}

func (o *NotificationLogOptions) query() url.Values {
	if o == nil {
		return nil
	}
	q := o.ListOptions.query()
	if o.TemplateID != "" {
		q.Set("template_id", o.TemplateID)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	return q
}

// NotificationsService manages message templates and reads delivery logs.
type NotificationsService struct {
	client *Client
}

// ListTemplates returns one page of notification templates.
func (s *NotificationsService) ListTemplates(ctx context.Context, opts *ListOptions) (*NotificationTemplateList, error) {
	var list NotificationTemplateList
	if err := s.client.do(ctx, "notifications.templates_list", http.MethodGet, "/api/notifications/templates", opts.queryOrNil(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateTemplate defines a new notification template.
func (s *NotificationsService) CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*NotificationTemplate, error) {
	var tmpl NotificationTemplate
	if err := s.client.do(ctx, "notifications.template_create", http.MethodPost, "/api/notifications/templates", nil, req, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// UpdateTemplate changes an existing template.
func (s *NotificationsService) UpdateTemplate(ctx context.Context, id string, req *UpdateTemplateRequest) (*NotificationTemplate, error) {
	var tmpl NotificationTemplate
	if err := s.client.do(ctx, "notifications.template_update", http.MethodPut, "/api/notifications/templates/"+id, nil, req, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ListLogs returns one page of delivery records, newest first.
func (s *NotificationsService) ListLogs(ctx context.Context, opts *NotificationLogOptions) (*NotificationLogList, error) {
	var list NotificationLogList
	if err := s.client.do(ctx, "notifications.logs_list", http.MethodGet, "/api/notifications/logs", opts.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
