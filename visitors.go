package gatehouse

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Visitor is a person who visits, independent of any single visit.
type Visitor struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the visitor's display name.
func (v *Visitor) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// VisitorList is one page of visitors.
type VisitorList struct {
	Visitors []*Visitor `json:"data"`
	Pagination
}

// VisitorListOptions filters and pages List.
type VisitorListOptions struct {
	ListOptions
	// Search matches against name, email and company.
	Search string
}

func (o *VisitorListOptions) query() url.Values {
	if o == nil {
		return nil
	}
	q := o.ListOptions.query()
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// CreateVisitorRequest registers a visitor.
type CreateVisitorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateVisitorRequest changes visitor details. Nil fields are left
// untouched.
type UpdateVisitorRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// VisitorsService handles visitor registration and lookup.
type VisitorsService struct {
	client *Client
}

// List returns one page of visitors matching opts.
func (s *VisitorsService) List(ctx context.Context, opts *VisitorListOptions) (*VisitorList, error) {
	var list VisitorList
	if err := s.client.do(ctx, "visitors.list", http.MethodGet, "/api/visitors", opts.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create registers a new visitor.
func (s *VisitorsService) Create(ctx context.Context, req *CreateVisitorRequest) (*Visitor, error) {
	var visitor Visitor
	if err := s.client.do(ctx, "visitors.create", http.MethodPost, "/api/visitors", nil, req, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}

// Get returns a single visitor by ID.
func (s *VisitorsService) Get(ctx context.Context, id string) (*Visitor, error) {
	var visitor Visitor
	if err := s.client.do(ctx, "visitors.get", http.MethodGet, "/api/visitors/"+id, nil, nil, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}

// Update modifies visitor details.
func (s *VisitorsService) Update(ctx context.Context, id string, req *UpdateVisitorRequest) (*Visitor, error) {
	var visitor Visitor
	if err := s.client.do(ctx, "visitors.update", http.MethodPut, "/api/visitors/"+id, nil, req, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}
