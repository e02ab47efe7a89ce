package gatehouse

import (
	"context"
	"net/http"
	"time"
)

// Tenant is one organization on the platform. Every visit, visitor and
// facility belongs to exactly one tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Domain    string    `json:"domain,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantStats is the per-tenant activity snapshot shown on the dashboard.
type TenantStats struct {
	TenantID      string `json:"tenant_id"`
	ActiveVisits  int    `json:"active_visits"`
	TodayVisits   int    `json:"today_visits"`
	CheckedIn     int    `json:"checked_in"`
	PreRegistered int    `json:"pre_registered"`
	TotalVisitors int    `json:"total_visitors"`
}

// TenantList is one page of tenants.
type TenantList struct {
	Tenants []*Tenant `json:"data"`
	Pagination
}

// CreateTenantRequest provisions a tenant.
type CreateTenantRequest struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Domain string `json:"domain,omitempty"`
}

// UpdateTenantRequest changes tenant settings. Nil fields are left
// untouched.
type UpdateTenantRequest struct {
	Name     *string `json:"name,omitempty"`
	Domain   *string `json:"domain,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// TenantsService handles tenant administration and per-tenant statistics.
type TenantsService struct {
	client *Client
}

// List returns one page of tenants.
func (s *TenantsService) List(ctx context.Context, opts *ListOptions) (*TenantList, error) {
	var list TenantList
	q := opts.queryOrNil()
	if err := s.client.do(ctx, "tenants.list", http.MethodGet, "/api/tenants", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create provisions a new tenant.
func (s *TenantsService) Create(ctx context.Context, req *CreateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	if err := s.client.do(ctx, "tenants.create", http.MethodPost, "/api/tenants", nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Get returns a single tenant by ID.
func (s *TenantsService) Get(ctx context.Context, id string) (*Tenant, error) {
	var tenant Tenant
	if err := s.client.do(ctx, "tenants.get", http.MethodGet, "/api/tenants/"+id, nil, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Update modifies tenant settings.
func (s *TenantsService) Update(ctx context.Context, id string, req *UpdateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	if err := s.client.do(ctx, "tenants.update", http.MethodPut, "/api/tenants/"+id, nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Stats returns the tenant's dashboard statistics snapshot.
func (s *TenantsService) Stats(ctx context.Context, id string) (*TenantStats, error) {
	var stats TenantStats
	if err := s.client.do(ctx, "tenants.stats", http.MethodGet, "/api/tenants/"+id+"/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
