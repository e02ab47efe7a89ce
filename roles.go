package gatehouse

import (
	"context"
	"net/http"
	"time"
)

// Permission names one dashboard capability a role can grant.
type Permission string

const (
	PermVisitsRead     Permission = "visits:read"
	PermVisitsWrite    Permission = "visits:write"
	PermVisitorsRead   Permission = "visitors:read"
	PermVisitorsWrite  Permission = "visitors:write"
	PermTenantsRead    Permission = "tenants:read"
	PermTenantsWrite   Permission = "tenants:write"
	PermSecurityRead   Permission = "security:read"
	PermSecurityWrite  Permission = "security:write"
	PermAuditRead      Permission = "audit:read"
	PermAuditExport    Permission = "audit:export"
	PermRolesWrite     Permission = "roles:write"
	PermSettingsWrite  Permission = "settings:write"
	PermDashboardView  Permission = "dashboard:view"
	PermReportsRead    Permission = "reports:read"
	PermFacilitiesRead Permission = "facilities:read"
)

// Role bundles permissions for assignment to users.
type Role struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`
	System      bool         `json:"system"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Has reports whether the role grants p.
func (r *Role) Has(p Permission) bool {
	for _, have := range r.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// RoleList is one page of roles.
type RoleList struct {
	Roles []*Role `json:"data"`
	Pagination
}

// CreateRoleRequest defines a new role.
type CreateRoleRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// RolesService manages roles and their permission sets.
type RolesService struct {
	client *Client
}

// List returns one page of roles.
func (s *RolesService) List(ctx context.Context, opts *ListOptions) (*RoleList, error) {
	var list RoleList
	if err := s.client.do(ctx, "roles.list", http.MethodGet, "/api/roles", opts.queryOrNil(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create defines a new role.
func (s *RolesService) Create(ctx context.Context, req *CreateRoleRequest) (*Role, error) {
	var role Role
	if err := s.client.do(ctx, "roles.create", http.MethodPost, "/api/roles", nil, req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// SetPermissions replaces the role's permission set.
func (s *RolesService) SetPermissions(ctx context.Context, id string, perms []Permission) (*Role, error) {
	body := map[string][]Permission{"permissions": perms}
	var role Role
	if err := s.client.do(ctx, "roles.set_permissions", http.MethodPost, "/api/roles/"+id+"/permissions", nil, body, &role); err != nil {
		return nil, err
	}
	return &role, nil
}
