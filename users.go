package gatehouse

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// User is a platform account: a host, front-desk operator or administrator.
// Account management is handled by the identity layer; the API exposes users
// read-only.
type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	RoleID    string    `json:"role_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserList is one page of users.
type UserList struct {
	Users []*User `json:"data"`
	Pagination
}

// UserListOptions filters and pages List.
type UserListOptions struct {
	ListOptions
	RoleID string
	Search string
}

func (o *UserListOptions) query() url.Values {
	if o == nil {
		return nil
	}
	q := o.ListOptions.query()
	if o.RoleID != "" {
		q.Set("role_id", o.RoleID)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// UsersService looks up platform users, mainly to resolve visit hosts.
type UsersService struct {
	client *Client
}

// List returns one page of users matching opts.
func (s *UsersService) List(ctx context.Context, opts *UserListOptions) (*UserList, error) {
	var list UserList
	if err := s.client.do(ctx, "users.list", http.MethodGet, "/api/users", opts.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get returns a single user by ID.
func (s *UsersService) Get(ctx context.Context, id string) (*User, error) {
	var user User
	if err := s.client.do(ctx, "users.get", http.MethodGet, "/api/users/"+id, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
