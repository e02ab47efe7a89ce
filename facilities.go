package gatehouse

import (
	"context"
	"net/http"
	"time"
)

// Facility is a physical site visitors check in to.
type Facility struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	Timezone       string    `json:"timezone,omitempty"`
	SecurityLevel  string    `json:"security_level,omitempty"`
	EscortRequired bool      `json:"escort_required"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FacilityList is one page of facilities.
type FacilityList struct {
	Facilities []*Facility `json:"data"`
	Pagination
}

// CreateFacilityRequest registers a facility.
type CreateFacilityRequest struct {
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	SecurityLevel  string `json:"security_level,omitempty"`
	EscortRequired bool   `json:"escort_required,omitempty"`
}

// UpdateFacilityRequest changes facility settings. Nil fields are left
// untouched.
type UpdateFacilityRequest struct {
	Name           *string `json:"name,omitempty"`
	Address        *string `json:"address,omitempty"`
	Timezone       *string `json:"timezone,omitempty"`
	SecurityLevel  *string `json:"security_level,omitempty"`
	EscortRequired *bool   `json:"escort_required,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// FacilitiesService handles facility administration.
type FacilitiesService struct {
	client *Client
}

// List returns one page of facilities.
func (s *FacilitiesService) List(ctx context.Context, opts *ListOptions) (*FacilityList, error) {
	var list FacilityList
	if err := s.client.do(ctx, "facilities.list", http.MethodGet, "/api/facilities", opts.queryOrNil(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create registers a new facility.
func (s *FacilitiesService) Create(ctx context.Context, req *CreateFacilityRequest) (*Facility, error) {
	var facility Facility
	if err := s.client.do(ctx, "facilities.create", http.MethodPost, "/api/facilities", nil, req, &facility); err != nil {
		return nil, err
	}
	return &facility, nil
}

// Get returns a single facility by ID.
func (s *FacilitiesService) Get(ctx context.Context, id string) (*Facility, error) {
	var facility Facility
	if err := s.client.do(ctx, "facilities.get", http.MethodGet, "/api/facilities/"+id, nil, nil, &facility); err != nil {
		return nil, err
	}
	return &facility, nil
}

// Update modifies facility settings.
func (s *FacilitiesService) Update(ctx context.Context, id string, req *UpdateFacilityRequest) (*Facility, error) {
	var facility Facility
	if err := s.client.do(ctx, "facilities.update", http.MethodPut, "/api/facilities/"+id, nil, req, &facility); err != nil {
		return nil, err
	}
	return &facility, nil
}
