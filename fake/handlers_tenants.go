package fake

import (
	"net/http"

	"github.com/gorilla/mux"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listTenants())
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Slug == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "name and slug are required")
		return
	}
	for _, existing := range s.store.listTenants() {
		if existing.Slug == req.Slug {
			writeError(w, r, http.StatusConflict,
				gatehouse.ErrorCodeConflict, "a tenant with this slug already exists")
			return
		}
	}

	now := s.store.now()
	tenant := &gatehouse.Tenant{
		ID:        newID(),
		Name:      req.Name,
		Slug:      req.Slug,
		Domain:    req.Domain,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.putTenant(tenant)
	s.store.audit(tenant.ID, actor(r), "tenant.create", "tenant", tenant.ID, tenant.Name)
	writeJSON(w, http.StatusCreated, tenant)
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.store.getTenant(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.UpdateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tenant, ok := s.store.updateTenant(id, func(t *gatehouse.Tenant) {
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Domain != nil {
			t.Domain = *req.Domain
		}
		if req.IsActive != nil {
			t.IsActive = *req.IsActive
		}
	})
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "tenant not found")
		return
	}
	s.store.audit(tenant.ID, actor(r), "tenant.update", "tenant", tenant.ID, "")
	writeJSON(w, http.StatusOK, tenant)
}

func (s *Server) handleTenantStats(w http.ResponseWriter, r *http.Request) {
	stats, ok := s.store.tenantStats(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
