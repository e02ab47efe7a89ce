package fake

import (
	"net/http"

	"github.com/gorilla/mux"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func (s *Server) handleListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors := s.store.listVisitors(tenantScope(r), r.URL.Query().Get("search"))
	writePage(w, r, visitors)
}

func (s *Server) handleCreateVisitor(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateVisitorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "first_name and last_name are required")
		return
	}

	now := s.store.now()
	visitor := &gatehouse.Visitor{
		ID:        newID(),
		TenantID:  s.store.resolveTenant(tenantScope(r)),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.putVisitor(visitor)
	s.store.audit(visitor.TenantID, actor(r), "visitor.create", "visitor", visitor.ID, visitor.FullName())
	writeJSON(w, http.StatusCreated, visitor)
}

func (s *Server) handleGetVisitor(w http.ResponseWriter, r *http.Request) {
	visitor, ok := s.store.getVisitor(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "visitor not found")
		return
	}
	writeJSON(w, http.StatusOK, visitor)
}

func (s *Server) handleUpdateVisitor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.UpdateVisitorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	visitor, ok := s.store.updateVisitor(id, func(v *gatehouse.Visitor) {
		if req.FirstName != nil {
			v.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			v.LastName = *req.LastName
		}
		if req.Email != nil {
			v.Email = *req.Email
		}
		if req.Phone != nil {
			v.Phone = *req.Phone
		}
		if req.Company != nil {
			v.Company = *req.Company
		}
		if req.Notes != nil {
			v.Notes = *req.Notes
		}
	})
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "visitor not found")
		return
	}
	s.store.audit(visitor.TenantID, actor(r), "visitor.update", "visitor", visitor.ID, "")
	writeJSON(w, http.StatusOK, visitor)
}

func (s *Server) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listFacilities(tenantScope(r)))
}

func (s *Server) handleCreateFacility(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateFacilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "name is required")
		return
	}

	now := s.store.now()
	facility := &gatehouse.Facility{
		ID:             newID(),
		TenantID:       s.store.resolveTenant(tenantScope(r)),
		Name:           req.Name,
		Address:        req.Address,
		Timezone:       req.Timezone,
		SecurityLevel:  req.SecurityLevel,
		EscortRequired: req.EscortRequired,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.store.putFacility(facility)
	s.store.audit(facility.TenantID, actor(r), "facility.create", "facility", facility.ID, facility.Name)
	writeJSON(w, http.StatusCreated, facility)
}

func (s *Server) handleGetFacility(w http.ResponseWriter, r *http.Request) {
	facility, ok := s.store.getFacility(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "facility not found")
		return
	}
	writeJSON(w, http.StatusOK, facility)
}

func (s *Server) handleUpdateFacility(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.UpdateFacilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	facility, ok := s.store.updateFacility(id, func(f *gatehouse.Facility) {
		if req.Name != nil {
			f.Name = *req.Name
		}
		if req.Address != nil {
			f.Address = *req.Address
		}
		if req.Timezone != nil {
			f.Timezone = *req.Timezone
		}
		if req.SecurityLevel != nil {
			f.SecurityLevel = *req.SecurityLevel
		}
		if req.EscortRequired != nil {
			f.EscortRequired = *req.EscortRequired
		}
		if req.IsActive != nil {
			f.IsActive = *req.IsActive
		}
	})
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "facility not found")
		return
	}
	s.store.audit(facility.TenantID, actor(r), "facility.update", "facility", facility.ID, "")
	writeJSON(w, http.StatusOK, facility)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writePage(w, r, s.store.listUsers(tenantScope(r), q.Get("role_id"), q.Get("search")))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.getUser(mux.Vars(r)["id"])
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
