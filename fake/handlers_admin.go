package fake

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// auditFilter selects audit entries for listing and export.
type auditFilter struct {
	tenantID string
	actor    string
	action   string
	flag     gatehouse.ComplianceFlag
	from, to time.Time
}

func (f auditFilter) matches(l *gatehouse.AuditLog) bool {
	if f.tenantID != "" && l.TenantID != f.tenantID {
		return false
	}
	if f.actor != "" && l.Actor != f.actor {
		return false
	}
	if f.action != "" && l.Action != f.action {
		return false
	}
	if f.flag != "" {
		found := false
		for _, have := range l.ComplianceFlags {
			if have == f.flag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.from.IsZero() && l.CreatedAt.Before(f.from) {
		return false
	}
	if !f.to.IsZero() && l.CreatedAt.After(f.to) {
		return false
	}
	return true
}

func auditFilterFromRequest(r *http.Request) auditFilter {
	q := r.URL.Query()
	f := auditFilter{
		actor:  q.Get("actor"),
		action: q.Get("action"),
		flag:   gatehouse.ComplianceFlag(q.Get("flag")),
		from:   parseTimeParam(r, "from"),
		to:     parseTimeParam(r, "to"),
	}
	if tid := q.Get("tenant_id"); tid != "" {
		f.tenantID = tid
	} else {
		f.tenantID = tenantScope(r)
	}
	return f
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listAudit(auditFilterFromRequest(r)))
}

func (s *Server) handleExportAudit(w http.ResponseWriter, r *http.Request) {
	logs := s.store.listAudit(auditFilterFromRequest(r))
	writeAuditCSV(w, logs)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listTemplates())
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Body == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "name and body are required")
		return
	}
	if req.Channel != gatehouse.ChannelEmail && req.Channel != gatehouse.ChannelSMS {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "channel must be email or sms")
		return
	}

	now := s.store.now()
	tmpl := &gatehouse.NotificationTemplate{
		ID:        newID(),
		TenantID:  s.store.resolveTenant(tenantScope(r)),
		Name:      req.Name,
		Channel:   req.Channel,
		Subject:   req.Subject,
		Body:      req.Body,
		Variables: req.Variables,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.putTemplate(tmpl)
	s.store.audit(tmpl.TenantID, actor(r), "notification_template.create", "notification_template", tmpl.ID, tmpl.Name)
	writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.UpdateTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tmpl, ok := s.store.updateTemplate(id, func(t *gatehouse.NotificationTemplate) {
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Subject != nil {
			t.Subject = *req.Subject
		}
		if req.Body != nil {
			t.Body = *req.Body
		}
		if req.Enabled != nil {
			t.Enabled = *req.Enabled
		}
	})
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "template not found")
		return
	}
	s.store.audit(tmpl.TenantID, actor(r), "notification_template.update", "notification_template", tmpl.ID, "")
	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleListNotifLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writePage(w, r, s.store.listNotifLogs(q.Get("template_id"), q.Get("status")))
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listRoles())
}

func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "name is required")
		return
	}

	now := s.store.now()
	role := &gatehouse.Role{
		ID:          newID(),
		TenantID:    s.store.resolveTenant(tenantScope(r)),
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.putRole(role)
	s.store.audit(role.TenantID, actor(r), "role.create", "role", role.ID, role.Name)
	writeJSON(w, http.StatusCreated, role)
}

func (s *Server) handleSetRolePermissions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Permissions []gatehouse.Permission `json:"permissions"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	role, ok := s.store.setRolePermissions(id, body.Permissions)
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "role not found")
		return
	}
	s.store.audit(role.TenantID, actor(r), "role.update", "role", role.ID, "permissions replaced")
	writeJSON(w, http.StatusOK, role)
}

func (s *Server) handleListIdPs(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listIdPs())
}

func (s *Server) handleCreateIdP(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateIdentityProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.EntityID == "" || req.SSOURL == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "name, entity_id and sso_url are required")
		return
	}
	idpType := req.Type
	if idpType == "" {
		idpType = gatehouse.IdPTypeSAML
	}

	now := s.store.now()
	idp := &gatehouse.IdentityProvider{
		ID:          newID(),
		TenantID:    s.store.resolveTenant(tenantScope(r)),
		Name:        req.Name,
		Type:        idpType,
		EntityID:    req.EntityID,
		SSOURL:      req.SSOURL,
		Certificate: req.Certificate,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.putIdP(idp)
	s.store.audit(idp.TenantID, actor(r), "identity_provider.create", "identity_provider", idp.ID, idp.Name)
	writeJSON(w, http.StatusCreated, idp)
}

func (s *Server) handleUpdateIdP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.UpdateIdentityProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	idp, ok := s.store.updateIdP(id, func(p *gatehouse.IdentityProvider) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.EntityID != nil {
			p.EntityID = *req.EntityID
		}
		if req.SSOURL != nil {
			p.SSOURL = *req.SSOURL
		}
		if req.Certificate != nil {
			p.Certificate = *req.Certificate
		}
		if req.Enabled != nil {
			p.Enabled = *req.Enabled
		}
	})
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "identity provider not found")
		return
	}
	s.store.audit(idp.TenantID, actor(r), "identity_provider.update", "identity_provider", idp.ID, "")
	writeJSON(w, http.StatusOK, idp)
}

func (s *Server) handleDeleteIdP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.deleteIdP(id) {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "identity provider not found")
		return
	}
	s.store.audit(tenantScope(r), actor(r), "identity_provider.delete", "identity_provider", id, "")
	w.WriteHeader(http.StatusNoContent)
}
