package fake

import (
	"net/http"

	"github.com/gorilla/mux"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	writePage(w, r, s.store.listWatchlist(tenantScope(r)))
}

func (s *Server) handleAddWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.AddWatchlistEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FullName == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "full_name is required")
		return
	}
	severity := req.Severity
	if severity == "" {
		severity = gatehouse.SeverityMedium
	}

	entry := &gatehouse.WatchlistEntry{
		ID:        newID(),
		TenantID:  s.store.resolveTenant(tenantScope(r)),
		FullName:  req.FullName,
		Aliases:   req.Aliases,
		Reason:    req.Reason,
		Severity:  severity,
		Active:    true,
		CreatedAt: s.store.now(),
	}
	s.store.putWatchlistEntry(entry)
	s.store.audit(entry.TenantID, actor(r), "watchlist.add", "watchlist_entry", entry.ID, entry.FullName)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemoveWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.deleteWatchlistEntry(id) {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "watchlist entry not found")
		return
	}
	s.store.audit(tenantScope(r), actor(r), "watchlist.remove", "watchlist_entry", id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.ScreenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FullName == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "full_name is required")
		return
	}

	matches := s.store.screen(tenantScope(r), req.FullName)
	writeJSON(w, http.StatusOK, gatehouse.ScreenResult{
		Match:   len(matches) > 0,
		Entries: matches,
	})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	alerts := s.store.listAlerts(
		gatehouse.Severity(q.Get("severity")),
		q.Get("unacknowledged") == "true",
	)
	writePage(w, r, alerts)
}

func (s *Server) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	alert, ok := s.store.acknowledgeAlert(id, actor(r))
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "alert not found")
		return
	}
	s.store.audit(alert.TenantID, actor(r), "alert.acknowledge", "security_alert", alert.ID, "")
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleSecurityStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.securityStats())
}
