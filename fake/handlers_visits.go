package fake

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func (s *Server) handleListVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := visitFilter{
		tenantID:   tenantScope(r),
		status:     gatehouse.VisitStatus(q.Get("status")),
		facilityID: q.Get("facility_id"),
		visitorID:  q.Get("visitor_id"),
		from:       parseTimeParam(r, "from"),
		to:         parseTimeParam(r, "to"),
	}

	visits := s.store.listVisits(filter)
	for _, v := range visits {
		s.store.expandVisit(v)
	}
	writePage(w, r, visits)
}

func (s *Server) handleCreateVisit(w http.ResponseWriter, r *http.Request) {
	var req gatehouse.CreateVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VisitorID == "" || req.FacilityID == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "visitor_id and facility_id are required")
		return
	}
	if req.ScheduledStart.IsZero() || req.ScheduledEnd.IsZero() || !req.ScheduledEnd.After(req.ScheduledStart) {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "scheduled_end must be after scheduled_start")
		return
	}

	visitor, ok := s.store.getVisitor(req.VisitorID)
	if !ok {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "visitor does not exist")
		return
	}
	if _, ok := s.store.getFacility(req.FacilityID); !ok {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "facility does not exist")
		return
	}

	visit := &gatehouse.Visit{
		TenantID:           visitor.TenantID,
		VisitorID:          req.VisitorID,
		HostUserID:         req.HostUserID,
		FacilityID:         req.FacilityID,
		Purpose:            req.Purpose,
		ScheduledStart:     req.ScheduledStart,
		ScheduledEnd:       req.ScheduledEnd,
		EscortRequired:     req.EscortRequired,
		Recurring:          req.Recurring,
		RecurrencePattern:  req.RecurrencePattern,
		RecurrenceInterval: req.RecurrenceInterval,
		RecurrenceDays:     req.RecurrenceDays,
		RecurrenceEnd:      req.RecurrenceEnd,
	}
	created := s.store.createVisit(visit, actor(r))
	writeJSON(w, http.StatusCreated, s.store.expandVisit(created))
}

func (s *Server) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	visit, ok := s.store.getVisit(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "visit not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.expandVisit(visit))
}

func (s *Server) handleUpdateVisit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.UpdateVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	visit, err := s.store.updateVisit(id, actor(r), func(v *gatehouse.Visit) {
		if req.HostUserID != nil {
			v.HostUserID = *req.HostUserID
		}
		if req.FacilityID != nil {
			v.FacilityID = *req.FacilityID
		}
		if req.Purpose != nil {
			v.Purpose = *req.Purpose
		}
		if req.ScheduledStart != nil {
			v.ScheduledStart = *req.ScheduledStart
		}
		if req.ScheduledEnd != nil {
			v.ScheduledEnd = *req.ScheduledEnd
		}
		if req.EscortRequired != nil {
			v.EscortRequired = *req.EscortRequired
		}
	})
	if err != nil {
		s.writeVisitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.expandVisit(visit))
}

func (s *Server) handleCancelVisit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &body) {
		return
	}

	visit, err := s.store.cancelVisit(id, actor(r), body.Reason)
	if err != nil {
		s.writeVisitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.expandVisit(visit))
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req gatehouse.CheckInRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	visit, err := s.store.checkInVisit(id, actor(r), req.BadgeType)
	if err != nil {
		s.writeVisitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.expandVisit(visit))
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	visit, err := s.store.checkOutVisit(id, actor(r))
	if err != nil {
		s.writeVisitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.expandVisit(visit))
}

func (s *Server) handleQRLookup(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "token query parameter is required")
		return
	}

	visit, ok := s.store.lookupQRToken(token)
	if !ok {
		writeError(w, r, http.StatusNotFound,
			gatehouse.ErrorCodeNotFound, "check-in token not found")
		return
	}
	writeJSON(w, http.StatusOK, gatehouse.QRVisit{
		Token: token,
		Visit: s.store.expandVisit(visit),
	})
}

// writeVisitError maps store errors onto the platform contract.
func (s *Server) writeVisitError(w http.ResponseWriter, r *http.Request, err error) {
	var te *transitionError
	var de *denialError
	switch {
	case errors.Is(err, errVisitNotFound):
		writeError(w, r, http.StatusNotFound, gatehouse.ErrorCodeNotFound, "visit not found")
	case errors.As(err, &de):
		writeError(w, r, http.StatusForbidden, gatehouse.ErrorCodeWatchlistMatch, de.Error())
	case errors.As(err, &te):
		writeError(w, r, http.StatusConflict, gatehouse.ErrorCodeConflict, te.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, gatehouse.ErrorCodeInternal, "internal server error")
	}
}
