package fake

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 200
)

// errorPayload is the platform error contract.
type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Path    string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorPayload{
		Message: message,
		Code:    code,
		Path:    r.URL.Path,
	})
}

// decodeJSON decodes the request body into dst, answering 400 on malformed
// input. Returns false when the request was already answered.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest,
			gatehouse.ErrorCodeValidationFailed, "request body is not valid JSON")
		return false
	}
	return true
}

// listResponse is the paginated list envelope. Embedding Pagination puts
// page, limit, total and pages at the top level next to data.
type listResponse struct {
	Data interface{} `json:"data"`
	gatehouse.Pagination
}

func parsePage(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// paginate slices one page out of items and builds the envelope fields.
// Pages is at least 1 so clients can always render a pager.
func paginate[T any](items []T, page, limit int) ([]T, gatehouse.Pagination) {
	total := len(items)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return items[start:end], gatehouse.Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page, limit := parsePage(r)
	window, pg := paginate(items, page, limit)
	writeJSON(w, http.StatusOK, listResponse{Data: window, Pagination: pg})
}

// actor identifies who performed a mutation in audit entries. The fake has
// no user database; the X-Actor header lets tests impersonate someone.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "api-client"
}

// tenantScope reads the optional tenant scoping header.
func tenantScope(r *http.Request) string {
	return r.Header.Get("X-Tenant-ID")
}

func parseTimeParam(r *http.Request, name string) time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
