package fake

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
	"github.com/gatehouse-hq/gatehouse-go/recurrence"
)

// writeAuditCSV streams audit entries as a CSV attachment.
func writeAuditCSV(w http.ResponseWriter, logs []*gatehouse.AuditLog) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-logs.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"id", "tenant_id", "actor", "action", "resource", "resource_id",
		"detail", "compliance_flags", "created_at",
	})
	for _, l := range logs {
		flags := make([]string, 0, len(l.ComplianceFlags))
		for _, f := range l.ComplianceFlags {
			flags = append(flags, string(f))
		}
		_ = cw.Write([]string{
			l.ID, l.TenantID, l.Actor, l.Action, l.Resource, l.ResourceID,
			l.Detail, strings.Join(flags, "|"), l.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func (s *Server) handleExportCalendar(w http.ResponseWriter, r *http.Request) {
	from := parseTimeParam(r, "from")
	to := parseTimeParam(r, "to")
	now := s.store.now()
	if from.IsZero() {
		from = now.Truncate(24 * time.Hour)
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}

	visits := s.store.listVisits(visitFilter{
		tenantID:   tenantScope(r),
		facilityID: r.URL.Query().Get("facility_id"),
	})

	var events []recurrence.Event
	for _, v := range visits {
		if v.Status == gatehouse.VisitCancelled || v.Status == gatehouse.VisitDenied {
			continue
		}
		events = append(events, recurrence.Materialize(s.store.expandVisit(v), from, to)...)
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", `attachment; filename="visits.ics"`)
	w.WriteHeader(http.StatusOK)
	writeICS(w, events, now)
}

// writeICS renders events as an iCalendar document. RFC 5545 wants CRLF
// line endings and escaped text values.
func writeICS(w http.ResponseWriter, events []recurrence.Event, stamp time.Time) {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//Gatehouse//Visit Calendar//EN")
	line("CALSCALE:GREGORIAN")

	for _, ev := range events {
		line("BEGIN:VEVENT")
		line(fmt.Sprintf("UID:%s-%d@gatehouse", ev.VisitID, ev.Start.Unix()))
		line("DTSTAMP:" + icsTime(stamp))
		line("DTSTART:" + icsTime(ev.Start))
		line("DTEND:" + icsTime(ev.End))
		line("SUMMARY:" + icsEscape(ev.Title))
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	_, _ = w.Write([]byte(b.String()))
}

func icsTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func icsEscape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
