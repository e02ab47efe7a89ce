package recurrence

import (
	"time"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// Event is one calendar entry derived from a visit.
type Event struct {
	Title   string
	Start   time.Time
	End     time.Time
	VisitID string
	Status  gatehouse.VisitStatus
	// Recurring marks generated instances of a recurring visit, as opposed
	// to the concretely scheduled occurrence.
	Recurring bool
}

// Materialize turns a visit into its calendar events inside
// [windowStart, windowEnd]: the scheduled occurrence itself when it falls in
// the window, plus one event per expanded recurrence instance. Instances
// keep the visit's duration.
func Materialize(v *gatehouse.Visit, windowStart, windowEnd time.Time) []Event {
	if v == nil {
		return nil
	}

	title := eventTitle(v)
	duration := v.ScheduledEnd.Sub(v.ScheduledStart)

	var events []Event
	if !v.ScheduledStart.Before(windowStart) && !v.ScheduledStart.After(windowEnd) {
		events = append(events, Event{
			Title:   title,
			Start:   v.ScheduledStart,
			End:     v.ScheduledEnd,
			VisitID: v.ID,
			Status:  v.Status,
		})
	}

	rule, ok := FromVisit(v)
	if !ok {
		return events
	}
	for _, start := range Expand(v.ScheduledStart, rule, windowStart, windowEnd) {
		events = append(events, Event{
			Title:     title,
			Start:     start,
			End:       start.Add(duration),
			VisitID:   v.ID,
			Status:    v.Status,
			Recurring: true,
		})
	}
	return events
}

func eventTitle(v *gatehouse.Visit) string {
	switch {
	case v.Visitor != nil && v.Purpose != "":
		return v.Visitor.FullName() + ": " + v.Purpose
	case v.Visitor != nil:
		return v.Visitor.FullName()
	case v.Purpose != "":
		return v.Purpose
	default:
		return "Visit"
	}
}
