// Package recurrence expands recurring visits into their concrete occurrence
// dates and materializes calendar events from them.
package recurrence

import (
	"sort"
	"time"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// Type selects the repetition pattern. Values match the wire values of
// Visit.RecurrencePattern.
type Type string

const (
	None    Type = "none"
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// Rule describes how a visit repeats.
type Rule struct {
	Type     Type
	Interval int
	// DaysOfWeek restricts weekly rules to specific weekdays, using
	// 0=Sunday through 6=Saturday. Empty means repeat on the start's
	// weekday only.
	DaysOfWeek []int
	// Until is the inclusive last date occurrences may fall on. Nil means
	// no end date.
	Until *time.Time
}

// FromVisit builds the rule encoded on a visit. ok is false when the visit
// does not recur.
func FromVisit(v *gatehouse.Visit) (Rule, bool) {
	if v == nil || !v.Recurring {
		return Rule{}, false
	}
	t := Type(v.RecurrencePattern)
	switch t {
	case Daily, Weekly, Monthly:
	default:
		return Rule{}, false
	}
	return Rule{
		Type:       t,
		Interval:   v.RecurrenceInterval,
		DaysOfWeek: v.RecurrenceDays,
		Until:      v.RecurrenceEnd,
	}, true
}

// Expand returns the occurrence instants of r falling inside
// [windowStart, windowEnd], in order. The original occurrence at start is
// never included; each returned instant keeps start's time of day.
//
// Weekly rules with a days-of-week filter walk every matching weekday inside
// an active week and apply the interval only when crossing a week boundary,
// so an interval of 2 with Monday and Wednesday selected yields both days of
// every second week rather than skipping within the week.
func Expand(start time.Time, r Rule, windowStart, windowEnd time.Time) []time.Time {
	if r.Type == None || r.Type == "" || windowEnd.Before(windowStart) {
		return nil
	}

	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	end := windowEnd
	if r.Until != nil {
		// Until is date-inclusive: an occurrence on the until date counts
		// whatever its clock time.
		untilEnd := endOfDay(*r.Until)
		if untilEnd.Before(end) {
			end = untilEnd
		}
	}
	if end.Before(start) {
		return nil
	}

	var out []time.Time
	emit := func(t time.Time) {
		if t.Equal(start) {
			return
		}
		if t.Before(windowStart) || t.After(end) {
			return
		}
		out = append(out, t)
	}

	switch r.Type {
	case Daily:
		for cur := start.AddDate(0, 0, interval); !cur.After(end); cur = cur.AddDate(0, 0, interval) {
			emit(cur)
		}

	case Monthly:
		// AddDate normalizes end-of-month overflow, so a rule starting on
		// the 31st lands on the spill-over day in shorter months.
		for cur := start.AddDate(0, interval, 0); !cur.After(end); cur = cur.AddDate(0, interval, 0) {
			emit(cur)
		}

	case Weekly:
		days := normalizeDays(r.DaysOfWeek)
		if len(days) == 0 {
			days = []int{int(start.Weekday())}
		}
		// Walk active weeks from the week containing start, stepping
		// interval weeks at a time, and emit every selected weekday inside
		// each. Days in start's week before start are skipped.
		for week := weekStart(start); !week.After(end); week = week.AddDate(0, 0, 7*interval) {
			for _, dow := range days {
				cur := week.AddDate(0, 0, dow)
				cur = time.Date(cur.Year(), cur.Month(), cur.Day(),
					start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
				if cur.Before(start) {
					continue
				}
				emit(cur)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// weekStart returns midnight of the Sunday beginning t's week, in t's
// location.
func weekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func normalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	var out []int
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
