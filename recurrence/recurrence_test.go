package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

// monday is a Monday morning; weekly tests anchor on it so weekday math is
// easy to eyeball.
var monday = time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 9, 0, 0, 0, time.UTC)
}

func TestExpand_WeeklyOnSelectedDays(t *testing.T) {
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1, 3}}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 14))

	want := []time.Time{
		day(time.June, 18), // Wednesday of the first week
		day(time.June, 23),
		day(time.June, 25),
		day(time.June, 30),
	}
	assert.Equal(t, want, got)
}

func TestExpand_NeverIncludesOriginalOccurrence(t *testing.T) {
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1}}

	got := Expand(monday, rule, monday.AddDate(0, 0, -7), monday.AddDate(0, 0, 14))

	for _, occ := range got {
		assert.False(t, occ.Equal(monday), "original occurrence %s must not be expanded", occ)
	}
	assert.Equal(t, []time.Time{day(time.June, 23), day(time.June, 30)}, got)
}

func TestExpand_WeeklyDefaultsToStartWeekday(t *testing.T) {
	rule := Rule{Type: Weekly, Interval: 1}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 14))

	assert.Equal(t, []time.Time{day(time.June, 23), day(time.June, 30)}, got)
}

func TestExpand_WeeklyIntervalStepsWholeWeeks(t *testing.T) {
	// With two selected days and an every-second-week rule, both days of an
	// active week are kept; the interval skips week to week, not day to day.
	rule := Rule{Type: Weekly, Interval: 2, DaysOfWeek: []int{1, 3}}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 28))

	want := []time.Time{
		day(time.June, 18), // Wednesday of the start week
		day(time.June, 30),
		day(time.July, 2),
		day(time.July, 14),
	}
	assert.Equal(t, want, got)
}

func TestExpand_WeeklyKeepsTimeOfDay(t *testing.T) {
	start := time.Date(2025, time.June, 16, 14, 30, 0, 0, time.UTC)
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{3}}

	got := Expand(start, rule, start, start.AddDate(0, 0, 7))

	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC), got[0])
}

func TestExpand_Daily(t *testing.T) {
	rule := Rule{Type: Daily, Interval: 1}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 4))

	want := []time.Time{
		day(time.June, 17),
		day(time.June, 18),
		day(time.June, 19),
		day(time.June, 20),
	}
	assert.Equal(t, want, got)
}

func TestExpand_DailyWithInterval(t *testing.T) {
	rule := Rule{Type: Daily, Interval: 3}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 9))

	want := []time.Time{
		day(time.June, 19),
		day(time.June, 22),
		day(time.June, 25),
	}
	assert.Equal(t, want, got)
}

func TestExpand_IntervalZeroMeansEvery(t *testing.T) {
	rule := Rule{Type: Daily}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 2))

	assert.Equal(t, []time.Time{day(time.June, 17), day(time.June, 18)}, got)
}

func TestExpand_Monthly(t *testing.T) {
	start := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	rule := Rule{Type: Monthly, Interval: 1}

	got := Expand(start, rule, start, start.AddDate(0, 3, 0))

	want := []time.Time{
		time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestExpand_MonthlyEndOfMonthSpillsOver(t *testing.T) {
	start := time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC)
	rule := Rule{Type: Monthly, Interval: 1}

	got := Expand(start, rule, start, start.AddDate(0, 2, 0))

	// January 31 plus one month normalizes to March 3; there is no
	// February 31.
	require.NotEmpty(t, got)
	assert.Equal(t, time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC), got[0])
}

func TestExpand_UntilDateIsInclusive(t *testing.T) {
	until := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
	rule := Rule{Type: Daily, Interval: 1, Until: &until}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 30))

	// The 9am occurrence on the until date still counts, even though the
	// until value is midnight.
	assert.Equal(t, []time.Time{day(time.June, 17), day(time.June, 18)}, got)
}

func TestExpand_WindowStartsMidSeries(t *testing.T) {
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1}}

	got := Expand(monday, rule, monday.AddDate(0, 0, 8), monday.AddDate(0, 0, 15))

	// June 23 falls before the window; stepping still anchors on the
	// original start.
	assert.Equal(t, []time.Time{day(time.June, 30)}, got)
}

func TestExpand_WindowBeforeStart(t *testing.T) {
	rule := Rule{Type: Daily, Interval: 1}
	got := Expand(monday, rule, monday.AddDate(0, 0, -14), monday.AddDate(0, 0, -7))
	assert.Empty(t, got)
}

func TestExpand_InvertedWindow(t *testing.T) {
	rule := Rule{Type: Daily, Interval: 1}
	got := Expand(monday, rule, monday.AddDate(0, 0, 7), monday)
	assert.Empty(t, got)
}

func TestExpand_NoneType(t *testing.T) {
	assert.Empty(t, Expand(monday, Rule{Type: None}, monday, monday.AddDate(0, 0, 7)))
	assert.Empty(t, Expand(monday, Rule{}, monday, monday.AddDate(0, 0, 7)))
}

func TestExpand_IgnoresInvalidDays(t *testing.T) {
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{3, 7, -1, 3}}

	got := Expand(monday, rule, monday, monday.AddDate(0, 0, 7))

	// Out-of-range values and duplicates are dropped; only Wednesday
	// remains.
	assert.Equal(t, []time.Time{day(time.June, 18)}, got)
}

func TestFromVisit_RecurringVisit(t *testing.T) {
	until := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	visit := &gatehouse.Visit{
		Recurring:          true,
		RecurrencePattern:  "weekly",
		RecurrenceInterval: 2,
		RecurrenceDays:     []int{1, 3},
		RecurrenceEnd:      &until,
	}

	rule, ok := FromVisit(visit)

	require.True(t, ok)
	assert.Equal(t, Weekly, rule.Type)
	assert.Equal(t, 2, rule.Interval)
	assert.Equal(t, []int{1, 3}, rule.DaysOfWeek)
	require.NotNil(t, rule.Until)
	assert.True(t, rule.Until.Equal(until))
}

func TestFromVisit_NotRecurring(t *testing.T) {
	_, ok := FromVisit(&gatehouse.Visit{Recurring: false, RecurrencePattern: "weekly"})
	assert.False(t, ok)
}

func TestFromVisit_UnknownPattern(t *testing.T) {
	_, ok := FromVisit(&gatehouse.Visit{Recurring: true, RecurrencePattern: "fortnightly"})
	assert.False(t, ok)
}

func TestFromVisit_NilVisit(t *testing.T) {
	_, ok := FromVisit(nil)
	assert.False(t, ok)
}
