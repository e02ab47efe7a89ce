package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func reviewVisit() *gatehouse.Visit {
	return &gatehouse.Visit{
		ID:             "v-1",
		Status:         gatehouse.VisitPreRegistered,
		Purpose:        "records review",
		ScheduledStart: monday,
		ScheduledEnd:   monday.Add(90 * time.Minute),
		Visitor:        &gatehouse.Visitor{FirstName: "Ana", LastName: "Flores"},
	}
}

func TestMaterialize_SingleVisitInWindow(t *testing.T) {
	v := reviewVisit()

	events := Materialize(v, monday.AddDate(0, 0, -1), monday.AddDate(0, 0, 1))

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "Ana Flores: records review", ev.Title)
	assert.Equal(t, "v-1", ev.VisitID)
	assert.Equal(t, gatehouse.VisitPreRegistered, ev.Status)
	assert.True(t, ev.Start.Equal(v.ScheduledStart))
	assert.True(t, ev.End.Equal(v.ScheduledEnd))
	assert.False(t, ev.Recurring)
}

func TestMaterialize_SingleVisitOutsideWindow(t *testing.T) {
	v := reviewVisit()
	events := Materialize(v, monday.AddDate(0, 0, 7), monday.AddDate(0, 0, 14))
	assert.Empty(t, events)
}

func TestMaterialize_RecurringVisit(t *testing.T) {
	v := reviewVisit()
	v.Recurring = true
	v.RecurrencePattern = "weekly"
	v.RecurrenceInterval = 1
	v.RecurrenceDays = []int{1}

	events := Materialize(v, monday, monday.AddDate(0, 0, 14))

	// The scheduled occurrence plus the next two Mondays.
	require.Len(t, events, 3)
	assert.False(t, events[0].Recurring)

	for _, ev := range events[1:] {
		assert.True(t, ev.Recurring)
		assert.Equal(t, "v-1", ev.VisitID)
		assert.Equal(t, "Ana Flores: records review", ev.Title)
		assert.Equal(t, 90*time.Minute, ev.End.Sub(ev.Start), "instances keep the visit's duration")
	}
	assert.True(t, events[1].Start.Equal(monday.AddDate(0, 0, 7)))
	assert.True(t, events[2].Start.Equal(monday.AddDate(0, 0, 14)))
}

func TestMaterialize_RecurringVisitScheduledBeforeWindow(t *testing.T) {
	v := reviewVisit()
	v.Recurring = true
	v.RecurrencePattern = "weekly"
	v.RecurrenceInterval = 1
	v.RecurrenceDays = []int{1}

	events := Materialize(v, monday.AddDate(0, 0, 5), monday.AddDate(0, 0, 14))

	// Only generated instances remain when the base occurrence predates the
	// window.
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.True(t, ev.Recurring)
	}
}

func TestMaterialize_TitleFallbacks(t *testing.T) {
	window := func(v *gatehouse.Visit) []Event {
		return Materialize(v, monday.AddDate(0, 0, -1), monday.AddDate(0, 0, 1))
	}

	v := reviewVisit()
	v.Purpose = ""
	events := window(v)
	require.Len(t, events, 1)
	assert.Equal(t, "Ana Flores", events[0].Title)

	v = reviewVisit()
	v.Visitor = nil
	events = window(v)
	require.Len(t, events, 1)
	assert.Equal(t, "records review", events[0].Title)

	v = reviewVisit()
	v.Visitor = nil
	v.Purpose = ""
	events = window(v)
	require.Len(t, events, 1)
	assert.Equal(t, "Visit", events[0].Title)
}

func TestMaterialize_NilVisit(t *testing.T) {
	assert.Nil(t, Materialize(nil, monday, monday.AddDate(0, 0, 7)))
}
