package gatehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListOptions_Query_ZeroValueSendsNothing(t *testing.T) {
	q := ListOptions{}.query()
	assert.Empty(t, q)
}

func TestListOptions_Query_SetsPageAndLimit(t *testing.T) {
	q := ListOptions{Page: 3, Limit: 25}.query()

	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "25", q.Get("limit"))
}

func TestListOptions_Query_IgnoresNegativeValues(t *testing.T) {
	q := ListOptions{Page: -1, Limit: -10}.query()
	assert.Empty(t, q)
}

func TestListOptions_QueryOrNil_NilReceiver(t *testing.T) {
	var opts *ListOptions
	assert.Nil(t, opts.queryOrNil())
}

func TestVisitListOptions_Query_CombinesFilters(t *testing.T) {
	opts := &VisitListOptions{
		ListOptions: ListOptions{Page: 2, Limit: 50},
		Status:      VisitCheckedIn,
		FacilityID:  "f-1",
		From:        time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
	q := opts.query()

	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "checked_in", q.Get("status"))
	assert.Equal(t, "f-1", q.Get("facility_id"))
	assert.Equal(t, "2025-07-01T00:00:00Z", q.Get("from"))
	assert.Empty(t, q.Get("to"))
}

func TestVisitListOptions_Query_NilReceiver(t *testing.T) {
	var opts *VisitListOptions
	assert.Nil(t, opts.query())
}
