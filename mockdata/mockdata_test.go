package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func TestGenerator_SameSeedSameRecords(t *testing.T) {
	a := New(7)
	b := New(7)

	assert.Equal(t, a.Tenants(3), b.Tenants(3))
	assert.Equal(t, a.Facilities("t-1", 2), b.Facilities("t-1", 2))
	assert.Equal(t, a.Visitors("t-1", 5), b.Visitors("t-1", 5))
	assert.Equal(t, a.AuditLogs("t-1", 4), b.AuditLogs("t-1", 4))
	assert.Equal(t, a.SecurityStats(), b.SecurityStats())
}

func TestGenerator_DifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	assert.NotEqual(t, a.Visitors("t-1", 5), b.Visitors("t-1", 5))
}

func TestGenerator_Tenants(t *testing.T) {
	g := New(3)

	tenants := g.Tenants(8)

	require.Len(t, tenants, 8)
	seen := make(map[string]bool)
	for _, tn := range tenants {
		assert.True(t, tn.IsActive)
		assert.NotEmpty(t, tn.Slug)
		assert.False(t, seen[tn.ID], "tenant IDs must be unique")
		seen[tn.ID] = true
	}
	// Past the fixed name list, names get a numeric suffix.
	assert.Equal(t, "Acme Federal", tenants[0].Name)
	assert.Equal(t, "acme-federal", tenants[0].Slug)
	assert.Equal(t, "Acme Federal 2", tenants[6].Name)
	assert.Equal(t, "acme-federal-2", tenants[6].Slug)
}

func TestGenerator_Visits_ConsistentTimestamps(t *testing.T) {
	g := New(11)
	facilities := g.Facilities("t-1", 3)
	visitors := g.Visitors("t-1", 6)
	hosts := g.Users("t-1", 3)

	visits := g.Visits("t-1", visitors, facilities, hosts, 60)

	require.Len(t, visits, 60)
	for _, v := range visits {
		assert.NotEmpty(t, v.VisitorID)
		assert.NotEmpty(t, v.FacilityID)
		assert.NotEmpty(t, v.HostUserID)
		assert.True(t, v.ScheduledEnd.After(v.ScheduledStart))

		switch v.Status {
		case gatehouse.VisitCheckedOut:
			require.NotNil(t, v.CheckInTime)
			require.NotNil(t, v.CheckOutTime)
			assert.True(t, v.CheckOutTime.After(*v.CheckInTime))
			assert.NotNil(t, v.Badge)
		case gatehouse.VisitCheckedIn:
			require.NotNil(t, v.CheckInTime)
			assert.Nil(t, v.CheckOutTime)
			assert.NotNil(t, v.Badge)
		case gatehouse.VisitPreRegistered, gatehouse.VisitCancelled:
			assert.Nil(t, v.CheckInTime)
			assert.Nil(t, v.CheckOutTime)
			assert.Nil(t, v.Badge)
		default:
			t.Fatalf("unexpected status %q", v.Status)
		}

		if v.Recurring {
			assert.Equal(t, gatehouse.VisitPreRegistered, v.Status,
				"only upcoming visits recur")
			assert.Equal(t, "weekly", v.RecurrencePattern)
			assert.Equal(t, 1, v.RecurrenceInterval)
			assert.Equal(t, []int{int(v.ScheduledStart.Weekday())}, v.RecurrenceDays)
			require.NotNil(t, v.RecurrenceEnd)
			assert.True(t, v.RecurrenceEnd.After(v.ScheduledStart))
		}
	}
}

func TestGenerator_Visits_RequireDependencies(t *testing.T) {
	g := New(1)
	assert.Nil(t, g.Visits("t-1", nil, g.Facilities("t-1", 1), g.Users("t-1", 1), 5))
	assert.Nil(t, g.Visits("t-1", g.Visitors("t-1", 1), nil, g.Users("t-1", 1), 5))
	assert.Nil(t, g.Visits("t-1", g.Visitors("t-1", 1), g.Facilities("t-1", 1), nil, 5))
}

func TestGenerator_AuditLogs_NewestFirst(t *testing.T) {
	g := New(5)

	logs := g.AuditLogs("t-1", 10)

	require.Len(t, logs, 10)
	for i, entry := range logs {
		assert.Equal(t, "t-1", entry.TenantID)
		assert.NotEmpty(t, entry.ComplianceFlags)
		assert.Contains(t, entry.Action, entry.Resource)
		if i > 0 {
			assert.True(t, entry.CreatedAt.Before(logs[i-1].CreatedAt),
				"entries are ordered newest first")
		}
	}
}

func TestGenerator_WatchlistEntries(t *testing.T) {
	g := New(9)

	entries := g.WatchlistEntries("t-1", 6)

	require.Len(t, entries, 6)
	severities := map[gatehouse.Severity]bool{
		gatehouse.SeverityLow: true, gatehouse.SeverityMedium: true,
		gatehouse.SeverityHigh: true, gatehouse.SeverityCritical: true,
	}
	for _, e := range entries {
		assert.True(t, e.Active)
		assert.Equal(t, "t-1", e.TenantID)
		assert.NotEmpty(t, e.FullName)
		assert.True(t, severities[e.Severity], "unknown severity %q", e.Severity)
	}
}

func TestGenerator_SecurityStats_PlausibleRanges(t *testing.T) {
	g := New(13)

	stats := g.SecurityStats()

	assert.GreaterOrEqual(t, stats.WatchlistEntries, 10)
	assert.Less(t, stats.WatchlistEntries, 40)
	assert.GreaterOrEqual(t, stats.ScreeningsToday, 5)
	assert.Less(t, stats.ScreeningsToday, 50)
	assert.Less(t, stats.ActiveAlerts, 5)
	assert.Less(t, stats.DeniedToday, 3)
}

func TestNewAt_AnchorsTimestamps(t *testing.T) {
	base := time.Date(2025, time.March, 3, 12, 34, 56, 0, time.UTC)
	g := NewAt(4, base)

	tenants := g.Tenants(1)

	// Timestamps derive from the base, truncated to the minute.
	anchored := base.Truncate(time.Minute)
	assert.Equal(t, anchored.AddDate(0, 0, -30), tenants[0].CreatedAt)
	assert.Equal(t, anchored, tenants[0].UpdatedAt)
}

func TestCompliance_FixedPlaceholders(t *testing.T) {
	m := Compliance()

	assert.InDelta(t, 98.2, m.FICAM, 0.001)
	assert.InDelta(t, 100.0, m.FIPS140, 0.001)
	assert.InDelta(t, 96.5, m.HIPAA, 0.001)
	assert.InDelta(t, 94.8, m.FERPA, 0.001)
	assert.InDelta(t, 99.1, m.AuditCoverage, 0.001)
	assert.Equal(t, m, Compliance())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-federal", slugify("Acme Federal"))
	assert.Equal(t, "annex-b", slugify("Annex B"))
	assert.Equal(t, "dover-municipal-3", slugify("Dover Municipal 3"))
	assert.Equal(t, "obrien", slugify("O'Brien"))
}
