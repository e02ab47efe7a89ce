package fake

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

func writeSeedFile(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestDefaultSeedAt_Deterministic(t *testing.T) {
	base := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

	a := DefaultSeedAt(base)
	b := DefaultSeedAt(base)

	assert.Equal(t, a, b)
	require.Len(t, a.Tenants, 2)
	assert.NotEmpty(t, a.Facilities)
	assert.NotEmpty(t, a.Visitors)
	assert.NotEmpty(t, a.Users)
	assert.NotEmpty(t, a.Visits)
	assert.NotEmpty(t, a.Watchlist)
	assert.NotEmpty(t, a.AuditLogs)
}

func TestLoadSeedFile_ResolvesReferences(t *testing.T) {
	path := writeSeedFile(t, `
tenants:
  - name: Department of Energy
    slug: doe
    domain: energy.example.gov
  - name: NASA Glenn
    slug: nasa
facilities:
  - name: Forrestal Building
    tenant: doe
    address: 1000 Independence Ave SW
    security_level: high
    escort_required: true
  - name: Annex
visitors:
  - first_name: Ana
    last_name: Flores
    email: ana@flores.example.com
    company: Flores Engineering
    tenant: doe
users:
  - email: dana.hart@energy.example.gov
    first_name: Dana
    last_name: Hart
    tenant: doe
visits:
  - visitor: ana@flores.example.com
    host: dana.hart@energy.example.gov
    facility: Forrestal Building
    purpose: Contract kickoff
    starts_in: 2h
    duration: 90m
  - visitor: ana@flores.example.com
    facility: Forrestal Building
    purpose: Badge pickup
    starts_in: -1h
    status: checked_in
watchlist:
  - full_name: Marcus Webb
    aliases:
      - M. Webb
    reason: prior incident
    tenant: doe
`)

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)

	require.Len(t, seed.Tenants, 2)
	doe := seed.Tenants[0]
	assert.Equal(t, "doe", doe.Slug)
	assert.Equal(t, "energy.example.gov", doe.Domain)
	assert.True(t, doe.IsActive)
	assert.NotEmpty(t, doe.ID)

	require.Len(t, seed.Facilities, 2)
	forrestal := seed.Facilities[0]
	assert.Equal(t, doe.ID, forrestal.TenantID)
	assert.Equal(t, "high", forrestal.SecurityLevel)
	assert.True(t, forrestal.EscortRequired)
	// An omitted tenant falls back to the first one in the file.
	assert.Equal(t, doe.ID, seed.Facilities[1].TenantID)

	require.Len(t, seed.Visitors, 1)
	ana := seed.Visitors[0]
	assert.Equal(t, doe.ID, ana.TenantID)
	assert.Equal(t, "Flores Engineering", ana.Company)

	require.Len(t, seed.Users, 1)
	require.Len(t, seed.Visits, 2)

	kickoff := seed.Visits[0]
	assert.Equal(t, ana.ID, kickoff.VisitorID)
	assert.Equal(t, seed.Users[0].ID, kickoff.HostUserID)
	assert.Equal(t, forrestal.ID, kickoff.FacilityID)
	assert.Equal(t, gatehouse.VisitPreRegistered, kickoff.Status)
	assert.Equal(t, 90*time.Minute, kickoff.ScheduledEnd.Sub(kickoff.ScheduledStart))
	assert.True(t, kickoff.EscortRequired, "visit inherits the facility's escort requirement")
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), kickoff.ScheduledStart, 10*time.Second)

	pickup := seed.Visits[1]
	assert.Equal(t, gatehouse.VisitCheckedIn, pickup.Status)
	assert.Empty(t, pickup.HostUserID)
	assert.Equal(t, time.Hour, pickup.ScheduledEnd.Sub(pickup.ScheduledStart))
	require.NotNil(t, pickup.CheckInTime, "checked-in visits get a check-in time")
	require.NotNil(t, pickup.Badge)
	assert.Equal(t, gatehouse.BadgePrinted, pickup.Badge.Type)
	assert.Nil(t, pickup.CheckOutTime)

	require.Len(t, seed.Watchlist, 1)
	webb := seed.Watchlist[0]
	assert.Equal(t, doe.ID, webb.TenantID)
	assert.Equal(t, []string{"M. Webb"}, webb.Aliases)
	assert.Equal(t, gatehouse.SeverityMedium, webb.Severity, "severity defaults to medium")
	assert.True(t, webb.Active)
}

func TestLoadSeedFile_CheckedOutVisit(t *testing.T) {
	path := writeSeedFile(t, `
tenants:
  - name: Acme
    slug: acme
facilities:
  - name: HQ
visitors:
  - first_name: Omar
    last_name: Haddad
    email: omar@example.com
visits:
  - visitor: omar@example.com
    facility: HQ
    purpose: Completed delivery
    starts_in: -26h
    duration: 45m
    status: checked_out
`)

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)

	require.Len(t, seed.Visits, 1)
	v := seed.Visits[0]
	require.NotNil(t, v.CheckInTime)
	require.NotNil(t, v.CheckOutTime)
	assert.Equal(t, 45*time.Minute, v.CheckOutTime.Sub(*v.CheckInTime))
}

func TestLoadSeedFile_UnknownTenant(t *testing.T) {
	path := writeSeedFile(t, `
tenants:
  - name: Acme
    slug: acme
facilities:
  - name: HQ
    tenant: ghost
`)

	_, err := LoadSeedFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tenant "ghost"`)
	assert.Contains(t, err.Error(), `facility "HQ"`)
}

func TestLoadSeedFile_UnknownVisitor(t *testing.T) {
	path := writeSeedFile(t, `
tenants:
  - name: Acme
    slug: acme
facilities:
  - name: HQ
visits:
  - visitor: nobody@example.com
    facility: HQ
    starts_in: 1h
`)

	_, err := LoadSeedFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown visitor "nobody@example.com"`)
}

func TestLoadSeedFile_BadStartsIn(t *testing.T) {
	path := writeSeedFile(t, `
tenants:
  - name: Acme
    slug: acme
facilities:
  - name: HQ
visitors:
  - first_name: Ana
    last_name: Flores
    email: ana@example.com
visits:
  - visitor: ana@example.com
    facility: HQ
    starts_in: soon
`)

	_, err := LoadSeedFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `bad starts_in "soon"`)
}

func TestLoadSeedFile_UnknownStatus(t *testing.T) {
	path := writeSeedFile(t, `
tenants:
  - name: Acme
    slug: acme
facilities:
  - name: HQ
visitors:
  - first_name: Ana
    last_name: Flores
    email: ana@example.com
visits:
  - visitor: ana@example.com
    facility: HQ
    starts_in: 1h
    status: limbo
`)

	_, err := LoadSeedFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "limbo"`)
}

func TestLoadSeedFile_NoTenants(t *testing.T) {
	path := writeSeedFile(t, `
visitors:
  - first_name: Ana
    last_name: Flores
    email: ana@example.com
`)

	_, err := LoadSeedFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "defines no tenants")
}

func TestLoadSeedFile_MissingFile(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestLoadSeedFile_MalformedYAML(t *testing.T) {
	path := writeSeedFile(t, "tenants: [")

	_, err := LoadSeedFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse seed file")
}

func TestSeedApply_IssuesQRTokens(t *testing.T) {
	seed := &Seed{
		Tenants: []*gatehouse.Tenant{{ID: "t-1", Name: "Acme", Slug: "acme", IsActive: true}},
		Visits: []*gatehouse.Visit{
			{ID: "v-pre", TenantID: "t-1", Status: gatehouse.VisitPreRegistered},
			{ID: "v-in", TenantID: "t-1", Status: gatehouse.VisitCheckedIn},
		},
	}

	New(Options{Seed: seed}, zap.NewNop())

	// Pre-registered visits are issued a token on load so seeded data can
	// check in over QR; others are left alone.
	assert.NotEmpty(t, seed.Visits[0].QRToken)
	assert.Empty(t, seed.Visits[1].QRToken)
}
