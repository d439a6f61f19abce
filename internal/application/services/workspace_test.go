package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

func TestStorageKey(t *testing.T) {
	id := uuid.MustParse("6f1c1d7e-3c1a-4a57-9a43-0f6f1f0c2b11")
	assert.Equal(t, "workspace:6f1c1d7e-3c1a-4a57-9a43-0f6f1f0c2b11:surgery-auth-storage", services.StorageKey(id, services.SessionStorageKey))
}

func TestWorkspace_TenantFromHost(t *testing.T) {
	ws := newFixture(tenant.Tier1).workspace()
	assert.Equal(t, "clinic1.localhost", ws.Hostname())
	assert.Equal(t, "clinic1", ws.Tenant.Context().Label())
	assert.Empty(t, ws.AccessToken())
	assert.Equal(t, tenant.TierFree, ws.Tier())
	assert.Empty(t, ws.Grant().Permissions)
}

func TestWorkspace_LoginGrantsRoleIntersectTier(t *testing.T) {
	f := newFixture(tenant.Tier1)
	ws := f.workspace()
	signIn(t, ws, user.RoleDoctor, 7)

	assert.Equal(t, "access-token", ws.AccessToken())
	assert.Equal(t, tenant.Tier1, ws.Tier())
	g := ws.Grant()
	assert.True(t, g.HasPermission(permission.CreateAppointments))
	assert.False(t, g.HasPermission(permission.ViewBilling))

	tc := ws.Tenant.Context()
	require.NotNil(t, tc.ClinicID)
	assert.Equal(t, int64(7), *tc.ClinicID)
	assert.Equal(t, []audit.AuditAction{audit.ActionLogin}, f.audit.Actions())
}

func TestWorkspace_HydrateRestoresEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier2)
	first := f.workspace()
	signIn(t, first, user.RoleAdmin, 3)
	_, err := first.Medical.Start(ctx, 11, ptr(int64(99)))
	require.NoError(t, err)

	again := services.NewWorkspace(first.ID, clinicHost, f.deps)
	assert.False(t, again.Hydrated())
	again.Hydrate(ctx)

	assert.True(t, again.Hydrated())
	assert.True(t, again.Session.Snapshot().IsAuthenticated)
	require.NotNil(t, again.Tenant.Context().ClinicID)
	assert.Equal(t, int64(3), *again.Tenant.Context().ClinicID)

	med := again.Medical.Snapshot()
	require.NotNil(t, med.CurrentPatientID)
	assert.Equal(t, int64(11), *med.CurrentPatientID)
	assert.False(t, med.IsReadOnly)

	require.Eventually(t, func() bool { return again.Tier() == tenant.Tier2 }, time.Second, 5*time.Millisecond)
}

func TestWorkspace_HydrateIgnoresLinkageFromAnotherSubdomain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier1)
	first := f.workspace()
	signIn(t, first, user.RoleDoctor, 3)
	f.store.Put(services.StorageKey(first.ID, services.TenantStorageKey), []byte(`{"clinic_id":3,"clinic_subdomain":"other"}`))

	again := services.NewWorkspace(first.ID, clinicHost, f.deps)
	again.Hydrate(ctx)
	assert.True(t, again.Session.Snapshot().IsAuthenticated)
	assert.Nil(t, again.Tenant.Context().ClinicID)
}

func TestWorkspace_UnauthenticatedHydrateSkipsLinkedRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier1)
	ws := f.workspace()
	f.store.Put(services.StorageKey(ws.ID, services.MedicalStorageKey), []byte(`{"current_patient_id":5,"active_appointment_id":null}`))

	ws.Hydrate(ctx)
	assert.True(t, ws.Hydrated())
	assert.Nil(t, ws.Medical.Snapshot().CurrentPatientID)
}

func TestWorkspace_LogoutResetsState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier3)
	ws := f.workspace()
	ws.Hydrate(ctx)
	signIn(t, ws, user.RoleDoctor, 3)
	_, err := ws.Medical.Start(ctx, 11, nil)
	require.NoError(t, err)

	require.NoError(t, ws.Logout(ctx))
	assert.False(t, ws.Session.Snapshot().IsAuthenticated)
	assert.True(t, ws.Hydrated())
	assert.Nil(t, ws.Tenant.Context().ClinicID)
	assert.Nil(t, ws.Medical.Snapshot().CurrentPatientID)
	assert.Equal(t, tenant.TierFree, ws.Tier())
	assert.Empty(t, ws.Grant().Permissions)
	assert.False(t, f.store.Has(services.StorageKey(ws.ID, services.SessionStorageKey)))
	assert.False(t, f.store.Has(services.StorageKey(ws.ID, services.TenantStorageKey)))
	assert.False(t, f.store.Has(services.StorageKey(ws.ID, services.MedicalStorageKey)))
}

func TestWorkspace_ForceLogoutAudits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier1)
	ws := f.workspace()
	signIn(t, ws, user.RoleAssistant, 3)

	ws.ForceLogout(ctx, "User does not belong to this cabinet")
	assert.False(t, ws.Session.Snapshot().IsAuthenticated)

	entries := f.audit.Entries()
	require.Len(t, entries, 2)
	last := entries[1]
	assert.Equal(t, audit.ActionTenantMismatch, last.Action)
	assert.Equal(t, "clinic1", last.Subdomain)
	assert.Equal(t, "dr.alami", last.Username)
	require.NotNil(t, last.ClinicID)
	assert.Equal(t, int64(3), *last.ClinicID)
}

func TestWorkspaceRegistry_Open(t *testing.T) {
	f := newFixture(tenant.Tier1)
	reg := services.NewWorkspaceRegistry(f.deps, time.Hour)

	ws, created := reg.Open(uuid.Nil, clinicHost)
	require.True(t, created)
	assert.NotEqual(t, uuid.Nil, ws.ID)

	same, created := reg.Open(ws.ID, "clinic1.localhost:3000")
	assert.False(t, created)
	assert.Same(t, ws, same)

	other, created := reg.Open(ws.ID, "clinic2.localhost")
	assert.True(t, created)
	assert.NotEqual(t, ws.ID, other.ID)
	assert.Equal(t, "clinic2", other.Tenant.Context().Label())

	known := uuid.New()
	rebuilt, created := reg.Open(known, clinicHost)
	assert.False(t, created)
	assert.Equal(t, known, rebuilt.ID)
	assert.Equal(t, 3, reg.Len())

	got, ok := reg.Get(known)
	require.True(t, ok)
	assert.Same(t, rebuilt, got)
}

func TestWorkspaceRegistry_OpenSweptWorkspaceOnAnotherHost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier1)
	reg := services.NewWorkspaceRegistry(f.deps, time.Minute)

	ws, _ := reg.Open(uuid.Nil, clinicHost)
	ws.Hydrate(ctx)
	signIn(t, ws, user.RoleDoctor, 1)
	ws.Touch(time.Now().Add(-2 * time.Minute))
	require.Equal(t, 1, reg.Sweep(time.Now()))

	elsewhere, created := reg.Open(ws.ID, "clinic2.localhost")
	assert.False(t, created)
	elsewhere.Hydrate(ctx)
	snap := elsewhere.Session.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Empty(t, elsewhere.AccessToken())
	assert.Nil(t, elsewhere.Tenant.Context().ClinicID)
	assert.Empty(t, elsewhere.Grant().Permissions)
	assert.True(t, f.store.Has(services.StorageKey(ws.ID, services.SessionStorageKey)))
}

func TestWorkspaceRegistry_OpenSweptWorkspaceOnSameHost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier1)
	reg := services.NewWorkspaceRegistry(f.deps, time.Minute)

	ws, _ := reg.Open(uuid.Nil, clinicHost)
	ws.Hydrate(ctx)
	signIn(t, ws, user.RoleDoctor, 1)
	ws.Touch(time.Now().Add(-2 * time.Minute))
	require.Equal(t, 1, reg.Sweep(time.Now()))

	back, created := reg.Open(ws.ID, clinicHost)
	assert.False(t, created)
	back.Hydrate(ctx)
	assert.True(t, back.Session.Snapshot().IsAuthenticated)
	assert.Equal(t, "access-token", back.AccessToken())
}

func TestWorkspaceRegistry_Sweep(t *testing.T) {
	f := newFixture(tenant.Tier1)
	reg := services.NewWorkspaceRegistry(f.deps, time.Minute)

	stale, _ := reg.Open(uuid.Nil, clinicHost)
	fresh, _ := reg.Open(uuid.Nil, clinicHost)
	now := time.Now()
	stale.Touch(now.Add(-2 * time.Minute))
	fresh.Touch(now)

	assert.Equal(t, 1, reg.Sweep(now))
	_, ok := reg.Get(stale.ID)
	assert.False(t, ok)
	_, ok = reg.Get(fresh.ID)
	assert.True(t, ok)

	assert.Equal(t, 0, services.NewWorkspaceRegistry(f.deps, 0).Sweep(now))
}
