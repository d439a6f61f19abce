package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/test/mocks"
)

func TestPatientService_ListNormalizesQuery(t *testing.T) {
	ws := newFixture(tenant.Tier1).workspace()
	var got medical.PatientQuery
	repo := &mocks.PatientRepositoryMock{ListFn: func(_ context.Context, _ ports.RequestScope, q medical.PatientQuery) (*medical.PatientPage, error) {
		got = q
		return &medical.PatientPage{Results: []medical.Patient{{ID: 1}}, TotalCount: 31}, nil
	}}
	svc := services.NewPatientService(repo, quietLogger())

	page, err := svc.List(context.Background(), ws, medical.PatientQuery{Search: " ben ", Page: -3})
	require.NoError(t, err)
	assert.Equal(t, 31, page.TotalCount)
	assert.Equal(t, medical.PatientQuery{Search: "ben", Page: 1}, got)
}

func TestPatientService_ReadsDegrade(t *testing.T) {
	ctx := context.Background()
	ws := newFixture(tenant.Tier1).workspace()
	repo := &mocks.PatientRepositoryMock{ListFn: func(context.Context, ports.RequestScope, medical.PatientQuery) (*medical.PatientPage, error) {
		return nil, ports.ErrBackendUnreachable
	}}
	svc := services.NewPatientService(repo, quietLogger())

	page, err := svc.List(ctx, ws, medical.PatientQuery{})
	require.NoError(t, err)
	assert.Equal(t, medical.EmptyPatientPage(), page)

	p, err := svc.Get(ctx, ws, 3)
	require.NoError(t, err)
	assert.Nil(t, p)

	repo.ListFn = func(context.Context, ports.RequestScope, medical.PatientQuery) (*medical.PatientPage, error) {
		return nil, ports.ErrTenantMismatch
	}
	_, err = svc.List(ctx, ws, medical.PatientQuery{})
	assert.ErrorIs(t, err, ports.ErrTenantMismatch)
}

func TestPatientService_WritesSurfaceErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(tenant.Tier1)
	ws := f.workspace()
	signIn(t, ws, user.RoleDoctor, 1)
	repo := &mocks.PatientRepositoryMock{DeleteFn: func(context.Context, ports.RequestScope, int64) error {
		return &ports.BackendError{Status: 403, Detail: "You do not have permission to perform this action."}
	}}
	svc := services.NewPatientService(repo, quietLogger())

	err := svc.Delete(ctx, ws, 3)
	var be *ports.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 403, be.Status)

	p, err := svc.Create(ctx, ws, &medical.CreatePatientRequest{FirstName: "Amina", LastName: "Benali"})
	require.NoError(t, err)
	assert.Equal(t, "Amina Benali", p.FullName)

	entries := f.audit.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionCreate, entries[1].Action)
	assert.Equal(t, audit.ResourcePatient, entries[1].Resource)
	assert.Equal(t, "dr.alami", entries[1].Username)
}

func TestPatientService_SearchKeepsOnlyLatest(t *testing.T) {
	f := newFixture(tenant.Tier1)
	f.deps.DebounceDelay = 200 * time.Millisecond
	ws := f.workspace()
	var mu sync.Mutex
	var searched []string
	repo := &mocks.PatientRepositoryMock{ListFn: func(_ context.Context, _ ports.RequestScope, q medical.PatientQuery) (*medical.PatientPage, error) {
		mu.Lock()
		searched = append(searched, q.Search)
		mu.Unlock()
		return medical.EmptyPatientPage(), nil
	}}
	svc := services.NewPatientService(repo, quietLogger())

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), ws, medical.PatientQuery{Search: "be"})
		firstErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	_, err := svc.Search(context.Background(), ws, medical.PatientQuery{Search: "benali"})
	require.NoError(t, err)
	assert.ErrorIs(t, <-firstErr, services.ErrSuperseded)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"benali"}, searched)
}
