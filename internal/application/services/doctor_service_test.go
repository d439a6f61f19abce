package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/test/mocks"
)

func TestDoctorService_Doctors(t *testing.T) {
	ws := newFixture(tenant.Tier1).workspace()
	var role user.UserRole
	repo := &mocks.StaffRepositoryMock{ListFn: func(_ context.Context, _ ports.RequestScope, r user.UserRole) ([]user.StaffMember, error) {
		role = r
		return []user.StaffMember{
			{ID: 1, Username: "a", FullName: "Dr A"},
			{ID: 2, Username: "b"},
			{ID: 3, Username: "c"},
			{ID: 4, Username: "d"},
		}, nil
	}}
	svc := services.NewDoctorService(repo, quietLogger())

	docs, err := svc.Doctors(context.Background(), ws)
	require.NoError(t, err)
	assert.Equal(t, user.RoleDoctor, role)
	require.Len(t, docs, 4)
	assert.Equal(t, "Dr A", docs[0].FullName)
	assert.Equal(t, "b", docs[1].FullName)
	assert.Equal(t, docs[2].Color, docs[3].Color)
	assert.NotEqual(t, docs[0].Color, docs[1].Color)
}

func TestDoctorService_Degrades(t *testing.T) {
	ctx := context.Background()
	ws := newFixture(tenant.Tier1).workspace()
	repo := &mocks.StaffRepositoryMock{ListFn: func(context.Context, ports.RequestScope, user.UserRole) ([]user.StaffMember, error) {
		return nil, ports.ErrBackendUnreachable
	}}
	svc := services.NewDoctorService(repo, quietLogger())

	docs, err := svc.Doctors(ctx, ws)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	staff, err := svc.Staff(ctx, ws)
	require.NoError(t, err)
	assert.Empty(t, staff)

	m, err := svc.StaffMember(ctx, ws, 3)
	require.NoError(t, err)
	assert.Nil(t, m)
}
