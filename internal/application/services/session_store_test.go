package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/test/mocks"
)

const sessionKey = "workspace:test:surgery-auth-storage"

func TestSessionStore_SetAuthPersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStoreMock()

	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	require.NoError(t, s.SetAuth(ctx, loginResult(user.RoleDoctor, 4)))

	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "access-token", snap.Token)
	assert.Equal(t, user.RoleDoctor, snap.Role())
	assert.True(t, store.Has(sessionKey))

	restored := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	assert.False(t, restored.Snapshot().HasHydrated)
	restored.Hydrate(ctx)

	got := restored.Snapshot()
	assert.True(t, got.HasHydrated)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, "refresh-token", got.RefreshToken)
	require.NotNil(t, got.ClinicID())
	assert.Equal(t, int64(4), *got.ClinicID())
}

func TestSessionStore_HydrateIgnoresSessionFromAnotherHost(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStoreMock()

	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger()).BindHostname("clinic1.localhost")
	require.NoError(t, s.SetAuth(ctx, loginResult(user.RoleDoctor, 4)))

	same := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger()).BindHostname("clinic1.localhost")
	same.Hydrate(ctx)
	assert.True(t, same.Snapshot().IsAuthenticated)

	other := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger()).BindHostname("clinic2.localhost")
	other.Hydrate(ctx)
	got := other.Snapshot()
	assert.True(t, got.HasHydrated)
	assert.False(t, got.IsAuthenticated)
	assert.Empty(t, got.Token)
	assert.Nil(t, got.ClinicID())
}

func TestSessionStore_SetAuthRejectsInvalidResult(t *testing.T) {
	store := mocks.NewStoreMock()
	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())

	err := s.SetAuth(context.Background(), &auth.LoginResult{Access: "a", Role: "NURSE", ClinicID: ptr(int64(1))})
	assert.ErrorIs(t, err, auth.ErrUnknownRole)
	assert.False(t, s.Snapshot().IsAuthenticated)
	assert.False(t, store.Has(sessionKey))
}

func TestSessionStore_FailedWriteLeavesStateUntouched(t *testing.T) {
	store := mocks.NewStoreMock()
	store.FailSet = true
	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())

	err := s.SetAuth(context.Background(), loginResult(user.RoleAdmin, 1))
	assert.ErrorIs(t, err, mocks.ErrStoreUnavailable)
	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestSessionStore_TTLFollowsRefreshToken(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStoreMock()
	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	res := loginResult(user.RoleDoctor, 1)
	res.Refresh = refresh
	require.NoError(t, s.SetAuth(ctx, res))
	assert.InDelta(t, (24 * time.Hour).Seconds(), store.TTL(sessionKey).Seconds(), 60)

	res.Refresh = "not-a-jwt"
	require.NoError(t, s.SetAuth(ctx, res))
	assert.Equal(t, time.Hour, store.TTL(sessionKey))
}

func TestSessionStore_HydrateDiscardsCorruptRecord(t *testing.T) {
	store := mocks.NewStoreMock()
	store.Put(sessionKey, []byte("{not json"))

	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	s.Hydrate(context.Background())

	snap := s.Snapshot()
	assert.True(t, snap.HasHydrated)
	assert.False(t, snap.IsAuthenticated)
}

func TestSessionStore_HydrateRejectsUnknownRole(t *testing.T) {
	store := mocks.NewStoreMock()
	store.Put(sessionKey, []byte(`{"user":{"username":"x","role":"NURSE","clinic_id":1},"token":"t","is_authenticated":true}`))

	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	s.Hydrate(context.Background())
	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestSessionStore_HydrateStoreFailure(t *testing.T) {
	store := mocks.NewStoreMock()
	store.FailGet = true

	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	s.Hydrate(context.Background())
	assert.True(t, s.Snapshot().HasHydrated)
	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestSessionStore_HydrateRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStoreMock()
	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	s.Hydrate(ctx)

	other := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	require.NoError(t, other.SetAuth(ctx, loginResult(user.RoleDoctor, 1)))

	s.Hydrate(ctx)
	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestSessionStore_LogoutPurgesLinkedRecords(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStoreMock()
	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger(), "linked-a", "linked-b")
	s.Hydrate(ctx)
	require.NoError(t, s.SetAuth(ctx, loginResult(user.RoleDoctor, 1)))
	store.Put("linked-a", []byte("x"))
	store.Put("linked-b", []byte("y"))

	require.NoError(t, s.Logout(ctx))
	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.True(t, snap.HasHydrated)
	assert.False(t, store.Has(sessionKey))
	assert.False(t, store.Has("linked-a"))
	assert.False(t, store.Has("linked-b"))

	require.NoError(t, s.Logout(ctx))
}

func TestSessionStore_LogoutClearsMemoryWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStoreMock()
	s := services.NewSessionStore(store, sessionKey, time.Hour, quietLogger())
	require.NoError(t, s.SetAuth(ctx, loginResult(user.RoleDoctor, 1)))

	store.FailDelete = true
	err := s.Logout(ctx)
	assert.ErrorIs(t, err, mocks.ErrStoreUnavailable)
	assert.False(t, s.Snapshot().IsAuthenticated)
}
