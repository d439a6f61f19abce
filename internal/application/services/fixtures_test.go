package services_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/test/mocks"
)

const clinicHost = "clinic1.localhost:5173"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	store *mocks.StoreMock
	audit *mocks.AuditServiceMock
	tiers *mocks.TierResolverMock
	deps  services.WorkspaceDeps
}

func newFixture(tier tenant.SubscriptionTier) *fixture {
	f := &fixture{
		store: mocks.NewStoreMock(),
		audit: &mocks.AuditServiceMock{},
		tiers: &mocks.TierResolverMock{Tier: tier},
	}
	f.deps = services.WorkspaceDeps{
		Store:         f.store,
		Tiers:         f.tiers,
		Audit:         f.audit,
		Logger:        quietLogger(),
		SessionTTL:    time.Hour,
		DebounceDelay: 20 * time.Millisecond,
	}
	return f
}

func (f *fixture) workspace() *services.Workspace {
	return services.NewWorkspace(uuid.New(), clinicHost, f.deps)
}

func loginResult(role user.UserRole, clinicID int64) *auth.LoginResult {
	return &auth.LoginResult{Access: "access-token", Refresh: "refresh-token", Role: role, ClinicID: &clinicID, Username: "dr.alami"}
}

// signIn logs the workspace in and resolves its tier synchronously.
func signIn(t *testing.T, ws *services.Workspace, role user.UserRole, clinicID int64) {
	t.Helper()
	gw := &mocks.AuthGatewayMock{
		LoginFn: func(ctx context.Context, _ ports.RequestScope, _ *auth.LoginRequest) (*auth.LoginResult, error) {
			return loginResult(role, clinicID), nil
		},
	}
	svc := services.NewAuthService(gw, nil, quietLogger())
	_, err := svc.Login(context.Background(), ws, &auth.LoginRequest{Username: "dr.alami", Password: "secret"})
	require.NoError(t, err)
	ws.RefreshTier(context.Background())
}

func ptr[T any](v T) *T { return &v }
