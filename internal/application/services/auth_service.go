package services

import (
	"context"
	"errors"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	gateway ports.AuthGateway
	audit   ports.AuditService
	logger  *logrus.Logger
}

func NewAuthService(gateway ports.AuthGateway, auditSvc ports.AuditService, logger *logrus.Logger) *AuthService {
	return &AuthService{gateway: gateway, audit: auditSvc, logger: logger}
}

// Login authenticates against the backend on the workspace's tenant hostname, stores the
// session and clinic linkage, and starts resolving the clinic's tier.
func (s *AuthService) Login(ctx context.Context, ws *Workspace, req *auth.LoginRequest) (auth.Snapshot, error) {
	tc := ws.Tenant.Context()
	if tc.IsPublic && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "hostname": ws.Hostname(), "username": req.Username}).Warn("login attempted on the public schema")
	}

	res, err := s.gateway.Login(ctx, ws, req)
	if err != nil {
		var be *ports.BackendError
		if errors.As(err, &be) && be.Status >= 400 && be.Status < 500 {
			lerr := newLoginError(be.Detail)
			s.fail(ctx, ws, req.Username, lerr.Detail)
			return auth.Snapshot{}, lerr
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": tc.Label()}).WithError(err).Error("login request failed")
		}
		return auth.Snapshot{}, err
	}
	if err := res.Validate(); err != nil {
		s.fail(ctx, ws, req.Username, err.Error())
		return auth.Snapshot{}, newLoginError(err.Error())
	}
	if res.Username == "" {
		res.Username = req.Username
	}

	ws.mu.Lock()
	if err := ws.Session.SetAuth(ctx, res); err != nil {
		ws.mu.Unlock()
		return auth.Snapshot{}, err
	}
	if err := ws.Tenant.SetClinicInfo(ctx, *res.ClinicID); err != nil {
		_ = ws.logoutLocked(ctx)
		ws.mu.Unlock()
		return auth.Snapshot{}, err
	}
	ws.tier.Store(nil)
	ws.mu.Unlock()

	ws.RefreshTierAsync()

	snap := ws.Session.Snapshot()
	ws.record(ctx, auditEntry{username: res.Username, tenant: ws.Tenant.Context(), clinicID: res.ClinicID, action: audit.ActionLogin})
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": tc.Label(), "clinic_id": *res.ClinicID, "role": res.Role}).Info("user logged in")
	}
	return snap.Public(), nil
}

func (s *AuthService) fail(ctx context.Context, ws *Workspace, username, detail string) {
	ws.record(ctx, auditEntry{username: username, tenant: ws.Tenant.Context(), action: audit.ActionLoginFailed, details: map[string]any{"detail": detail}})
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": ws.Tenant.Context().Label(), "username": username}).Info("login refused")
	}
}

// Logout ends the workspace's session. It is safe to call when nobody is signed in.
func (s *AuthService) Logout(ctx context.Context, ws *Workspace) error {
	snap := ws.Session.Snapshot()
	tc := ws.Tenant.Context()
	if err := ws.Logout(ctx); err != nil {
		return err
	}
	if snap.IsAuthenticated {
		ws.record(ctx, auditEntry{username: snap.Username(), tenant: tc, clinicID: snap.ClinicID(), action: audit.ActionLogout})
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": tc.Label()}).Info("user logged out")
		}
	}
	return nil
}
