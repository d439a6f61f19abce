package services

import (
	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/domain/feature"
	"github.com/avatarctic/clinic-console/internal/core/domain/guard"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/sirupsen/logrus"
)

// PermissionService answers permission and guard questions for a workspace. Every answer is
// recomputed from the workspace's current role and tier.
type PermissionService struct {
	logger *logrus.Logger
}

func NewPermissionService(logger *logrus.Logger) *PermissionService {
	return &PermissionService{logger: logger}
}

func (s *PermissionService) Effective(ws *Workspace) permission.Grant {
	return ws.Grant()
}

func (s *PermissionService) HasPermission(ws *Workspace, p permission.Permission) bool {
	return ws.Grant().HasPermission(p)
}

func (s *PermissionService) HasAnyPermission(ws *Workspace, perms ...permission.Permission) bool {
	return ws.Grant().HasAny(perms...)
}

func (s *PermissionService) HasAllPermissions(ws *Workspace, perms ...permission.Permission) bool {
	return ws.Grant().HasAll(perms...)
}

// Evaluate runs a permission guard against the workspace.
func (s *PermissionService) Evaluate(ws *Workspace, req guard.Requirement) guard.Decision {
	d := guard.Evaluate(req, ws.Hydrated(), ws.Grant())
	if d.State == guard.Denied && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "permissions": req.Permissions, "mode": req.Mode}).Debug("guard denied")
	}
	return d
}

// EvaluateRoute guards a console route by path. Unknown paths are reported with ok=false.
func (s *PermissionService) EvaluateRoute(ws *Workspace, path string) (guard.Decision, permission.RouteRule, bool) {
	rule, ok := permission.MatchRoute(path)
	if !ok {
		return guard.Decision{}, permission.RouteRule{}, false
	}
	return s.Evaluate(ws, guard.Any(rule.Permissions...)), rule, true
}

// Navigation lists the console routes the workspace may open.
func (s *PermissionService) Navigation(ws *Workspace) []permission.RouteRule {
	hydrated, g := ws.Hydrated(), ws.Grant()
	out := []permission.RouteRule{}
	for _, r := range permission.Routes() {
		if guard.Evaluate(guard.Any(r.Permissions...), hydrated, g).Renders() {
			out = append(out, r)
		}
	}
	return out
}

func (s *PermissionService) Flags(ws *Workspace) map[feature.FlagKey]bool {
	return feature.Evaluate(ws.Grant())
}

// SessionView is everything the console needs to render for the current workspace.
type SessionView struct {
	Session     auth.Snapshot            `json:"session"`
	Tenant      tenant.Context           `json:"tenant"`
	Tier        tenant.SubscriptionTier  `json:"tier"`
	Permissions []permission.Permission  `json:"permissions"`
	Flags       map[feature.FlagKey]bool `json:"feature_flags"`
	Medical     medical.Session          `json:"medical_session"`
}

func (s *PermissionService) Describe(ws *Workspace) SessionView {
	g := ws.Grant()
	return SessionView{
		Session:     ws.Session.Snapshot().Public(),
		Tenant:      ws.Tenant.Context(),
		Tier:        g.Tier,
		Permissions: g.Permissions.Sorted(),
		Flags:       feature.Evaluate(g),
		Medical:     ws.Medical.Snapshot(),
	}
}

// MatrixRow is the effective permission set of one role at one tier.
type MatrixRow struct {
	Role        user.UserRole           `json:"role"`
	Tier        tenant.SubscriptionTier `json:"tier"`
	Permissions []permission.Permission `json:"permissions"`
}

// Matrix lists the effective permissions of every role at every tier.
func (s *PermissionService) Matrix() []MatrixRow {
	var rows []MatrixRow
	for _, r := range user.AllRoles() {
		for _, t := range tenant.AllTiers() {
			rows = append(rows, MatrixRow{Role: r, Tier: t, Permissions: permission.Effective(r, t).Sorted()})
		}
	}
	return rows
}

// ValidatePermission checks if a permission exists in the system
func (s *PermissionService) ValidatePermission(perm permission.Permission) bool {
	return perm.IsValid()
}

// GetAvailablePermissions returns all available permissions in the system
func (s *PermissionService) GetAvailablePermissions() []permission.Permission {
	return permission.GetAllPermissions()
}
