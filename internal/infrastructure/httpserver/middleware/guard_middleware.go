package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/guard"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

// GuardMiddleware enforces route guards against the request's workspace.
type GuardMiddleware struct {
	permissions *services.PermissionService
	decisions   *prometheus.CounterVec
	logger      *logrus.Logger
}

func NewGuardMiddleware(permissions *services.PermissionService, decisions *prometheus.CounterVec, logger *logrus.Logger) *GuardMiddleware {
	return &GuardMiddleware{permissions: permissions, decisions: decisions, logger: logger}
}

func (m *GuardMiddleware) RequirePermission(p permission.Permission) echo.MiddlewareFunc {
	return m.requirement(guard.Any(p))
}

func (m *GuardMiddleware) RequireAnyPermission(perms ...permission.Permission) echo.MiddlewareFunc {
	return m.requirement(guard.Any(perms...))
}

func (m *GuardMiddleware) RequireAllPermissions(perms ...permission.Permission) echo.MiddlewareFunc {
	return m.requirement(guard.All(perms...))
}

// RequireAuthenticated only needs a signed-in session.
func (m *GuardMiddleware) RequireAuthenticated() echo.MiddlewareFunc {
	return m.decide(func(ws *services.Workspace) guard.Decision {
		return guard.Authenticated(ws.Hydrated(), ws.Session.Snapshot().IsAuthenticated)
	})
}

func (m *GuardMiddleware) AdminOnly() echo.MiddlewareFunc {
	return m.authenticated(func(ws *services.Workspace) guard.Decision {
		return guard.AdminOnly(ws.Hydrated(), ws.Grant())
	})
}

func (m *GuardMiddleware) DoctorOrAdmin() echo.MiddlewareFunc {
	return m.authenticated(func(ws *services.Workspace) guard.Decision {
		return guard.DoctorOrAdmin(ws.Hydrated(), ws.Grant())
	})
}

func (m *GuardMiddleware) requirement(req guard.Requirement) echo.MiddlewareFunc {
	return m.authenticated(func(ws *services.Workspace) guard.Decision {
		return m.permissions.Evaluate(ws, req)
	})
}

// authenticated sends anonymous sessions to sign-in before evaluating eval.
func (m *GuardMiddleware) authenticated(eval func(*services.Workspace) guard.Decision) echo.MiddlewareFunc {
	return m.decide(func(ws *services.Workspace) guard.Decision {
		if d := guard.Authenticated(ws.Hydrated(), ws.Session.Snapshot().IsAuthenticated); d.State != guard.Allowed {
			return d
		}
		return eval(ws)
	})
}

func (m *GuardMiddleware) decide(eval func(*services.Workspace) guard.Decision) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, err := helpers.GetWorkspaceFromContext(c)
			if err != nil {
				return err
			}
			d := eval(ws)
			if m.decisions != nil {
				m.decisions.WithLabelValues(string(d.State)).Inc()
			}
			helpers.SetDecision(c, d)

			switch d.State {
			case guard.Allowed, guard.PassThrough:
				return next(c)
			case guard.Pending:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, map[string]any{"error": "session not ready", "decision": d})
			default:
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{
						"workspace_id": ws.ID,
						"subdomain":    ws.Tenant.Context().Label(),
						"path":         c.Path(),
						"redirect_to":  d.RedirectTo,
					}).Debug("guard denied request")
				}
				if d.RedirectTo == guard.SignInPath {
					return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "authentication required", "decision": d})
				}
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "forbidden", "decision": d})
			}
		}
	}
}
