package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

// CookieConfig describes the cookie that carries the workspace id.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// WorkspaceMiddleware binds every request to the browser's workspace and hydrates it before any
// handler or guard runs.
type WorkspaceMiddleware struct {
	registry *services.WorkspaceRegistry
	cookie   CookieConfig
	logger   *logrus.Logger
}

func NewWorkspaceMiddleware(registry *services.WorkspaceRegistry, cookie CookieConfig, logger *logrus.Logger) *WorkspaceMiddleware {
	if cookie.Name == "" {
		cookie.Name = "clinic_workspace"
	}
	return &WorkspaceMiddleware{registry: registry, cookie: cookie, logger: logger}
}

func (m *WorkspaceMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var presented uuid.UUID
			if ck, err := c.Cookie(m.cookie.Name); err == nil {
				if id, err := uuid.Parse(ck.Value); err == nil {
					presented = id
				}
			}

			ws, created := m.registry.Open(presented, req.Host)
			if created {
				m.setCookie(c, ws.ID)
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "hostname": ws.Hostname()}).Debug("workspace issued")
				}
			}

			ctx := services.WithClientInfo(req.Context(), services.ClientInfo{
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
			})
			ws.Hydrate(ctx)
			c.SetRequest(req.WithContext(ctx))
			helpers.SetWorkspace(c, ws)
			return next(c)
		}
	}
}

// setCookie issues a host-only cookie so a workspace never leaks to a sibling clinic subdomain.
func (m *WorkspaceMiddleware) setCookie(c echo.Context, id uuid.UUID) {
	ck := &http.Cookie{
		Name:     m.cookie.Name,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.cookie.MaxAge > 0 {
		ck.MaxAge = int(m.cookie.MaxAge.Seconds())
	}
	c.SetCookie(ck)
}
