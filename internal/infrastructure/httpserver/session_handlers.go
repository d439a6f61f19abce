package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/guard"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getSession(c echo.Context) error {
	return c.JSON(http.StatusOK, s.permissionSvc.Describe(helpers.MustWorkspace(c)))
}

func (s *Server) getNavigation(c echo.Context) error {
	ws := helpers.MustWorkspace(c)
	routes := s.permissionSvc.Navigation(ws)
	return c.JSON(http.StatusOK, map[string]any{
		"routes":           routes,
		"default_redirect": guard.DefaultRedirect,
	})
}

// evaluateGuardRequest names either a console route or an explicit permission requirement.
type evaluateGuardRequest struct {
	Path        string                  `json:"path"`
	Permissions []permission.Permission `json:"permissions"`
	Mode        guard.Mode              `json:"mode" validate:"omitempty,oneof=any all"`
	RedirectTo  string                  `json:"redirect_to"`
	Fallback    string                  `json:"fallback"`
}

func (s *Server) evaluateGuard(c echo.Context) error {
	var req evaluateGuardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws := helpers.MustWorkspace(c)

	if req.Path != "" {
		d, rule, ok := s.permissionSvc.EvaluateRoute(ws, req.Path)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "unknown route")
		}
		return c.JSON(http.StatusOK, map[string]any{"decision": d, "route": rule})
	}

	for _, p := range req.Permissions {
		if !s.permissionSvc.ValidatePermission(p) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown permission "+p.String())
		}
	}
	d := s.permissionSvc.Evaluate(ws, guard.Requirement{
		Permissions: req.Permissions,
		Mode:        req.Mode,
		RedirectTo:  req.RedirectTo,
		Fallback:    req.Fallback,
	})
	return c.JSON(http.StatusOK, map[string]any{"decision": d})
}
