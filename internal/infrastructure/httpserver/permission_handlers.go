package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
)

func (s *Server) getAvailablePermissions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"permissions":             s.permissionSvc.GetAvailablePermissions(),
		"categorized_permissions": permission.Categorized(),
	})
}

// getPermissionMatrix lists the effective permissions of every role at every tier.
func (s *Server) getPermissionMatrix(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"matrix": s.permissionSvc.Matrix()})
}
