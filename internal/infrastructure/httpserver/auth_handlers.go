package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

// Auth handlers
func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ws := helpers.MustWorkspace(c)
	ctx := c.Request().Context()
	if _, err := s.authSvc.Login(ctx, ws, &req); err != nil {
		return mapServiceError(err)
	}

	// The response carries permissions, so it waits for the tier.
	ws.RefreshTier(ctx)
	return c.JSON(http.StatusOK, s.permissionSvc.Describe(ws))
}

func (s *Server) logout(c echo.Context) error {
	ws := helpers.MustWorkspace(c)
	if err := s.authSvc.Logout(c.Request().Context(), ws); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
