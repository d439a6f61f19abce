package helpers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/application/services"
)

// GetWorkspaceFromContext returns the workspace resolved by the workspace middleware.
func GetWorkspaceFromContext(c echo.Context) (*services.Workspace, error) {
	ws, ok := GetWorkspaceRaw(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "workspace not resolved")
	}
	return ws, nil
}

// MustWorkspace is GetWorkspaceFromContext for routes mounted behind the workspace middleware.
func MustWorkspace(c echo.Context) *services.Workspace {
	ws, ok := GetWorkspaceRaw(c)
	if !ok {
		panic("httpserver: route mounted without workspace middleware")
	}
	return ws
}

// GetIDParam parses a positive integer path parameter.
func GetIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
