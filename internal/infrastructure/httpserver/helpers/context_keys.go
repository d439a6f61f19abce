package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/guard"
)

type ctxKey string

const (
	keyWorkspace ctxKey = "workspace"
	keyDecision  ctxKey = "guard_decision"
)

func SetWorkspace(c echo.Context, ws *services.Workspace) { c.Set(string(keyWorkspace), ws) }
func GetWorkspaceRaw(c echo.Context) (*services.Workspace, bool) {
	v := c.Get(string(keyWorkspace))
	ws, ok := v.(*services.Workspace)
	return ws, ok && ws != nil
}

func SetDecision(c echo.Context, d guard.Decision) { c.Set(string(keyDecision), d) }
func GetDecisionRaw(c echo.Context) (guard.Decision, bool) {
	v := c.Get(string(keyDecision))
	d, ok := v.(guard.Decision)
	return d, ok
}
