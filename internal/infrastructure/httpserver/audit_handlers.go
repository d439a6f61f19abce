package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

// getAuditLogs lists security events of the caller's own clinic only.
func (s *Server) getAuditLogs(c echo.Context) error {
	var filter audit.AuditLogFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	ws := helpers.MustWorkspace(c)
	filter.ClinicID = ws.Session.Snapshot().ClinicID()
	if filter.ClinicID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "no clinic bound to session")
	}

	logs, total, err := s.auditSvc.GetAuditLogs(c.Request().Context(), &filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list audit logs")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": logs, "total": total})
}
