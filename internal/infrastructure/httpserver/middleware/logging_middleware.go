package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if m.logger == nil {
				return err
			}
			fields := logrus.Fields{
				"method":   c.Request().Method,
				"path":     c.Path(),
				"status":   statusOf(c, err),
				"duration": time.Since(start).String(),
			}
			if ws, ok := helpers.GetWorkspaceRaw(c); ok {
				fields["workspace_id"] = ws.ID
				fields["subdomain"] = ws.Tenant.Context().Label()
			}
			entry := m.logger.WithFields(fields)
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Debug("request handled")
			return err
		}
	}
}
