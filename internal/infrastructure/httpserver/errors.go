package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/guard"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

// mapServiceError turns service and backend errors into HTTP answers.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}
	var loginErr *services.LoginError
	var backendErr *ports.BackendError
	switch {
	case errors.Is(err, ports.ErrTenantMismatch):
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
			"error":       "session does not belong to this clinic",
			"redirect_to": guard.SignInPath,
		})
	case errors.As(err, &loginErr):
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": loginErr.Detail})
	case errors.Is(err, services.ErrNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
			"error":       "authentication required",
			"redirect_to": guard.SignInPath,
		})
	case errors.Is(err, services.ErrNotHydrated):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session not ready")
	case errors.Is(err, services.ErrSuperseded):
		return echo.NewHTTPError(http.StatusConflict, "superseded by a newer search")
	case errors.Is(err, services.ErrNoActivePatient), errors.Is(err, services.ErrNoActiveAppointment):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, medical.ErrInvalidRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &backendErr):
		status := backendErr.Status
		if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return echo.NewHTTPError(status, map[string]any{"error": backendErr.Detail, "backend_status": backendErr.Status})
	case errors.Is(err, ports.ErrBackendUnreachable):
		return echo.NewHTTPError(http.StatusBadGateway, "clinic backend unreachable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// bindAndValidate binds the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
