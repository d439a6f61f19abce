package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listAppointments(c echo.Context) error {
	list, err := s.appointmentSvc.List(c.Request().Context(), helpers.MustWorkspace(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) getAppointment(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	a, err := s.appointmentSvc.Get(c.Request().Context(), helpers.MustWorkspace(c), id)
	if err != nil {
		return mapServiceError(err)
	}
	if a == nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) createAppointment(c echo.Context) error {
	var req medical.CreateAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := s.appointmentSvc.Create(c.Request().Context(), helpers.MustWorkspace(c), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAppointment(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	var patch medical.AppointmentPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	a, err := s.appointmentSvc.Update(c.Request().Context(), helpers.MustWorkspace(c), id, patch)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAppointment(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.appointmentSvc.Delete(c.Request().Context(), helpers.MustWorkspace(c), id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// applySchedulerEvent persists a drag, resize or edit from the calendar. The answer always
// carries the board as it stands afterwards, reconciled when the backend refused the change.
func (s *Server) applySchedulerEvent(c echo.Context) error {
	var ev medical.SchedulerEvent
	if err := bindAndValidate(c, &ev); err != nil {
		return err
	}
	board, err := s.appointmentSvc.ApplyEvent(c.Request().Context(), helpers.MustWorkspace(c), ev)
	if err != nil {
		he, ok := mapServiceError(err).(*echo.HTTPError)
		if !ok {
			return err
		}
		return c.JSON(he.Code, map[string]any{"error": he.Message, "appointments": board})
	}
	return c.JSON(http.StatusOK, map[string]any{"appointments": board})
}
