package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

// listPatients debounces requests that carry a search text; plain page loads go straight through.
func (s *Server) listPatients(c echo.Context) error {
	var q medical.PatientQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	ws := helpers.MustWorkspace(c)
	ctx := c.Request().Context()

	var (
		page *medical.PatientPage
		err  error
	)
	if q.Normalized().Search != "" {
		page, err = s.patientSvc.Search(ctx, ws, q)
	} else {
		page, err = s.patientSvc.List(ctx, ws, q)
	}
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (s *Server) getPatient(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	p, err := s.patientSvc.Get(c.Request().Context(), helpers.MustWorkspace(c), id)
	if err != nil {
		return mapServiceError(err)
	}
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createPatient(c echo.Context) error {
	var req medical.CreatePatientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := s.patientSvc.Create(c.Request().Context(), helpers.MustWorkspace(c), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePatient(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	var req medical.UpdatePatientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := s.patientSvc.Update(c.Request().Context(), helpers.MustWorkspace(c), id, &req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deletePatient(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.patientSvc.Delete(c.Request().Context(), helpers.MustWorkspace(c), id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
