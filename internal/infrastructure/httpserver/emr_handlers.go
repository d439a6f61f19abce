package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

func (s *Server) startEMRSession(c echo.Context) error {
	var req medical.StartSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := s.medicalSvc.StartSession(c.Request().Context(), helpers.MustWorkspace(c), req.PatientID, req.AppointmentID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) clearEMRSession(c echo.Context) error {
	if err := s.medicalSvc.ClearSession(c.Request().Context(), helpers.MustWorkspace(c)); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getEMRContext(c echo.Context) error {
	emr, err := s.medicalSvc.Context(c.Request().Context(), helpers.MustWorkspace(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, emr)
}

func (s *Server) addToothFinding(c echo.Context) error {
	var req medical.CreateFindingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	f, err := s.medicalSvc.AddToothFinding(c.Request().Context(), helpers.MustWorkspace(c), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (s *Server) addTreatmentStep(c echo.Context) error {
	var req medical.CreateTreatmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	step, err := s.medicalSvc.AddTreatmentStep(c.Request().Context(), helpers.MustWorkspace(c), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, step)
}
