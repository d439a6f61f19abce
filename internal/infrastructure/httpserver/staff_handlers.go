package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

// listDoctors returns the clinic doctors as scheduler resources.
func (s *Server) listDoctors(c echo.Context) error {
	doctors, err := s.doctorSvc.Doctors(c.Request().Context(), helpers.MustWorkspace(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

func (s *Server) listStaff(c echo.Context) error {
	staff, err := s.doctorSvc.Staff(c.Request().Context(), helpers.MustWorkspace(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, staff)
}

func (s *Server) getStaffMember(c echo.Context) error {
	id, err := helpers.GetIDParam(c, "id")
	if err != nil {
		return err
	}
	m, err := s.doctorSvc.StaffMember(c.Request().Context(), helpers.MustWorkspace(c), id)
	if err != nil {
		return mapServiceError(err)
	}
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "staff member not found")
	}
	return c.JSON(http.StatusOK, m)
}
