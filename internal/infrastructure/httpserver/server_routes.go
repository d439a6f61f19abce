package httpserver

import (
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	api.Use(s.middleware.Workspace.Resolve())
	api.Use(s.middleware.RateLimit.Handler())
	guard := s.middleware.Guard

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/logout", s.logout)

	api.GET("/session", s.getSession)
	api.GET("/navigation", s.getNavigation)
	api.POST("/guards/evaluate", s.evaluateGuard)

	permissions := api.Group("/permissions", guard.RequireAuthenticated())
	permissions.GET("", s.getAvailablePermissions)
	permissions.GET("/matrix", s.getPermissionMatrix, guard.RequirePermission(permission.ManageClinicSettings))

	patients := api.Group("/patients")
	patients.GET("", s.listPatients, guard.RequirePermission(permission.ViewPatients))
	patients.POST("", s.createPatient, guard.RequirePermission(permission.CreatePatients))
	patients.GET("/:id", s.getPatient, guard.RequirePermission(permission.ViewPatients))
	patients.PATCH("/:id", s.updatePatient, guard.RequirePermission(permission.EditPatients))
	patients.DELETE("/:id", s.deletePatient, guard.RequirePermission(permission.DeletePatients))

	appointments := api.Group("/appointments")
	appointments.GET("", s.listAppointments, guard.RequirePermission(permission.ViewAppointments))
	appointments.POST("", s.createAppointment, guard.RequirePermission(permission.CreateAppointments))
	appointments.GET("/:id", s.getAppointment, guard.RequirePermission(permission.ViewAppointments))
	appointments.PATCH("/:id", s.updateAppointment, guard.RequirePermission(permission.EditAppointments))
	appointments.DELETE("/:id", s.deleteAppointment, guard.RequirePermission(permission.DeleteAppointments))

	api.POST("/scheduler/events", s.applySchedulerEvent, guard.RequirePermission(permission.EditAppointments))

	api.GET("/doctors", s.listDoctors, guard.RequirePermission(permission.ViewAppointments))
	api.GET("/staff", s.listStaff, guard.RequirePermission(permission.ManageUsers), guard.AdminOnly())
	api.GET("/staff/:id", s.getStaffMember, guard.RequirePermission(permission.ManageUsers))

	emr := api.Group("/emr")
	emr.POST("/session", s.startEMRSession, guard.RequirePermission(permission.ViewPatients))
	emr.DELETE("/session", s.clearEMRSession, guard.RequireAuthenticated())
	emr.GET("/context", s.getEMRContext, guard.RequirePermission(permission.ViewPatientHistory))
	emr.POST("/findings", s.addToothFinding, guard.RequirePermission(permission.EditPatients), guard.DoctorOrAdmin())
	emr.POST("/treatments", s.addTreatmentStep, guard.RequirePermission(permission.EditAppointments), guard.DoctorOrAdmin())

	audit := api.Group("/audit")
	audit.GET("/logs", s.getAuditLogs, guard.RequirePermission(permission.ManageClinicSettings))
}
