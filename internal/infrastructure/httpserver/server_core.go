package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	customMiddleware "github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
	Cookie         customMiddleware.CookieConfig
}

type ServerDeps struct {
	Registry           *services.WorkspaceRegistry
	AuthService        *services.AuthService
	PermissionService  *services.PermissionService
	PatientService     *services.PatientService
	AppointmentService *services.AppointmentService
	DoctorService      *services.DoctorService
	MedicalService     *services.MedicalService
	AuditService       ports.AuditService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	registry       *services.WorkspaceRegistry
	authSvc        *services.AuthService
	permissionSvc  *services.PermissionService
	patientSvc     *services.PatientService
	appointmentSvc *services.AppointmentService
	doctorSvc      *services.DoctorService
	medicalSvc     *services.MedicalService
	auditSvc       ports.AuditService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		registry:       deps.Registry,
		authSvc:        deps.AuthService,
		permissionSvc:  deps.PermissionService,
		patientSvc:     deps.PatientService,
		appointmentSvc: deps.AppointmentService,
		doctorSvc:      deps.DoctorService,
		medicalSvc:     deps.MedicalService,
		auditSvc:       deps.AuditService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.Registry,
			serverConfig.Cookie,
			deps.PermissionService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
			GetGuardDecisions(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
