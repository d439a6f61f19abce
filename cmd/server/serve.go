package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	config "github.com/avatarctic/clinic-console/configs"
	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/internal/infrastructure/backend"
	"github.com/avatarctic/clinic-console/internal/infrastructure/db"
	"github.com/avatarctic/clinic-console/internal/infrastructure/health"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/clinic-console/internal/infrastructure/redis"
	"github.com/avatarctic/clinic-console/internal/infrastructure/repositories"
	"github.com/avatarctic/clinic-console/internal/infrastructure/storage"
)

const memoryAuditCapacity = 10000

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := permission.ValidateTables(); err != nil {
				return fmt.Errorf("permission tables are inconsistent: %w", err)
			}
			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.Config, logger *logrus.Logger) error {
	logger.Info("Starting clinic console...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		rawStore      ports.Store
		rateLimitRepo ports.RateLimitRepository
		checkers      []ports.HealthChecker
	)
	switch cfg.Storage.Driver {
	case "memory":
		mem := storage.NewMemoryStore(time.Minute)
		defer mem.Close()
		rawStore = mem
		rateLimitRepo = repositories.NewRateLimitMemoryRepository()
		logger.Warn("Using in-memory workspace storage; sessions will not survive a restart")
	default:
		redisClient, err := redis.NewRedisClient(ctx, &cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")
		rawStore = redis.NewRedisStore(redisClient, "clinic-console")
		rateLimitRepo = repositories.NewRateLimitRedisRepository(redisClient)
		checkers = append(checkers, health.NewRedisHealthChecker(redisClient))
	}

	workspaceStore := rawStore
	if cfg.Session.SealKey != "" {
		workspaceStore = storage.NewSealedStore(rawStore, cfg.Session.SealKey)
	} else {
		logger.Warn("SESSION_SEAL_KEY not set; workspace records are stored unencrypted")
	}

	var (
		auditRepo ports.AuditRepository = repositories.NewMemoryAuditRepository(memoryAuditCapacity, logger)
		tierRepo  ports.TierRepository
	)
	if cfg.Database.Enabled {
		database, err := db.NewDatabaseWithConfig(&cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close()
		logger.Info("Connected to database successfully")

		if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
			logger.WithError(err).Warn("Failed to run migrations")
		}
		auditRepo = repositories.NewAuditRepository(database, logger)
		tierRepo = repositories.NewCachingTierRepository(
			repositories.NewSubscriptionRepository(database, logger), rawStore, cfg.Subscription.CacheTTL)
		checkers = append(checkers, health.NewDBHealthChecker(database))
	}

	backendClient := backend.NewClient(&cfg.Backend, logger)
	checkers = append(checkers, health.NewBackendHealthChecker(backendClient))

	auditService := services.NewAuditService(auditRepo, logger)
	subscriptionService := services.NewSubscriptionService(tierRepo, cfg.Subscription.Clinics, cfg.Subscription.DefaultTier, logger)

	registry := services.NewWorkspaceRegistry(services.WorkspaceDeps{
		Store:         workspaceStore,
		Tiers:         subscriptionService,
		Audit:         auditService,
		Logger:        logger,
		SessionTTL:    cfg.Session.TTL,
		DebounceDelay: cfg.Session.DebounceDelay,
	}, cfg.Session.IdleTimeout)
	go registry.Run(ctx, cfg.Session.SweepInterval)

	var rateLimiter ports.RateLimiterService
	if cfg.RateLimit.Enabled {
		rateLimiter = services.NewRateLimiterService(rateLimitRepo, &services.RateLimiterConfig{
			DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
			PublicRequestsPerMinute:  cfg.RateLimit.PublicRequestsPerMinute,
			BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
			Window:                   cfg.RateLimit.Window,
			KeyPrefix:                cfg.RateLimit.KeyPrefix,
		}, logger)
	}

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL,
		},
	}

	patientGateway := backend.NewPatientGateway(backendClient)
	medicalService := services.NewMedicalService(patientGateway,
		backend.NewTreatmentGateway(backendClient), backend.NewFindingGateway(backendClient), logger)
	deps := httpserver.ServerDeps{
		Registry:           registry,
		AuthService:        services.NewAuthService(backend.NewAuthGateway(backendClient), auditService, logger),
		PermissionService:  services.NewPermissionService(logger),
		PatientService:     services.NewPatientService(patientGateway, logger),
		AppointmentService: services.NewAppointmentService(backend.NewAppointmentGateway(backendClient), logger),
		DoctorService:      services.NewDoctorService(backend.NewStaffGateway(backendClient), logger),
		MedicalService:     medicalService,
		AuditService:       auditService,
		RateLimiterService: rateLimiter,
		HealthCheckers:     checkers,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
