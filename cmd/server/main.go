package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/database"
	"github.com/fonsecars/fonsecars-backend/internal/handler"
	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/fonsecars/fonsecars-backend/internal/repository"
	"github.com/fonsecars/fonsecars-backend/internal/router"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/fonsecars/fonsecars-backend/internal/validator"
	"github.com/fonsecars/fonsecars-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageMode).
		Str("sessions", cfg.SessionBackend).
		Msg("Starting Fonsecars Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Storage ───────────────────────────────────────────────────────
	var (
		adminRepo   service.CredentialStore
		vehicleRepo service.VehicleStore
	)
	switch cfg.StorageMode {
	case config.StorageDriverMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		adminRepo = repository.NewMemoryAdminRepository()
		vehicleRepo = repository.NewMemoryVehicleRepository()
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		adminRepo = repository.NewAdminRepository(pool)
		vehicleRepo = repository.NewVehicleRepository(pool)
	}

	// ─── Session Store ─────────────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var sessions service.SessionStore
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		sessions = service.NewRedisSessionStore(rdb, cfg.SessionIdle)
	default:
		memSessions := service.NewMemorySessionStore(cfg.SessionIdle)
		sessions = memSessions

		sweeper := worker.NewSessionSweeper(memSessions, worker.DefaultSweepInterval, log)
		go sweeper.Start(workerCtx)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	attempts := service.NewAttemptTracker(cfg.MaxLoginAttempts, cfg.LoginAttemptCapacity, cfg.LoginAttemptTTL)

	authService := service.NewAuthService(cfg, adminRepo, attempts, sessions, hasher, log)
	adminService := service.NewAdminService(adminRepo, sessions, hasher, authService, log)
	mediaService := service.NewMediaService(cfg)
	vehicleService := service.NewVehicleService(vehicleRepo, mediaService, log)

	// ─── Ensure Superadmin ─────────────────────────────────────────────
	if _, err := authService.EnsureSuperadmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure superadmin account")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, adminService, cfg),
		AdminUser: handler.NewAdminUserHandler(adminService),
		Vehicle:   handler.NewVehicleHandler(vehicleService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(authService, handlers, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
