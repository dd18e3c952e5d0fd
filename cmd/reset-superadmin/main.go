package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/database"
	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/fonsecars/fonsecars-backend/internal/repository"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	attempts := service.NewAttemptTracker(cfg.MaxLoginAttempts, cfg.LoginAttemptCapacity, cfg.LoginAttemptTTL)

	var sessions service.SessionStore = service.NewMemorySessionStore(cfg.SessionIdle)
	if cfg.SessionBackend == config.SessionBackendRedis {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		sessions = service.NewRedisSessionStore(rdb, cfg.SessionIdle)
	}

	authService := service.NewAuthService(cfg, adminRepo, attempts, sessions, hasher, log)
	superadmin := authService.SuperadminUsername()

	fmt.Println("=== Reset Superadmin Password ===")
	fmt.Printf("Account: %s\n", superadmin)

	// 1. Recreate the row if it was removed by hand.
	created, err := authService.EnsureSuperadmin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure superadmin account")
	}
	if created {
		fmt.Println("The account was missing and has been recreated with the seed password.")
	}

	// 2. Prompt for the new password.
	fmt.Print("Enter New Password (empty keeps the current one): ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println() // Newline after password input
	password := string(bytePassword)
	if password == "" {
		fmt.Println("Password unchanged.")
		return
	}
	if len(password) < 4 {
		fmt.Println("Error: Password must be at least 4 characters")
		return
	}

	// 3. Store the new hash and end any live sessions.
	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}
	if err := adminRepo.UpdatePasswordHash(ctx, superadmin, hash); err != nil {
		log.Fatal().Err(err).Msg("Failed to update superadmin password")
	}
	if err := sessions.DeleteByUsername(ctx, superadmin); err != nil {
		log.Warn().Err(err).Msg("Failed to end superadmin sessions")
	}

	fmt.Printf("\nSuccess! Password for '%s' has been reset.\n", superadmin)
}
