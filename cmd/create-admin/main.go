package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/database"
	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/fonsecars/fonsecars-backend/internal/model"
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
	// Sessions are not touched when creating an account; a throwaway store suffices.
	adminRepo := repository.NewAdminRepository(pool)
	sessions := service.NewMemorySessionStore(cfg.SessionIdle)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	attempts := service.NewAttemptTracker(cfg.MaxLoginAttempts, cfg.LoginAttemptCapacity, cfg.LoginAttemptTTL)
	authService := service.NewAuthService(cfg, adminRepo, attempts, sessions, hasher, log)
	adminService := service.NewAdminService(adminRepo, sessions, hasher, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Username
	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		fmt.Println("Error: Username must be at least 3 characters")
		return
	}
	if authService.IsSuperadmin(username) {
		fmt.Println("Error: That username is reserved, use reset-superadmin instead")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 4 {
		fmt.Println("Error: Password must be at least 4 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	operator := &model.Identity{Username: authService.SuperadminUsername(), IsSuperadmin: true}

	admin, err := adminService.Create(ctx, operator, username, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' created with ID: %d\n", admin.Username, admin.ID)
}
