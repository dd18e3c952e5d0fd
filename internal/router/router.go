package router

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/handler"
	"github.com/fonsecars/fonsecars-backend/internal/middleware"
	"github.com/fonsecars/fonsecars-backend/internal/response"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	AdminUser *handler.AdminUserHandler
	Vehicle   *handler.VehicleHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// ClientIP keys the login lockout and rate limit. Forwarding headers are
	// only honoured from the configured proxies; with none, the peer address is used.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve uploaded vehicle photos with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(authService, middleware.NewSessionCookie(cfg))
	requireSuperadmin := middleware.RequireSuperadmin(authService)

	// ─── 1. Public Catalog ─────────────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/vehicles", handlers.Vehicle.ListVehicles)
		publicAPI.GET("/vehicles/:id", handlers.Vehicle.GetVehicle)
	}

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginAttemptCapacity)

	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/session", handlers.Auth.Session)
		auth.PUT("/password", requireSession, handlers.Auth.ChangePassword)
	}

	// ─── 3. Admin Group (Session) ──────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.NoStore(), requireSession)
	{
		// Listings
		adminAPI.POST("/vehicles", handlers.Vehicle.CreateVehicle)
		adminAPI.DELETE("/vehicles/:id", handlers.Vehicle.DeleteVehicle)

		// Admin accounts (superadmin only, except password changes)
		adminAPI.GET("/users", requireSuperadmin, handlers.AdminUser.ListAdmins)
		adminAPI.POST("/users", requireSuperadmin, handlers.AdminUser.CreateAdmin)
		adminAPI.DELETE("/users/:username", requireSuperadmin, handlers.AdminUser.DeleteAdmin)
		adminAPI.PUT("/users/:username/password", handlers.AdminUser.ResetPassword)
	}

	// ─── 4. Site (static) ──────────────────────────────────────────────
	site := http.FileServer(http.Dir(cfg.PublicDir))
	router.NoRoute(func(c *gin.Context) {
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if !isRead || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		site.ServeHTTP(c.Writer, c.Request)
	})

	return router, nil
}
