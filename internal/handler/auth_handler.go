package handler

import (
	"net/http"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/middleware"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/response"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/fonsecars/fonsecars-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, logout and session introspection.
type AuthHandler struct {
	authService  *service.AuthService
	adminService *service.AdminService
	cookie       middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	adminService *service.AdminService,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		adminService: adminService,
		cookie:       middleware.NewSessionCookie(cfg),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Checks the attempt lockout, verifies credentials and opens a session.
// The token is set as an HttpOnly cookie and echoed in the body for API clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), c.ClientIP(), req.Username, req.Password)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	h.cookie.Set(c, sess.Token)
	response.Success(c, http.StatusOK, gin.H{
		"token":         sess.Token,
		"username":      sess.Username,
		"is_superadmin": h.authService.IsSuperadmin(sess.Username),
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Destroys the current session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.cookie.Token(c)); err != nil {
		response.FailFromError(c, err)
		return
	}

	h.cookie.Clear(c)
	response.Success(c, http.StatusOK, gin.H{})
}

// Session godoc
// GET /api/v1/auth/session
// Returns the caller's username and superadmin flag, or an empty object when
// there is no live session.
func (h *AuthHandler) Session(c *gin.Context) {
	token := h.cookie.Token(c)
	identity, err := h.authService.RequireSession(c.Request.Context(), token)
	if err != nil {
		if _, code := response.Classify(err); code == response.ErrUnauthenticated {
			response.Success(c, http.StatusOK, gin.H{})
			return
		}
		response.FailFromError(c, err)
		return
	}

	h.cookie.Refresh(c, token)
	response.Success(c, http.StatusOK, identity)
}

// ChangePassword godoc
// PUT /api/v1/auth/password
// Changes the caller's own password after checking the current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
		return
	}

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.adminService.ChangeOwnPassword(c.Request.Context(), c.ClientIP(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
