package handler

import (
	"net/http"
	"strings"

	"github.com/fonsecars/fonsecars-backend/internal/middleware"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/response"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/fonsecars/fonsecars-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AdminUserHandler handles admin account management.
type AdminUserHandler struct {
	adminService *service.AdminService
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(adminService *service.AdminService) *AdminUserHandler {
	return &AdminUserHandler{adminService: adminService}
}

// ListAdmins godoc
// GET /api/v1/admin/users
// Lists every admin account except the superadmin.
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.List(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		response.FailFromError(c, err)
		return
	}
	if admins == nil {
		admins = []model.Admin{}
	}

	response.Success(c, http.StatusOK, gin.H{"admins": admins})
}

// CreateAdmin godoc
// POST /api/v1/admin/users
// Creates an ordinary admin account.
func (h *AdminUserHandler) CreateAdmin(c *gin.Context) {
	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), middleware.GetIdentity(c),
		strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, admin)
}

// DeleteAdmin godoc
// DELETE /api/v1/admin/users/:username
// Deletes an admin and ends their sessions.
func (h *AdminUserHandler) DeleteAdmin(c *gin.Context) {
	if err := h.adminService.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("username")); err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ResetPassword godoc
// PUT /api/v1/admin/users/:username/password
// Sets a new password for an admin. Callers other than the superadmin must
// send the account's current password.
func (h *AdminUserHandler) ResetPassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.adminService.ResetPassword(c.Request.Context(), c.ClientIP(), middleware.GetIdentity(c),
		c.Param("username"), req.CurrentPassword, req.NewPassword)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
