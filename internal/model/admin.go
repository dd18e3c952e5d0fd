package model

import "time"

// Admin represents a panel administrator account.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for admin authentication.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=64"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
}

// CreateAdminRequest is the payload for creating a new admin.
type CreateAdminRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" form:"password" binding:"required,min=4,max=128"`
}

// ChangePasswordRequest is the payload for changing an admin password.
// CurrentPassword may be empty only when the superadmin resets another admin.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" binding:"max=128"`
	NewPassword     string `json:"new_password" form:"new_password" binding:"required,min=4,max=128"`
}
