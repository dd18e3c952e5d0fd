package service

import (
	"errors"
	"fmt"
)

// Auth and authorization errors. ErrInvalidUsername and ErrInvalidPassword both
// wrap ErrInvalidCredentials so callers that must not leak which half was wrong
// can match on the generic error.
var (
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = fmt.Errorf("%w: unknown username", ErrInvalidCredentials)
	ErrInvalidPassword    = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	ErrUnauthenticated    = errors.New("no valid session")
	ErrForbidden          = errors.New("insufficient privileges")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrProtectedAccount   = errors.New("the superadmin account cannot be modified this way")
	ErrAdminNotFound      = errors.New("admin not found")
)

// Catalog errors.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
)
