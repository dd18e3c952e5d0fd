package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/response"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyIdentity is the Gin context key for the authenticated admin.
	ContextKeyIdentity = "identity"
)

// RequireSession resolves the session token and stores the caller's identity in
// the context. A cookie-borne session gets its cookie re-issued.
func RequireSession(authService *service.AuthService, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Token(c)
		identity, err := authService.RequireSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
				return
			}
			_ = c.Error(err)
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		cookie.Refresh(c, token)
		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// RequireSuperadmin allows the request only for the superadmin. Must run after RequireSession.
func RequireSuperadmin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthenticated)
			return
		}
		if err := authService.RequireSuperadmin(identity); err != nil {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the authenticated admin from the Gin context.
func GetIdentity(c *gin.Context) *model.Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := val.(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// SessionToken reads the session token from the cookie, falling back to a bearer header.
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
