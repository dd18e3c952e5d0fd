package middleware

import (
	"net/http"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/gin-gonic/gin"
)

// SessionCookie describes the HttpOnly cookie that carries the session token.
type SessionCookie struct {
	Name   string
	MaxAge int
	Secure bool
}

// NewSessionCookie builds the cookie settings. MaxAge tracks the idle timeout.
func NewSessionCookie(cfg *config.Config) SessionCookie {
	return SessionCookie{
		Name:   cfg.SessionCookieName,
		MaxAge: int(cfg.SessionIdle.Seconds()),
		Secure: cfg.CookieSecure,
	}
}

// Token returns the session token sent with the request.
func (sc SessionCookie) Token(c *gin.Context) string {
	return SessionToken(c, sc.Name)
}

// Set writes the cookie with a full idle window.
func (sc SessionCookie) Set(c *gin.Context, token string) {
	sc.write(c, token, sc.MaxAge)
}

// Clear tells the browser to drop the cookie.
func (sc SessionCookie) Clear(c *gin.Context) {
	sc.write(c, "", -1)
}

// Refresh re-issues the cookie when the request authenticated with it, so the
// browser keeps it for as long as the server keeps the session.
func (sc SessionCookie) Refresh(c *gin.Context, token string) {
	if cookie, err := c.Cookie(sc.Name); err == nil && cookie == token {
		sc.Set(c, token)
	}
}

func (sc SessionCookie) write(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, token, maxAge, "/", "", sc.Secure, true)
}
