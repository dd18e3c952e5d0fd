package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_CookieThenBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie", "from-cookie", "Bearer from-header", "from-cookie"},
		{"bearer", "", "Bearer from-header", "from-header"},
		{"lowercase scheme", "", "bearer abc", "abc"},
		{"other scheme", "", "Basic xyz", ""},
		{"none", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			assert.Equal(t, tt.want, SessionToken(c, "sid"))
		})
	}
}

func TestSessionCookie_RefreshOnlyWhenCookieCarriedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sc := SessionCookie{Name: "sid", MaxAge: 3600}

	tests := []struct {
		name      string
		cookie    string
		header    string
		wantFresh bool
	}{
		{"cookie", "tok", "", true},
		{"bearer only", "", "Bearer tok", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = req

			sc.Refresh(c, sc.Token(c))

			cookies := rec.Result().Cookies()
			if !tt.wantFresh {
				assert.Empty(t, cookies)
				return
			}
			require.Len(t, cookies, 1)
			assert.Equal(t, "tok", cookies[0].Value)
			assert.Equal(t, 3600, cookies[0].MaxAge)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}
