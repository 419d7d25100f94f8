package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/auth"
)

// viewerKey is the gin context key carrying the resolved session claims.
const viewerKey = "viewer"

// LoginPath is where guarded routes send anonymous viewers.
const LoginPath = "/auth/login/"

// ResolveViewer reads the session cookie, if any, and attaches the
// claims to the request context. It never rejects: anonymous viewers
// pass through unauthenticated.
func ResolveViewer(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err == nil && token != "" {
			if claims, err := m.Parse(token); err == nil {
				c.Set(viewerKey, claims)
			}
		}
		c.Next()
	}
}

// Viewer returns the resolved session claims, or nil for anonymous
// requests.
func Viewer(c *gin.Context) *auth.Claims {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// LoginRequired redirects anonymous viewers to the login page with a
// next parameter pointing back at the original request.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Viewer(c) == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, LoginPath+"?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}
