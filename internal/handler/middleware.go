package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/userhub/backend/internal/service"
	"github.com/userhub/backend/internal/session"
)

// Route identifies a registered route for exemption purposes. Path is
// the route template as registered, not the raw request path.
type Route struct {
	Method string
	Path   string
}

// AuthGate decides forward-or-reject for every request: a request passes
// when its identity decodes to valid claims, or when the route is in the
// exemption set. Everything else gets a uniform 401 and never reaches a
// handler. The exemption set is resolved to a lookup once, here.
func AuthGate(tokens *service.TokenService, sessions session.Store, exempt []Route) gin.HandlerFunc {
	exemptSet := make(map[Route]struct{}, len(exempt))
	for _, r := range exempt {
		exemptSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity := sessions.Get(c)
		if _, err := tokens.Decode(identity); err == nil {
			c.Next()
			return
		}

		if _, ok := exemptSet[Route{Method: c.Request.Method, Path: c.FullPath()}]; ok {
			c.Next()
			return
		}

		// One body for every failure mode; clients cannot tell a bad
		// signature from an expired token.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			originSet[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originSet[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
