// Package session carries the opaque identity string between requests.
// The auth core only ever sees the string; how it is transported is this
// package's concern alone.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/userhub/backend/internal/config"
)

// Store is the session-transport capability consumed by the auth gate,
// the identity extractor and the login/logout handlers.
type Store interface {
	// Get returns the opaque identity for the request, or "" if absent.
	Get(c *gin.Context) string
	// Set persists the opaque identity on the response.
	Set(c *gin.Context, identity string)
	// Clear removes the opaque identity from the response.
	Clear(c *gin.Context)
}

// CookieStore keeps the identity in an HTTP-only cookie.
type CookieStore struct {
	name   string
	maxAge int
	secure bool
}

func NewCookieStore(cfg config.SessionConfig) *CookieStore {
	return &CookieStore{
		name:   cfg.Name,
		maxAge: int((time.Duration(cfg.TimeoutMinutes) * time.Minute).Seconds()),
		secure: cfg.Secure,
	}
}

func (s *CookieStore) Get(c *gin.Context) string {
	identity, err := c.Cookie(s.name)
	if err != nil {
		return ""
	}
	return identity
}

func (s *CookieStore) Set(c *gin.Context, identity string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, identity, s.maxAge, "/", "", s.secure, true)
}

func (s *CookieStore) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}
