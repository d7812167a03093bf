package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/userhub/backend/internal/config"
	"github.com/userhub/backend/internal/service"
	"github.com/userhub/backend/internal/session"
)

// NewRouter assembles the middleware chain and route table. The gate's
// exemption set is declared here, next to the routes it refers to, and
// resolved once inside AuthGate.
func NewRouter(cfg config.Config, tokens *service.TokenService, sessions session.Store, auth *AuthHandler, users *UserHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))

	exempt := []Route{
		{Method: http.MethodGet, Path: "/health"},
		{Method: http.MethodPost, Path: "/api/v1/auth/login"},
	}
	r.Use(AuthGate(tokens, sessions, exempt))

	r.GET("/health", Health)

	v1 := r.Group("/api/v1")

	a := v1.Group("/auth")
	a.POST("/login", auth.Login)
	a.POST("/logout", auth.Logout)
	a.GET("/me", auth.Me)

	u := v1.Group("/user")
	u.GET("", users.List)
	u.POST("", users.Create)
	u.GET("/:id", users.Get)
	u.PUT("/:id", users.Update)
	u.DELETE("/:id", users.Delete)

	return r
}
