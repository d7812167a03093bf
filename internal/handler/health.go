package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/userhub/backend/internal/model"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}
