package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// SystemHandler serves health and liveness endpoints.
type SystemHandler struct {
	startTime time.Time
}

// NewSystemHandler creates the handler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startTime: time.Now()}
}

// RegisterRoutes mounts the /health route.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports process liveness and uptime.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	}))
}
