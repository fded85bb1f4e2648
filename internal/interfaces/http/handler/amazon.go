package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// AmazonHandler serves the Amazon marketplace reports.
type AmazonHandler struct {
	BaseHandler
	amazon *report.AmazonService
}

// NewAmazonHandler creates the handler.
func NewAmazonHandler(amazon *report.AmazonService) *AmazonHandler {
	return &AmazonHandler{amazon: amazon}
}

// RegisterRoutes mounts the /amazon routes.
func (h *AmazonHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/amazon")
	g.GET("/overview", h.Overview)
}

// Overview returns marketplace sales and return aggregates.
func (h *AmazonHandler) Overview(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}
	overview, err := h.amazon.Overview(c.Request.Context(), tf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"overview": overview}))
}
