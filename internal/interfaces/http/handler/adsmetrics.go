package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// MetaAdsHandler serves the Meta Ads metrics report.
type MetaAdsHandler struct {
	BaseHandler
	reports *report.OrdersService
}

// NewMetaAdsHandler creates the handler.
func NewMetaAdsHandler(reports *report.OrdersService) *MetaAdsHandler {
	return &MetaAdsHandler{reports: reports}
}

// RegisterRoutes mounts the /meta-ads routes.
func (h *MetaAdsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Group("/meta-ads").GET("/metrics", h.Metrics)
}

// Metrics returns the Meta Ads aggregate for the window. An
// unconfigured account yields zeroed metrics.
func (h *MetaAdsHandler) Metrics(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}
	metrics, err := h.reports.MetaMetrics(c.Request.Context(), tf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"metrics": metrics}))
}

// GoogleAdsHandler serves the Google Ads metrics report.
type GoogleAdsHandler struct {
	BaseHandler
	reports *report.OrdersService
}

// NewGoogleAdsHandler creates the handler.
func NewGoogleAdsHandler(reports *report.OrdersService) *GoogleAdsHandler {
	return &GoogleAdsHandler{reports: reports}
}

// RegisterRoutes mounts the /google-ads routes.
func (h *GoogleAdsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Group("/google-ads").GET("/metrics", h.Metrics)
}

// Metrics returns the Google Ads aggregate for the window.
func (h *GoogleAdsHandler) Metrics(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}
	metrics, err := h.reports.GoogleMetrics(c.Request.Context(), tf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"metrics": metrics}))
}
