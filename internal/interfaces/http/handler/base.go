// Package handler implements the REST endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/infrastructure/logger"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// BaseHandler carries the helpers shared by all endpoint handlers.
type BaseHandler struct {
	// DefaultStore is used when a request omits the store parameter.
	DefaultStore string
}

// timeframe parses and validates the startDate/endDate query pair,
// writing the 400 response itself on failure.
func (h *BaseHandler) timeframe(c *gin.Context) (report.Timeframe, bool) {
	tf, err := report.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid date range", err.Error()))
		return report.Timeframe{}, false
	}
	return tf, true
}

// storeName resolves the store query parameter with the default.
func (h *BaseHandler) storeName(c *gin.Context) string {
	if s := c.Query("store"); s != "" {
		return s
	}
	return h.DefaultStore
}

// intQuery parses an integer query parameter with a fallback.
func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// respondError maps service errors to the envelope: not-found to 404,
// everything else to 500.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("not found", err.Error()))
		return
	}
	logger.FromGin(c).Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", err.Error()))
}
