package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myfrido/analytics-backend/internal/application/exporter"
	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// OrderStore is the persisted-order surface the handler reads from.
// Satisfied by store.OrdersRepository.
type OrderStore interface {
	Get(ctx context.Context, id string) (*commerce.Order, error)
	List(ctx context.Context, filter store.OrderFilter) ([]commerce.Order, int, error)
	All(ctx context.Context) ([]commerce.Order, error)
}

// OrdersHandler serves the order reports and order reads.
type OrdersHandler struct {
	BaseHandler
	reports  *report.OrdersService
	orders   OrderStore
	exporter *exporter.Exporter
}

// NewOrdersHandler creates the handler. exporter may be nil to disable
// the export endpoint.
func NewOrdersHandler(reports *report.OrdersService, orders OrderStore, exp *exporter.Exporter, defaultStore string) *OrdersHandler {
	return &OrdersHandler{
		BaseHandler: BaseHandler{DefaultStore: defaultStore},
		reports:     reports,
		orders:      orders,
		exporter:    exp,
	}
}

// RegisterRoutes mounts the /orders routes.
func (h *OrdersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.GET("/overview", h.Overview)
	g.GET("/top-skus", h.TopSKUs)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/export-csv", h.ExportCSV)
}

// Overview returns the blended sales/cost/marketing metrics.
func (h *OrdersHandler) Overview(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}
	storeName := h.storeName(c)

	overview, err := h.reports.Overview(c.Request.Context(), tf, storeName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStoreResponse(gin.H{"overview": overview}, storeName))
}

// TopSKUs returns the best-selling SKUs for the window.
func (h *OrdersHandler) TopSKUs(c *gin.Context) {
	tf, ok := h.timeframe(c)
	if !ok {
		return
	}
	storeName := h.storeName(c)

	skus, err := h.reports.TopSKUs(c.Request.Context(), tf, storeName, intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStoreResponse(gin.H{"skus": skus}, storeName))
}

// List returns stored orders filtered by date range and status.
func (h *OrdersHandler) List(c *gin.Context) {
	filter := store.OrderFilter{
		FinancialStatus: c.Query("status"),
		Page:            intQuery(c, "page", 1),
		PageSize:        intQuery(c, "pageSize", 50),
	}
	if start := c.Query("startDate"); start != "" || c.Query("endDate") != "" {
		tf, ok := h.timeframe(c)
		if !ok {
			return
		}
		filter.Start, filter.End = tf.Start, tf.End
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"orders":   orders,
		"total":    total,
		"page":     filter.Page,
		"pageSize": filter.PageSize,
	}))
}

// Get returns one stored order by id.
func (h *OrdersHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(order))
}

// ExportCSV writes all stored orders to a CSV export file.
func (h *OrdersHandler) ExportCSV(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("export unavailable", "no export directory configured"))
		return
	}
	// Exports can outlive slow clients; give them their own deadline.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	result, err := h.exporter.ExportOrders(ctx, h.orders)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse(result, "export complete"))
}
