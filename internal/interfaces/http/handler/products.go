package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// ProductsHandler serves catalog reads and the low-stock report.
type ProductsHandler struct {
	BaseHandler
	products *report.ProductsService
}

// NewProductsHandler creates the handler.
func NewProductsHandler(products *report.ProductsService, defaultStore string) *ProductsHandler {
	return &ProductsHandler{
		BaseHandler: BaseHandler{DefaultStore: defaultStore},
		products:    products,
	}
}

// RegisterRoutes mounts the /products routes.
func (h *ProductsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("", h.List)
	g.GET("/low-stock", h.LowStock)
	g.GET("/:id", h.Get)
}

// List returns one page of the catalog.
func (h *ProductsHandler) List(c *gin.Context) {
	page, err := h.products.List(c.Request.Context(), intQuery(c, "page", 1), intQuery(c, "pageSize", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(page))
}

// Get returns one product by id.
func (h *ProductsHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(product))
}

// LowStock returns products below the configured inventory threshold.
func (h *ProductsHandler) LowStock(c *gin.Context) {
	products, err := h.products.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"products": products,
		"count":    len(products),
	}))
}
