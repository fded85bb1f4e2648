// Package lambda serves the legacy dashboard API as a single API
// Gateway proxy function. It reads straight from the key-value store;
// warehouse-backed reports stay on the long-running server.
package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// OrderReader is the order query surface the legacy API needs.
type OrderReader interface {
	Get(ctx context.Context, id string) (*commerce.Order, error)
	List(ctx context.Context, filter store.OrderFilter) ([]commerce.Order, int, error)
}

// ProductReader lists and fetches products.
type ProductReader interface {
	Get(ctx context.Context, id string) (*commerce.Product, error)
	List(ctx context.Context, page, pageSize int) ([]commerce.Product, int, error)
}

// CustomerReader lists and fetches customers.
type CustomerReader interface {
	Get(ctx context.Context, id string) (*commerce.Customer, error)
	List(ctx context.Context, page, pageSize int) ([]commerce.Customer, int, error)
}

// SyncReader fetches import progress snapshots.
type SyncReader interface {
	Get(ctx context.Context, syncID string) (*commerce.SyncMetadata, error)
}

// Handler routes API Gateway proxy events over the store repositories.
type Handler struct {
	orders    OrderReader
	products  ProductReader
	customers CustomerReader
	syncs     SyncReader
	log       *zap.Logger
}

// NewHandler creates the proxy handler.
func NewHandler(orders OrderReader, products ProductReader, customers CustomerReader, syncs SyncReader, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{orders: orders, products: products, customers: customers, syncs: syncs, log: log}
}

// Handle dispatches one proxy event. Unknown paths return 404 in the
// standard response envelope.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.HTTPMethod != http.MethodGet {
		return respond(http.StatusMethodNotAllowed, dto.NewErrorResponse("method not allowed", "")), nil
	}

	path := strings.Trim(event.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "health":
		return respond(http.StatusOK, dto.NewSuccessResponse(map[string]string{"status": "ok"})), nil
	case path == "orders":
		return h.listOrders(ctx, event)
	case len(parts) == 2 && parts[0] == "orders":
		return h.getOne(http.StatusOK, func() (any, error) { return h.orders.Get(ctx, parts[1]) })
	case path == "products":
		return h.listProducts(ctx, event)
	case len(parts) == 2 && parts[0] == "products":
		return h.getOne(http.StatusOK, func() (any, error) { return h.products.Get(ctx, parts[1]) })
	case path == "customers":
		return h.listCustomers(ctx, event)
	case len(parts) == 2 && parts[0] == "customers":
		return h.getOne(http.StatusOK, func() (any, error) { return h.customers.Get(ctx, parts[1]) })
	case len(parts) == 2 && parts[0] == "sync":
		return h.getSync(ctx, parts[1], event)
	default:
		return respond(http.StatusNotFound, dto.NewErrorResponse("route not found", "")), nil
	}
}

func (h *Handler) listOrders(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	filter := store.OrderFilter{
		FinancialStatus: event.QueryStringParameters["financialStatus"],
		Page:            intParam(event, "page", 1),
		PageSize:        intParam(event, "pageSize", 50),
	}
	if event.QueryStringParameters["startDate"] != "" {
		tf, err := report.ParseDateRange(
			event.QueryStringParameters["startDate"],
			event.QueryStringParameters["endDate"],
		)
		if err != nil {
			return respond(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), "invalid date range")), nil
		}
		filter.Start, filter.End = tf.Start, tf.End
	}

	orders, total, err := h.orders.List(ctx, filter)
	if err != nil {
		return h.fail(err), nil
	}
	return respond(http.StatusOK, dto.NewSuccessResponse(map[string]any{
		"orders": orders,
		"total":  total,
	})), nil
}

func (h *Handler) listProducts(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	products, total, err := h.products.List(ctx, intParam(event, "page", 1), intParam(event, "pageSize", 50))
	if err != nil {
		return h.fail(err), nil
	}
	return respond(http.StatusOK, dto.NewSuccessResponse(map[string]any{
		"products": products,
		"total":    total,
	})), nil
}

func (h *Handler) listCustomers(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	customers, total, err := h.customers.List(ctx, intParam(event, "page", 1), intParam(event, "pageSize", 50))
	if err != nil {
		return h.fail(err), nil
	}
	return respond(http.StatusOK, dto.NewSuccessResponse(map[string]any{
		"customers": customers,
		"total":     total,
	})), nil
}

func (h *Handler) getSync(ctx context.Context, syncID string, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// "last" resolves the per-resource bookmark written by the importer.
	if syncID == "last" {
		resource := event.QueryStringParameters["resource"]
		if resource == "" {
			resource = "orders"
		}
		syncID = commerce.LastSyncID(resource)
	}
	return h.getOne(http.StatusOK, func() (any, error) { return h.syncs.Get(ctx, syncID) })
}

func (h *Handler) getOne(status int, fetch func() (any, error)) (events.APIGatewayProxyResponse, error) {
	data, err := fetch()
	if err != nil {
		return h.fail(err), nil
	}
	return respond(status, dto.NewSuccessResponse(data)), nil
}

func (h *Handler) fail(err error) events.APIGatewayProxyResponse {
	if errors.Is(err, store.ErrNotFound) {
		return respond(http.StatusNotFound, dto.NewErrorResponse(err.Error(), "not found"))
	}
	h.log.Error("Request failed", zap.Error(err))
	return respond(http.StatusInternalServerError, dto.NewErrorResponse(err.Error(), "internal error"))
}

func respond(status int, body dto.Response) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"success":false,"error":"encoding failure"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}
}

func intParam(event events.APIGatewayProxyRequest, name string, def int) int {
	raw := event.QueryStringParameters[name]
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
