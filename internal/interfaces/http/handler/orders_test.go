package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfrido/analytics-backend/internal/application/report"
	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	"github.com/myfrido/analytics-backend/internal/infrastructure/warehouse"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRunner answers every aggregate query with one scripted row.
type stubRunner struct {
	rows map[string][]warehouse.Row
}

func (s *stubRunner) Query(_ context.Context, sql string, _ ...warehouse.Param) ([]warehouse.Row, error) {
	for marker, rows := range s.rows {
		if strings.Contains(sql, marker) {
			return rows, nil
		}
	}
	return nil, nil
}

func (s *stubRunner) Table(name string) string { return "`p.d." + name + "`" }

// stubOrders is an in-memory OrderStore.
type stubOrders struct {
	orders map[string]commerce.Order
}

func (s *stubOrders) Get(_ context.Context, id string) (*commerce.Order, error) {
	if o, ok := s.orders[id]; ok {
		return &o, nil
	}
	return nil, store.ErrNotFound
}

func (s *stubOrders) List(_ context.Context, _ store.OrderFilter) ([]commerce.Order, int, error) {
	var out []commerce.Order
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (s *stubOrders) All(_ context.Context) ([]commerce.Order, error) {
	orders, _, err := s.List(context.Background(), store.OrderFilter{})
	return orders, err
}

func newTestEngine(registrars ...router.RouteRegistrar) *gin.Engine {
	engine := gin.New()
	r := router.NewRouter(engine)
	for _, reg := range registrars {
		r.Register(reg)
	}
	r.Setup()
	return engine
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestOrdersOverviewRequiresDateRange(t *testing.T) {
	reports := report.NewOrdersService(&stubRunner{}, nil, nil, nil, 0, nil)
	engine := newTestEngine(NewOrdersHandler(reports, &stubOrders{}, nil, "myfrido"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/overview", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestOrdersOverview(t *testing.T) {
	runner := &stubRunner{rows: map[string][]warehouse.Row{
		"total_orders":  {{"total_orders": int64(10), "total_sales": float64(1000)}},
		"total_cogs":    {{"total_cogs": float64(400)}},
		"return_orders": {{}},
	}}
	reports := report.NewOrdersService(runner, nil, nil, nil, 0, nil)
	engine := newTestEngine(NewOrdersHandler(reports, &stubOrders{}, nil, "myfrido"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/orders/overview?startDate=2025-06-01&endDate=2025-06-15", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "myfrido", resp.Store)

	data := resp.Data.(map[string]any)
	overview := data["overview"].(map[string]any)
	assert.InDelta(t, 400.0, overview["cogs"].(float64), 1e-9)
	assert.InDelta(t, 40.0, overview["cogsPercentage"].(float64), 1e-9)
}

func TestOrdersGetNotFound(t *testing.T) {
	reports := report.NewOrdersService(&stubRunner{}, nil, nil, nil, 0, nil)
	engine := newTestEngine(NewOrdersHandler(reports, &stubOrders{}, nil, "myfrido"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/4242", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestOrdersGet(t *testing.T) {
	reports := report.NewOrdersService(&stubRunner{}, nil, nil, nil, 0, nil)
	orders := &stubOrders{orders: map[string]commerce.Order{
		"1001": {ID: "1001", Name: "#1001", Total: "499.00"},
	}}
	engine := newTestEngine(NewOrdersHandler(reports, orders, nil, "myfrido"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/1001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "#1001", data["name"])
}

func TestStoreQueryOverridesDefault(t *testing.T) {
	runner := &stubRunner{rows: map[string][]warehouse.Row{}}
	reports := report.NewOrdersService(runner, nil, nil, nil, 0, nil)
	engine := newTestEngine(NewOrdersHandler(reports, &stubOrders{}, nil, "myfrido"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/orders/overview?startDate=2025-06-01&endDate=2025-06-02&store=other", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "other", decodeEnvelope(t, rec).Store)
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(NewSystemHandler())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}
