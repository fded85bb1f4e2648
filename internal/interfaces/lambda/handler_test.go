package lambda

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

type fakeOrders struct {
	orders map[string]commerce.Order
	filter store.OrderFilter
}

func (f *fakeOrders) Get(_ context.Context, id string) (*commerce.Order, error) {
	if o, ok := f.orders[id]; ok {
		return &o, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeOrders) List(_ context.Context, filter store.OrderFilter) ([]commerce.Order, int, error) {
	f.filter = filter
	var out []commerce.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

type fakeProducts struct{}

func (fakeProducts) Get(_ context.Context, _ string) (*commerce.Product, error) {
	return nil, store.ErrNotFound
}

func (fakeProducts) List(_ context.Context, _, _ int) ([]commerce.Product, int, error) {
	return []commerce.Product{{ID: "p1", Title: "Posture Corrector"}}, 1, nil
}

type fakeCustomers struct{}

func (fakeCustomers) Get(_ context.Context, _ string) (*commerce.Customer, error) {
	return nil, store.ErrNotFound
}

func (fakeCustomers) List(_ context.Context, _, _ int) ([]commerce.Customer, int, error) {
	return nil, 0, nil
}

type fakeSyncs struct {
	snapshots map[string]commerce.SyncMetadata
}

func (f *fakeSyncs) Get(_ context.Context, syncID string) (*commerce.SyncMetadata, error) {
	if m, ok := f.snapshots[syncID]; ok {
		return &m, nil
	}
	return nil, store.ErrNotFound
}

func newTestHandler(orders *fakeOrders, syncs *fakeSyncs) *Handler {
	if orders == nil {
		orders = &fakeOrders{}
	}
	if syncs == nil {
		syncs = &fakeSyncs{}
	}
	return NewHandler(orders, fakeProducts{}, fakeCustomers{}, syncs, nil)
}

func getEvent(path string, query map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  path,
		QueryStringParameters: query,
	}
}

func decode(t *testing.T, resp events.APIGatewayProxyResponse) dto.Response {
	t.Helper()
	var envelope dto.Response
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &envelope))
	return envelope
}

func TestHandleGetOrder(t *testing.T) {
	orders := &fakeOrders{orders: map[string]commerce.Order{
		"1001": {ID: "1001", Name: "#1001"},
	}}
	h := newTestHandler(orders, nil)

	resp, err := h.Handle(context.Background(), getEvent("/orders/1001", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decode(t, resp)
	assert.True(t, envelope.Success)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, "#1001", data["name"])
}

func TestHandleOrderNotFound(t *testing.T) {
	h := newTestHandler(nil, nil)

	resp, err := h.Handle(context.Background(), getEvent("/orders/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, decode(t, resp).Success)
}

func TestHandleListOrdersAppliesFilter(t *testing.T) {
	orders := &fakeOrders{orders: map[string]commerce.Order{
		"1001": {ID: "1001"},
	}}
	h := newTestHandler(orders, nil)

	resp, err := h.Handle(context.Background(), getEvent("/orders", map[string]string{
		"financialStatus": "paid",
		"startDate":       "2025-06-01",
		"endDate":         "2025-06-15",
		"pageSize":        "10",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "paid", orders.filter.FinancialStatus)
	assert.Equal(t, 10, orders.filter.PageSize)
	assert.False(t, orders.filter.Start.IsZero())
}

func TestHandleListOrdersRejectsBadRange(t *testing.T) {
	h := newTestHandler(nil, nil)

	resp, err := h.Handle(context.Background(), getEvent("/orders", map[string]string{
		"startDate": "2025-06-15",
		"endDate":   "2025-06-01",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleLastSyncBookmark(t *testing.T) {
	syncs := &fakeSyncs{snapshots: map[string]commerce.SyncMetadata{
		commerce.LastSyncID("orders"): {SyncID: "run-42", Status: "completed"},
	}}
	h := newTestHandler(nil, syncs)

	resp, err := h.Handle(context.Background(), getEvent("/sync/last", map[string]string{"resource": "orders"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp).Data.(map[string]any)
	assert.Equal(t, "run-42", data["syncId"])
}

func TestHandleUnknownRoute(t *testing.T) {
	h := newTestHandler(nil, nil)

	resp, err := h.Handle(context.Background(), getEvent("/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleRejectsNonGet(t *testing.T) {
	h := newTestHandler(nil, nil)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/orders",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
