package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfrido/analytics-backend/internal/infrastructure/csvio"
)

func rowsFromCSV(t *testing.T, data string) []*csvio.Row {
	t.Helper()
	reader, err := csvio.NewReader(strings.NewReader(data))
	require.NoError(t, err)
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestTransformOrderRow(t *testing.T) {
	rows := rowsFromCSV(t, `Order ID,Name,Financial Status,Created at,Total,Currency,Email,Lineitem name,Lineitem quantity,Lineitem price,Lineitem sku
'1001,#1001,paid,2024-01-01T00:00:00Z,"1,499.00",INR,asha@example.com,Cloud Slides,2,749.5,SLD-01`)
	require.Len(t, rows, 1)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	order := NewTransformer(nil).Order(rows[0], now)
	require.NotNil(t, order)

	assert.Equal(t, "1001", order.ID)
	assert.Equal(t, "paid", order.FinancialStatus)
	assert.Equal(t, "1499.00", order.Total)
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "Cloud Slides", order.LineItems[0].Title)
	assert.Equal(t, 2, order.LineItems[0].Quantity)
	assert.Equal(t, "749.50", order.LineItems[0].Price)
	assert.Equal(t, "2025-06-01T00:00:00Z", order.SyncedAt)
}

func TestTransformOrderRowDefaults(t *testing.T) {
	rows := rowsFromCSV(t, `Order ID,Total
1002,`)
	order := NewTransformer(nil).Order(rows[0], time.Now())
	require.NotNil(t, order)

	assert.Equal(t, "unknown", order.FinancialStatus)
	assert.Equal(t, DefaultCurrency, order.Currency)
	assert.Equal(t, "0.00", order.Total)
	assert.Empty(t, order.LineItems)
}

func TestTransformOrderRowMissingID(t *testing.T) {
	rows := rowsFromCSV(t, `Order ID,Name,Total
,,499.00`)
	assert.Nil(t, NewTransformer(nil).Order(rows[0], time.Now()))
}

func TestTransformProductRow(t *testing.T) {
	rows := rowsFromCSV(t, `Id,Title,Handle,Vendor,Variant SKU,Variant Price,Variant Inventory Qty
2001,Arch Support Insole,arch-support-insole,Frido,INS-01,599,42`)
	product := NewTransformer(nil).Product(rows[0], time.Now())
	require.NotNil(t, product)

	assert.Equal(t, "2001", product.ID)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "INS-01", product.Variants[0].SKU)
	assert.Equal(t, "599.00", product.Variants[0].Price)
	assert.Equal(t, 42, product.Variants[0].Inventory)
}

func TestTransformCustomerRow(t *testing.T) {
	rows := rowsFromCSV(t, `Customer ID,Email,First Name,Last Name,Total Orders,Total Spent
'9001,asha@example.com,Asha,Rao,5,"4,995.00"`)
	customer := NewTransformer(nil).Customer(rows[0], time.Now())
	require.NotNil(t, customer)

	assert.Equal(t, "9001", customer.ID)
	assert.Equal(t, "Asha Rao", customer.FullName())
	assert.Equal(t, 5, customer.OrdersCount)
	assert.Equal(t, "4995.00", customer.TotalSpent)
}

func TestIdentifierFallsBackAcrossColumns(t *testing.T) {
	rows := rowsFromCSV(t, `Order ID,Id,Name
,,#1003`)
	order := NewTransformer(nil).Order(rows[0], time.Now())
	require.NotNil(t, order)
	assert.Equal(t, "#1003", order.ID)
}
