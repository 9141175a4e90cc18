package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/example/shophub/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportBody struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOrders    int             `json:"total_orders"`
	TotalProducts  int             `json:"total_products"`
	TotalCustomers int             `json:"total_customers"`
	RecentOrders   []struct {
		ID string `json:"id"`
	} `json:"recent_orders"`
	TopProducts []struct {
		Product models.Product `json:"product"`
		Units   int            `json:"units"`
	} `json:"top_products"`
	SalesByMonth []struct {
		Month string          `json:"month"`
		Sales decimal.Decimal `json:"sales"`
	} `json:"sales_by_month"`
}

func TestDashboardReport(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	seedProduct(env, "2", "Watch", "199.99", 5)
	env.store.users = []models.User{
		{ID: "admin-1", Role: models.RoleAdmin},
		{ID: "cust-1", Role: models.RoleCustomer},
	}

	now := time.Now()
	seedOrder(t, env, "ord-1", "cust-1", models.OrderStatusPending, "10", now,
		models.OrderItem{ProductID: "1", Quantity: 2})
	seedOrder(t, env, "ord-2", "cust-1", models.OrderStatusPending, "20", now,
		models.OrderItem{ProductID: "1", Quantity: 1},
		models.OrderItem{ProductID: "2", Quantity: 3})

	admin := env.token(t, "admin-1", models.RoleAdmin)
	rec := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report reportBody
	decode(t, rec, &report)

	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, 1, report.TotalCustomers)

	require.Len(t, report.RecentOrders, 2)
	assert.Equal(t, "ord-2", report.RecentOrders[0].ID)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "1", report.TopProducts[0].Product.ID)
	assert.Equal(t, 3, report.TopProducts[0].Units)

	require.Len(t, report.SalesByMonth, 6)
	assert.True(t, report.SalesByMonth[5].Sales.Equal(decimal.RequireFromString("30")))
}

func TestAnalyticsReportWindow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "admin-1", models.RoleAdmin)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/analytics", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report reportBody
	decode(t, rec, &report)
	assert.Len(t, report.SalesByMonth, 12)
	for _, bucket := range report.SalesByMonth {
		assert.True(t, bucket.Sales.IsZero())
	}
}

func TestDashboardRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "cust-1", models.RoleCustomer)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
