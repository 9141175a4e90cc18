package server

import (
	"net/http"
	"testing"

	"github.com/example/shophub/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartBody struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

func seedProduct(env *testEnv, id, name, price string, stock int) {
	env.store.products = append(env.store.products, models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Electronics",
		Stock:    stock,
	})
}

func TestAddToCartMergesLines(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	token := env.token(t, "cust-1", models.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1", "quantity": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body cartBody
	decode(t, rec, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 5, body.Items[0].Quantity)
	assert.Equal(t, 5, body.TotalItems)
	assert.True(t, body.TotalPrice.Equal(decimal.RequireFromString("1499.95")))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "cust-1", models.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCartBoundedByStock(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 3)
	token := env.token(t, "cust-1", models.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1", "quantity": 2,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	token := env.token(t, "cust-1", models.RoleCustomer)

	env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1", "quantity": 2,
	})

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/1", token, map[string]interface{}{
		"quantity": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body cartBody
	decode(t, rec, &body)
	assert.Empty(t, body.Items)
	assert.Equal(t, 0, body.TotalItems)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	token := env.token(t, "cust-1", models.RoleCustomer)

	env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1",
	})

	rec := env.do(t, http.MethodDelete, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	var body cartBody
	decode(t, rec, &body)
	assert.Empty(t, body.Items)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	seedProduct(env, "2", "Watch", "199.99", 5)
	token := env.token(t, "cust-1", models.RoleCustomer)

	env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1", "quantity": 2,
	})
	env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "2", "quantity": 1,
	})

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"payment_method": "card",
		"shipping_address": map[string]string{
			"full_name": "Jo Customer",
			"address":   "1 Main St",
			"city":      "Springfield",
			"state":     "IL",
			"zip_code":  "62701",
			"phone":     "555-0100",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order struct {
		ID            string             `json:"id"`
		TotalAmount   decimal.Decimal    `json:"total_amount"`
		Status        string             `json:"status"`
		PaymentStatus string             `json:"payment_status"`
		Items         []models.OrderItem `json:"items"`
	}
	decode(t, rec, &order)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusCompleted, order.PaymentStatus)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("799.97")))
	require.Len(t, order.Items, 2)

	// Charge matched the ledger total
	require.NotNil(t, env.charger.lastRequest)
	assert.True(t, env.charger.lastRequest.Amount.Equal(order.TotalAmount))

	// Stock was decremented
	assert.Equal(t, 8, env.store.products[0].Stock)
	assert.Equal(t, 4, env.store.products[1].Stock)

	// Cart is cleared
	rec = env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	var body cartBody
	decode(t, rec, &body)
	assert.Empty(t, body.Items)

	// Order shows up in history
	rec = env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	var list struct {
		Orders []struct {
			ID string `json:"id"`
		} `json:"orders"`
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, order.ID, list.Orders[0].ID)
}

func TestCheckoutCODStaysPending(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	token := env.token(t, "cust-1", models.RoleCustomer)

	env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1",
	})

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"payment_method":   "cod",
		"shipping_address": map[string]string{"full_name": "Jo"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		PaymentStatus string `json:"payment_status"`
	}
	decode(t, rec, &order)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "cust-1", models.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"payment_method":   "card",
		"shipping_address": map[string]string{"full_name": "Jo"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutUnknownPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(env, "1", "Headphones", "299.99", 10)
	token := env.token(t, "cust-1", models.RoleCustomer)

	env.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "1",
	})

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"payment_method":   "cheque",
		"shipping_address": map[string]string{"full_name": "Jo"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
