package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/shophub/pkg/auth"
	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"github.com/example/shophub/pkg/payment"
	"github.com/example/shophub/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory ProductStore/OrderStore/UserStore used by
// the handler tests.
type memStore struct {
	products []models.Product
	orders   []models.Order
	users    []models.User
}

func (m *memStore) ListProducts(_ context.Context, category, search string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	_ = search
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateProduct(_ context.Context, product *models.Product) error {
	m.products = append(m.products, *product)
	return nil
}

func (m *memStore) UpdateProduct(_ context.Context, product *models.Product) error {
	for i := range m.products {
		if m.products[i].ID == product.ID {
			m.products[i] = *product
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) DeleteProduct(_ context.Context, id string) error {
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	for _, item := range order.ItemList() {
		found := false
		for i := range m.products {
			if m.products[i].ID == item.ProductID {
				if m.products[i].Stock < item.Quantity {
					return repository.ErrInsufficientStock
				}
				m.products[i].Stock -= item.Quantity
				found = true
			}
		}
		if !found {
			return repository.ErrInsufficientStock
		}
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) ListOrders(_ context.Context, userID, status string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id, status string) error {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			m.orders[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) UpdateUser(_ context.Context, user *models.User) error {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i].Name = user.Name
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	return append([]models.User(nil), m.users...), nil
}

type memCarts struct {
	carts map[string]*models.Cart
}

func (m *memCarts) LoadCart(_ context.Context, userID string) (*models.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	return &models.Cart{UserID: userID}, nil
}

func (m *memCarts) SaveCart(_ context.Context, cart *models.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *memCarts) DeleteCart(_ context.Context, userID string) error {
	delete(m.carts, userID)
	return nil
}

// fakeCharger approves everything instantly, keeping cod pending.
type fakeCharger struct {
	lastRequest *payment.ChargeRequest
}

func (f *fakeCharger) Charge(req *payment.ChargeRequest) (*payment.ChargeResult, error) {
	f.lastRequest = req
	status := models.PaymentStatusCompleted
	if req.Method == models.PaymentMethodCOD {
		status = models.PaymentStatusPending
	}
	return &payment.ChargeResult{Status: status, Reference: "PAY-test"}, nil
}

type testEnv struct {
	server  *Server
	store   *memStore
	carts   *memCarts
	charger *fakeCharger
	auth    *auth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := &memStore{}
	carts := &memCarts{carts: map[string]*models.Cart{}}
	charger := &fakeCharger{}
	authMgr := auth.NewManager("test-secret", time.Hour)

	s := NewServer(&config.Config{}, zap.NewNop(), Deps{
		Products: store,
		Orders:   store,
		Users:    store,
		Carts:    carts,
		Payments: charger,
		Auth:     authMgr,
	})
	s.SetupRoutes()

	return &testEnv{server: s, store: store, carts: carts, charger: charger, auth: authMgr}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.auth.GenerateToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Jo",
		"email":    "jo@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, rec, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, models.RoleCustomer, created.User.Role)

	// Duplicate email
	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Jo Again",
		"email":    "jo@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jo@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jo@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := env.token(t, "cust-1", models.RoleCustomer)
	rec = env.do(t, http.MethodPost, "/api/v1/admin/products", customer, map[string]interface{}{
		"name": "x", "price": "1", "category": "c",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "admin-1", models.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/products", admin, map[string]interface{}{
		"name":     "Headphones",
		"price":    "299.99",
		"category": "Electronics",
		"stock":    10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product models.Product
	decode(t, rec, &product)
	require.NotEmpty(t, product.ID)

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/admin/products/"+product.ID, admin, map[string]interface{}{
		"name":     "Wireless Headphones",
		"price":    "279.99",
		"category": "Electronics",
		"stock":    8,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/admin/products/"+product.ID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
