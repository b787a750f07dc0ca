package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendita/orders-api/internal/domain/order"
	"github.com/tiendita/orders-api/internal/domain/product"
)

// --- Mock implementations ---

type memStore struct {
	products map[int64]product.Product
	orders   []*order.Order
	nextID   int64
}

func newMemStore(products ...product.Product) *memStore {
	byID := make(map[int64]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &memStore{products: byID}
}

func (s *memStore) InTx(_ context.Context, fn func(tx order.TxStore) error) error {
	tx := &memTx{store: s, writes: make(map[int64]int)}
	if err := fn(tx); err != nil {
		return err
	}
	for id, stock := range tx.writes {
		p := s.products[id]
		p.Stock = stock
		s.products[id] = p
	}
	if tx.created != nil {
		s.orders = append(s.orders, tx.created)
	}
	return nil
}

type memTx struct {
	store   *memStore
	writes  map[int64]int
	created *order.Order
}

func (t *memTx) ProductsForUpdate(_ context.Context, ids []int64) ([]product.Product, error) {
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := t.store.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t *memTx) UpdateStock(_ context.Context, productID int64, stock int) error {
	t.writes[productID] = stock
	return nil
}

func (t *memTx) CreateOrder(_ context.Context, o *order.Order) error {
	t.store.nextID++
	o.ID = t.store.nextID
	o.CreatedAt = time.Now()
	t.created = o
	return nil
}

type mockOrderRepo struct {
	byID map[int64]*order.Order
	list []order.Order
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]order.Order, error) {
	return m.list, nil
}

type mockProductRepo struct {
	products []product.Product
	getErr   error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return m.products, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, product.ErrNotFound
}

// --- Helpers ---

func newTestProduct(id int64, name, price string, stock int) product.Product {
	return product.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

type testEnv struct {
	handler http.Handler
	store   *memStore
	orders  *mockOrderRepo
}

func newTestEnv(products ...product.Product) *testEnv {
	store := newMemStore(products...)
	orders := &mockOrderRepo{byID: make(map[int64]*order.Order)}
	svc := order.NewService(store, orders, order.NewVarietyDiscountPolicy())
	h := NewHandler(svc, &mockProductRepo{products: products})
	return &testEnv{handler: h.Routes(), store: store, orders: orders}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type orderBody struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Items         []order.Item    `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- Tests ---

func TestCreateOrder_Success(t *testing.T) {
	env := newTestEnv(
		newTestProduct(1, "Widget", "10.00", 10),
		newTestProduct(2, "Gadget", "20.00", 10),
	)

	rec := env.do(t, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada Lovelace",
		"customer_email": "ada@example.com",
		"items": [
			{"product_id": 1, "quantity": 2},
			{"product_id": 2, "quantity": 1}
		]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeJSON[orderBody](t, rec)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Ada Lovelace", got.CustomerName)
	assert.Equal(t, "CONFIRMED", got.Status)
	assert.True(t, decimal.RequireFromString("40.00").Equal(got.Total), "got %s", got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Widget", got.Items[0].ProductName)

	assert.Equal(t, 8, env.store.products[1].Stock)
	assert.Equal(t, 9, env.store.products[2].Stock)
}

func TestCreateOrder_VarietyDiscount(t *testing.T) {
	env := newTestEnv(
		newTestProduct(1, "Widget", "10.00", 10),
		newTestProduct(2, "Gadget", "10.00", 10),
		newTestProduct(3, "Gizmo", "10.00", 10),
		newTestProduct(4, "Doohickey", "10.00", 10),
	)

	rec := env.do(t, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada Lovelace",
		"customer_email": "ada@example.com",
		"items": [
			{"product_id": 1, "quantity": 1},
			{"product_id": 2, "quantity": 1},
			{"product_id": 3, "quantity": 1},
			{"product_id": 4, "quantity": 1}
		]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeJSON[orderBody](t, rec)
	assert.True(t, decimal.RequireFromString("36.00").Equal(got.Total), "got %s", got.Total)
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/orders", `{"customer_name": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Equal(t, http.StatusBadRequest, got.Code)
	assert.Equal(t, "invalid request body", got.Message)
}

func TestCreateOrder_ValidationError(t *testing.T) {
	env := newTestEnv(newTestProduct(1, "Widget", "10.00", 10))

	rec := env.do(t, http.MethodPost, "/api/orders", `{
		"customer_name": "",
		"customer_email": "ada@example.com",
		"items": [{"product_id": 1, "quantity": 1}]
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Contains(t, got.Message, "customer name is required")
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	env := newTestEnv(newTestProduct(1, "Widget", "10.00", 10))

	rec := env.do(t, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada Lovelace",
		"customer_email": "ada@example.com",
		"items": [{"product_id": 42, "quantity": 1}]
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Equal(t, "product 42 not found", got.Message)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	env := newTestEnv(newTestProduct(1, "Widget", "10.00", 1))

	rec := env.do(t, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada Lovelace",
		"customer_email": "ada@example.com",
		"items": [{"product_id": 1, "quantity": 2}]
	}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Equal(t, `insufficient stock for "Widget": requested 2, available 1`, got.Message)
	assert.Equal(t, 1, env.store.products[1].Stock)
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv()
	env.orders.byID[7] = &order.Order{
		ID:           7,
		CustomerName: "Ada Lovelace",
		Total:        decimal.RequireFromString("12.00"),
		Status:       order.StatusConfirmed,
	}

	rec := env.do(t, http.MethodGet, "/api/orders/7", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[orderBody](t, rec)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, decimal.RequireFromString("12.00").Equal(got.Total))
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/orders/99", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Equal(t, "order not found", got.Message)
}

func TestGetOrder_InvalidID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/orders/abc", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Equal(t, "invalid order id", got.Message)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv()
	env.orders.list = []order.Order{{ID: 2}, {ID: 1}}

	rec := env.do(t, http.MethodGet, "/api/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[[]orderBody](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(
		newTestProduct(1, "Widget", "10.00", 5),
		newTestProduct(2, "Gadget", "20.00", 0),
	)

	rec := env.do(t, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[[]map[string]any](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Widget", got[0]["name"])
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(newTestProduct(1, "Widget", "10.00", 5))

	rec := env.do(t, http.MethodGet, "/api/products/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "Widget", got["name"])
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/products/99", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeJSON[errorBody](t, rec)
	assert.Equal(t, "product not found", got.Message)
}
