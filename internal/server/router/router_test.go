package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository/idempotency"
	"github.com/sowmensarker/ambika/internal/repository/memory"
	"github.com/sowmensarker/ambika/internal/server/handlers"
	"github.com/sowmensarker/ambika/internal/service/activity"
	"github.com/sowmensarker/ambika/internal/service/daterange"
	"github.com/sowmensarker/ambika/internal/service/expenses"
	"github.com/sowmensarker/ambika/internal/service/inventory"
	"github.com/sowmensarker/ambika/internal/service/reporting"
	"github.com/sowmensarker/ambika/internal/service/sales"
	"github.com/sowmensarker/ambika/internal/service/users"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) read() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

type testAPI struct {
	t      *testing.T
	engine http.Handler
	store  *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	step := &stepClock{now: time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)}
	clock := daterange.NewClockAt(time.UTC, step.read)
	recorder := activity.NewRecorder(store, nil, clock, nil)

	inventorySvc := inventory.NewService(store, store, recorder, clock, 0, nil)
	h := handlers.New(handlers.Services{
		Products:   inventorySvc,
		Sales:      sales.NewService(store, recorder, clock, "BD", nil),
		Expenses:   expenses.NewService(store, recorder, clock, nil),
		Activities: recorder,
		Reports:    reporting.NewService(store, inventorySvc, clock, nil),
		Users:      users.NewService(store, nil),
	}, nil)

	engine := New(h, Options{
		Auth:           handlers.HeaderAuthenticator{},
		Idempotency:    idempotency.NewMemoryStore(),
		IdempotencyTTL: time.Hour,
	}, nil)
	return &testAPI{t: t, engine: engine, store: store}
}

func (a *testAPI) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handlers.HeaderUserID, "u-1")
	req.Header.Set(handlers.HeaderUserName, "Sowmen")
	req.Header.Set(handlers.HeaderUserEmail, "owner@ambika.shop")
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope.Data
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(handlers.HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/healthz", nil, map[string]string{handlers.HeaderRequestID: "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get(handlers.HeaderRequestID))
}

func TestRequiresIdentity(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/v1/stock", nil, map[string]string{handlers.HeaderUserID: ""})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/exists?email=nobody@ambika.shop", nil, map[string]string{handlers.HeaderUserID: ""})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSaleLifecycle(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/products", map[string]any{
		"productId": "P1", "productName": "Rice 5kg", "quantity": 10, "buyingPrice": 100,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[models.AddedProduct](t, rec)
	assert.Equal(t, "Sowmen", product.AddedBy.Name)

	rec = api.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"buyer_name":      "Rahim",
		"buyer_phoneNo":   "01711000000",
		"status":          "pending",
		"received_amount": 200,
		"sold_products": []map[string]any{
			{"productId": "P1", "productName": "Rice 5kg", "selling_quantity": 3, "selling_price": 150},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[models.Sale](t, rec)
	assert.Equal(t, 450.0, sale.TotalSold)
	assert.Equal(t, 250.0, sale.PendingAmount)
	assert.Equal(t, models.SaleStatusPending, sale.Status)

	repayPath := fmt.Sprintf("/api/v1/sales/%d/repayments", sale.Timestamp)
	rec = api.do(http.MethodPost, repayPath, map[string]any{
		"buyer_name": "Rahim", "buyer_phoneNo": "01711000000", "amount": 100,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	repaid := decode[models.Sale](t, rec)
	assert.Equal(t, 150.0, repaid.PendingAmount)
	assert.Len(t, repaid.InstallmentHistory, 2)

	rec = api.do(http.MethodPost, repayPath, map[string]any{
		"buyer_name": "Rahim", "buyer_phoneNo": "01711000000", "amount": 500,
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/sales/%d", sale.Timestamp), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 150.0, decode[models.Sale](t, rec).PendingAmount)

	rec = api.do(http.MethodGet, "/api/v1/sales?status=pending&search=rahim", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Sale](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/v1/sales/export?status=pending", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reporting.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales.xlsx")

	rec = api.do(http.MethodGet, "/api/v1/stock?search=rice", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stock := decode[[]models.StockProduct](t, rec)
	require.Len(t, stock, 1)
	assert.Equal(t, 7, stock[0].CurrentStock)

	rec = api.do(http.MethodPost, "/api/v1/expenses", map[string]any{
		"expense_title": "Van rent", "expense_amount": 50,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/v1/dashboard/summary?range=today", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.Summary](t, rec)
	assert.Equal(t, 300.0, summary.TotalIncome)
	assert.Equal(t, 1050.0, summary.TotalExpense)
	assert.Equal(t, 150.0, summary.TotalPending)
	assert.Equal(t, 7, summary.ProductsInStock)
	assert.Equal(t, 1, summary.SalesCount)

	rec = api.do(http.MethodGet, "/api/v1/dashboard/charts?range=today", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.DailySalesPoint](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/v1/dashboard/recent-sales?limit=3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Sale](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/v1/activities?range=today", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[[]models.ActivityRecord](t, rec)
	require.Len(t, records, 4)
	assert.Equal(t, models.ActivityExpense, records[0].Type)
	assert.Equal(t, -1000.0, records[3].Amount)

	rec = api.do(http.MethodGet, "/api/v1/activities/export?range=today", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reporting.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "activity.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestErrorStatuses(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad range", http.MethodGet, "/api/v1/activities?range=fortnight", nil, http.StatusBadRequest},
		{"validation", http.MethodPost, "/api/v1/products", map[string]any{"productId": "P1", "quantity": 0}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/expenses", "not an object", http.StatusBadRequest},
		{"bad sale id", http.MethodGet, "/api/v1/sales/abc", nil, http.StatusBadRequest},
		{"unknown sale", http.MethodGet, "/api/v1/sales/42", nil, http.StatusNotFound},
		{"bad limit", http.MethodGet, "/api/v1/dashboard/recent-sales?limit=-1", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func TestDuplicateProductIsConflict(t *testing.T) {
	api := newTestAPI(t)
	body := map[string]any{"productId": "P1", "productName": "Rice 5kg", "quantity": 1, "buyingPrice": 10}

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/products", body, nil).Code)

	body["productName"] = "Lentils"
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/v1/products", body, nil).Code)
}

func TestIdempotencyKey(t *testing.T) {
	api := newTestAPI(t)
	key := map[string]string{handlers.HeaderIdempotencyKey: "form-1"}

	invalid := map[string]any{"expense_title": "Tea", "expense_amount": 0}
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/expenses", invalid, key).Code)

	valid := map[string]any{"expense_title": "Tea", "expense_amount": 20}
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/expenses", valid, key).Code)

	rec := api.do(http.MethodPost, "/api/v1/expenses", valid, key)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "request already processed", errorOf(t, rec))

	rec = api.do(http.MethodGet, "/api/v1/expenses?range=today", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.DailyExpense](t, rec), 1)
}

func TestUsers(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/users/me", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode[models.UserProfile](t, rec)
	assert.Equal(t, "u-1", profile.UID)
	assert.Equal(t, "owner@ambika.shop", profile.Email)

	rec = api.do(http.MethodPut, "/api/v1/users/me", map[string]any{"field": "displayName", "value": "Sowmen S."}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Sowmen S.", decode[models.UserProfile](t, rec).DisplayName)

	rec = api.do(http.MethodPut, "/api/v1/users/me", map[string]any{"field": "email", "value": "x@y.z"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/exists?email=OWNER@ambika.shop", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exists map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exists))
	assert.True(t, exists["exists"])
}
