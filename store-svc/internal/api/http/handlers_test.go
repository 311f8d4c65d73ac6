package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"foodflow/pkg/logger"
	httpapi "foodflow/store-svc/internal/api/http"
	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/mocks"
	"foodflow/store-svc/internal/service"
	"foodflow/store-svc/internal/state"
	"foodflow/store-svc/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

type fakeTracker struct {
	mu      sync.Mutex
	tracked []string
	stops   int
}

func (f *fakeTracker) Track(orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracked = append(f.tracked, orderID)
}

func (f *fakeTracker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

type testServer struct {
	handler http.Handler
	store   *state.Store
	tracker *fakeTracker
}

func newTestServer(t *testing.T, qr service.QRGenerator) *testServer {
	t.Helper()

	store := state.NewStore()
	catalog := service.NewCatalogService(storage.NewFixtureRepository(), "user-1")
	checkout := service.NewCheckoutService(store, catalog, service.CheckoutOptions{
		DeliveryETA:        45 * time.Minute,
		TaxRate:            decimal.RequireFromString("0.05"),
		DefaultDeliveryFee: decimal.NewFromInt(30),
		Partner:            storage.DefaultDeliveryPartner,
		Now:                func() time.Time { return now },
		NewID:              func() string { return "order-1" },
	}, logger.Nop())
	if qr == nil {
		qr = service.DefaultQRGenerator{BaseURL: "http://localhost:8084"}
	}

	tracker := &fakeTracker{}
	handler := httpapi.NewHandler(catalog, checkout, tracker, qr, logger.Nop())
	handler.Now = func() time.Time { return now }

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "foodflow_test_total", Help: "test"}))

	return &testServer{
		handler: httpapi.NewRouter(handler, httpapi.RouterOptions{Store: store, Gatherer: reg}),
		store:   store,
		tracker: tracker,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type cartResponse struct {
	Lines        []domain.CartLine `json:"lines"`
	RestaurantID string            `json:"restaurant_id"`
	Total        decimal.Decimal   `json:"total"`
	ItemCount    int               `json:"item_count"`
}

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "store-svc", body["service"])
}

func TestCartEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"item-1","quantity":2,"addon_ids":["addon-1"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decode[cartResponse](t, rec)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, "rest-1", cart.RestaurantID)
	assert.True(t, decimal.NewFromInt(698).Equal(cart.Total))

	rec = srv.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"item-3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[cartResponse](t, rec).ItemCount)

	rec = srv.do(t, http.MethodPut, "/api/cart/items/item-3", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decode[cartResponse](t, rec).ItemCount)

	rec = srv.do(t, http.MethodPut, "/api/cart/items/item-3", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	assert.Len(t, cart.Lines, 1)

	rec = srv.do(t, http.MethodDelete, "/api/cart/items/item-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.RestaurantID)

	srv.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"item-11"}`)
	rec = srv.do(t, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.store.Read().Cart.IsEmpty())
}

func TestAddCartItemSwitchingRestaurantReplacesCart(t *testing.T) {
	srv := newTestServer(t, nil)

	srv.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"item-1","quantity":2}`)
	rec := srv.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"item-5"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[cartResponse](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "item-5", cart.Lines[0].MenuItem.ID)
	assert.Equal(t, "rest-2", cart.RestaurantID)
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantField  string
	}{
		{name: "unknown menu item", method: http.MethodPost, path: "/api/cart/items", body: `{"menu_item_id":"item-404"}`, wantStatus: http.StatusNotFound},
		{name: "foreign add-on", method: http.MethodPost, path: "/api/cart/items", body: `{"menu_item_id":"item-3","addon_ids":["addon-1"]}`, wantStatus: http.StatusBadRequest},
		{name: "missing menu item id", method: http.MethodPost, path: "/api/cart/items", body: `{"quantity":1}`, wantStatus: http.StatusBadRequest, wantField: "menu_item_id"},
		{name: "zero add quantity", method: http.MethodPost, path: "/api/cart/items", body: `{"menu_item_id":"item-3","quantity":0}`, wantStatus: http.StatusBadRequest, wantField: "quantity"},
		{name: "negative add quantity", method: http.MethodPost, path: "/api/cart/items", body: `{"menu_item_id":"item-3","quantity":-1}`, wantStatus: http.StatusBadRequest, wantField: "quantity"},
		{name: "unknown field", method: http.MethodPost, path: "/api/cart/items", body: `{"menu_item_id":"item-3","price":1}`, wantStatus: http.StatusBadRequest},
		{name: "missing quantity", method: http.MethodPut, path: "/api/cart/items/item-3", body: `{}`, wantStatus: http.StatusBadRequest, wantField: "quantity"},
		{name: "bad role", method: http.MethodPut, path: "/api/role", body: `{"role":"admin"}`, wantStatus: http.StatusBadRequest, wantField: "role"},
		{name: "unknown address", method: http.MethodPut, path: "/api/address", body: `{"address_id":"addr-9"}`, wantStatus: http.StatusNotFound},
		{name: "empty cart checkout", method: http.MethodPost, path: "/api/orders", body: "", wantStatus: http.StatusConflict},
		{name: "bad payment method", method: http.MethodPost, path: "/api/orders", body: `{"payment_method":"cheque"}`, wantStatus: http.StatusBadRequest, wantField: "payment_method"},
		{name: "unknown restaurant", method: http.MethodGet, path: "/api/restaurants/rest-404", wantStatus: http.StatusNotFound},
		{name: "menu of unknown restaurant", method: http.MethodGet, path: "/api/restaurants/rest-404/menu", wantStatus: http.StatusNotFound},
		{name: "no active order", method: http.MethodGet, path: "/api/orders/active", wantStatus: http.StatusNotFound},
		{name: "no active order eta", method: http.MethodGet, path: "/api/orders/active/eta", wantStatus: http.StatusNotFound},
		{name: "no active order qr", method: http.MethodGet, path: "/api/orders/active/qrcode", wantStatus: http.StatusNotFound},
		{name: "advance without order", method: http.MethodPut, path: "/api/orders/active/status", body: `{"status":"ready"}`, wantStatus: http.StatusNotFound},
		{name: "unknown status", method: http.MethodPut, path: "/api/orders/active/status", body: `{"status":"lost"}`, wantStatus: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			srv := newTestServer(t, nil)

			rec := srv.do(t, testCase.method, testCase.path, testCase.body)

			assert.Equal(t, testCase.wantStatus, rec.Code, rec.Body.String())
			body := decode[errorBody](t, rec)
			assert.NotEmpty(t, body.Error)
			if testCase.wantField != "" {
				assert.Contains(t, body.Details, testCase.wantField)
			}
		})
	}
}

func TestRoleAndToggles(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPut, "/api/role", `{"role":"delivery"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleDelivery, srv.store.Read().Role)

	rec = srv.do(t, http.MethodPost, "/api/restaurant/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"restaurant_open": false}, decode[map[string]bool](t, rec))

	rec = srv.do(t, http.MethodPost, "/api/delivery/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"delivery_online": true}, decode[map[string]bool](t, rec))
}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	srv.do(t, http.MethodPost, "/api/cart/items", `{"menu_item_id":"item-8","quantity":2,"addon_ids":["addon-8"]}`)

	rec := srv.do(t, http.MethodGet, "/api/checkout/quote", "")
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decode[service.Quote](t, rec)
	assert.True(t, decimal.NewFromInt(458).Equal(quote.Subtotal))
	assert.True(t, decimal.NewFromInt(20).Equal(quote.DeliveryFee))
	assert.True(t, decimal.NewFromInt(23).Equal(quote.Taxes))
	assert.True(t, decimal.NewFromInt(501).Equal(quote.Total))

	rec = srv.do(t, http.MethodPut, "/api/address", `{"address_id":"addr-2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/orders", `{"payment_method":"cod"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[domain.Order](t, rec)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "Burger Barn", order.RestaurantName)
	assert.Equal(t, "addr-2", order.Address.ID)
	assert.Equal(t, "Cash on Delivery", order.PaymentMethod)
	assert.Equal(t, []string{"order-1"}, srv.tracker.tracked)

	rec = srv.do(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		Cart        cartResponse  `json:"cart"`
		ActiveOrder *domain.Order `json:"active_order"`
	}](t, rec)
	assert.Empty(t, view.Cart.Lines)
	assert.Equal(t, 0, view.Cart.ItemCount)
	require.NotNil(t, view.ActiveOrder)
	assert.Equal(t, domain.OrderStatusPlaced, view.ActiveOrder.Status)

	rec = srv.do(t, http.MethodGet, "/api/orders/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tracking := decode[map[string]any](t, rec)
	assert.Equal(t, "Order placed successfully!", tracking["message"])
	assert.Equal(t, "45 mins", tracking["eta"])

	rec = srv.do(t, http.MethodGet, "/api/orders/active/eta", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "45 mins", decode[map[string]any](t, rec)["eta"])

	rec = srv.do(t, http.MethodPut, "/api/orders/active/status", `{"status":"out_for_delivery"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.OrderStatusOutForDelivery, decode[domain.Order](t, rec).Status)

	rec = srv.do(t, http.MethodGet, "/api/orders/active/qrcode", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = srv.do(t, http.MethodDelete, "/api/orders/active", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, srv.tracker.stops)
	assert.Nil(t, srv.store.Read().ActiveOrder)
}

func TestQRCodeGeneratorFailure(t *testing.T) {
	qr := mocks.NewQRGenerator(t)
	qr.On("Generate", mock.Anything).Return(nil, assert.AnError).Once()
	srv := newTestServer(t, qr)
	srv.store.Dispatch(state.SetActiveOrder{Order: &domain.Order{ID: "order-9", Status: domain.OrderStatusReady}})

	rec := srv.do(t, http.MethodGet, "/api/orders/active/qrcode", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[errorBody](t, rec).Error)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/restaurants", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Restaurant](t, rec), 8)

	rec = srv.do(t, http.MethodGet, "/api/restaurants/rest-6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sweet Tooth Bakery", decode[domain.Restaurant](t, rec).Name)

	rec = srv.do(t, http.MethodGet, "/api/restaurants/rest-2/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.MenuItem](t, rec), 3)

	rec = srv.do(t, http.MethodGet, "/api/user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[domain.User](t, rec)
	assert.Equal(t, "John Doe", user.Name)
	assert.Len(t, user.Addresses, 2)
}

func TestMetricsAndCORS(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "foodflow_test_total"))

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	out := httptest.NewRecorder()
	srv.handler.ServeHTTP(out, req)
	assert.Equal(t, "*", out.Header().Get("Access-Control-Allow-Origin"))
}
