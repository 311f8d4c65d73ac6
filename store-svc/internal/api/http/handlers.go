package httpapi

import (
	"net/http"
	"time"

	"foodflow/pkg/logger"
	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/service"
	"foodflow/store-svc/internal/state"

	"github.com/gorilla/mux"
)

// OrderTracker runs the fulfillment clock for the active order.
type OrderTracker interface {
	Track(orderID string)
	Stop()
}

type Handler struct {
	Catalog     service.CatalogServiceInterface
	Checkout    service.CheckoutServiceInterface
	Fulfillment OrderTracker
	QR          service.QRGenerator
	Log         *logger.Logger
	Now         func() time.Time
}

func NewHandler(catalog service.CatalogServiceInterface, checkout service.CheckoutServiceInterface, fulfillment OrderTracker, qr service.QRGenerator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		Catalog:     catalog,
		Checkout:    checkout,
		Fulfillment: fulfillment,
		QR:          qr,
		Log:         log,
		Now:         time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/state", h.getState).Methods("GET")
	r.HandleFunc("/api/role", h.setRole).Methods("PUT")

	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{itemId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")

	r.HandleFunc("/api/address", h.selectAddress).Methods("PUT")
	r.HandleFunc("/api/checkout/quote", h.getQuote).Methods("GET")

	r.HandleFunc("/api/orders", h.placeOrder).Methods("POST")
	r.HandleFunc("/api/orders/active", h.getActiveOrder).Methods("GET")
	r.HandleFunc("/api/orders/active", h.clearActiveOrder).Methods("DELETE")
	r.HandleFunc("/api/orders/active/status", h.advanceOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/active/eta", h.getActiveOrderETA).Methods("GET")
	r.HandleFunc("/api/orders/active/qrcode", h.getActiveOrderQRCode).Methods("GET")

	r.HandleFunc("/api/restaurant/toggle", h.toggleRestaurant).Methods("POST")
	r.HandleFunc("/api/delivery/toggle", h.toggleDelivery).Methods("POST")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/user", h.getUser).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "store-svc",
		"timestamp": h.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	store := state.FromContext(r.Context())
	writeJSON(w, http.StatusOK, newStateView(store.Read()))
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.writeError(w, r, invalid("%v", err))
		return
	}

	next := state.FromContext(r.Context()).Dispatch(state.SetRole{Role: role})
	writeJSON(w, http.StatusOK, newStateView(next))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	action, err := h.Catalog.ResolveAddToCart(r.Context(), req.MenuItemID, quantity, req.AddonIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	next := state.FromContext(r.Context()).Dispatch(action)
	writeJSON(w, http.StatusOK, newCartView(next))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}

	next := state.FromContext(r.Context()).Dispatch(state.UpdateQuantity{
		MenuItemID: mux.Vars(r)["itemId"],
		Quantity:   *req.Quantity,
	})
	writeJSON(w, http.StatusOK, newCartView(next))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	next := state.FromContext(r.Context()).Dispatch(state.RemoveFromCart{MenuItemID: mux.Vars(r)["itemId"]})
	writeJSON(w, http.StatusOK, newCartView(next))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	next := state.FromContext(r.Context()).Dispatch(state.ClearCart{})
	writeJSON(w, http.StatusOK, newCartView(next))
}

func (h *Handler) selectAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	address, err := h.Checkout.SelectAddress(r.Context(), req.AddressID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Checkout.Quote(r.Context(), state.FromContext(r.Context()).Read())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.Checkout.PlaceOrder(r.Context(), req.AddressID, req.PaymentMethod)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Fulfillment.Track(order.ID)

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) activeOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	order := state.FromContext(r.Context()).Read().ActiveOrder
	if order == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active order"})
		return nil, false
	}
	return order, true
}

func (h *Handler) getActiveOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.activeOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, trackingView{
		Order:   order,
		Message: order.Status.Message(),
		ETA:     domain.FormatETA(h.Now(), order.EstimatedDelivery),
	})
}

func (h *Handler) clearActiveOrder(w http.ResponseWriter, r *http.Request) {
	h.Fulfillment.Stop()
	state.FromContext(r.Context()).Dispatch(state.SetActiveOrder{Order: nil})
	w.WriteHeader(http.StatusNoContent)
}

// advanceOrderStatus lets the restaurant and delivery views move the order by
// hand. Any known status is accepted.
func (h *Handler) advanceOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSONBody(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		h.writeError(w, r, invalid("%v", err))
		return
	}
	order, ok := h.activeOrder(w, r)
	if !ok {
		return
	}

	next := state.FromContext(r.Context()).Dispatch(state.AdvanceOrderStatus{Status: status, OrderID: order.ID})
	if next.ActiveOrder == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active order"})
		return
	}
	writeJSON(w, http.StatusOK, next.ActiveOrder)
}

func (h *Handler) getActiveOrderETA(w http.ResponseWriter, r *http.Request) {
	order, ok := h.activeOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, etaView{
		OrderID:           order.ID,
		ETA:               domain.FormatETA(h.Now(), order.EstimatedDelivery),
		EstimatedDelivery: order.EstimatedDelivery,
	})
}

func (h *Handler) getActiveOrderQRCode(w http.ResponseWriter, r *http.Request) {
	order, ok := h.activeOrder(w, r)
	if !ok {
		return
	}
	png, err := h.QR.Generate(order.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) toggleRestaurant(w http.ResponseWriter, r *http.Request) {
	next := state.FromContext(r.Context()).Dispatch(state.ToggleRestaurantOpen{})
	writeJSON(w, http.StatusOK, map[string]bool{"restaurant_open": next.RestaurantOpen})
}

func (h *Handler) toggleDelivery(w http.ResponseWriter, r *http.Request) {
	next := state.FromContext(r.Context()).Dispatch(state.ToggleDeliveryOnline{})
	writeJSON(w, http.StatusOK, map[string]bool{"delivery_online": next.DeliveryOnline})
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Catalog.Restaurants(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Catalog.Restaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Menu(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Catalog.User(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
