package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/service"
	"foodflow/store-svc/internal/state"

	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type cartView struct {
	Lines        []domain.CartLine `json:"lines"`
	RestaurantID string            `json:"restaurant_id,omitempty"`
	Total        decimal.Decimal   `json:"total"`
	ItemCount    int               `json:"item_count"`
}

type stateView struct {
	Role            domain.Role     `json:"role"`
	Cart            cartView        `json:"cart"`
	SelectedAddress *domain.Address `json:"selected_address"`
	ActiveOrder     *domain.Order   `json:"active_order"`
	RestaurantOpen  bool            `json:"restaurant_open"`
	DeliveryOnline  bool            `json:"delivery_online"`
}

type trackingView struct {
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
	ETA     string        `json:"eta"`
}

type etaView struct {
	OrderID           string    `json:"order_id"`
	ETA               string    `json:"eta"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

func newCartView(s state.AppState) cartView {
	return cartView{
		Lines:        s.Cart.Lines,
		RestaurantID: s.Cart.RestaurantID,
		Total:        state.CartTotal(s),
		ItemCount:    state.CartItemCount(s),
	}
}

func newStateView(s state.AppState) stateView {
	return stateView{
		Role:            s.Role,
		Cart:            newCartView(s),
		SelectedAddress: s.SelectedAddress,
		ActiveOrder:     s.ActiveOrder,
		RestaurantOpen:  s.RestaurantOpen,
		DeliveryOnline:  s.DeliveryOnline,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func statusFor(err error) int {
	var verr *validationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrInvalidAddon),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrCartChanged):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var verr *validationError
	if errors.As(err, &verr) {
		body.Details = verr.fields
	}

	if status == http.StatusInternalServerError {
		if errors.Is(err, context.Canceled) {
			h.Log.Warn(r.Context(), "request cancelled")
		} else {
			h.Log.Error(r.Context(), "request failed", err)
		}
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}
