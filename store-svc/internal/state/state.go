// Package state holds the session's cart/order state and the reducer that
// evolves it.
package state

import (
	"foodflow/store-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// CartState is the cart's lines in insertion order and the restaurant they
// all come from. RestaurantID is empty while the cart is unbound. Revision
// goes up whenever the cart changes.
type CartState struct {
	Lines        []domain.CartLine `json:"lines"`
	RestaurantID string            `json:"restaurant_id,omitempty"`
	Revision     uint64            `json:"revision"`
}

func (c CartState) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums (item price + add-on prices) x quantity over every line.
func (c CartState) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total
}

func (c CartState) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Quantity reports how many units of the menu item the cart holds across all
// of its customizations.
func (c CartState) Quantity(menuItemID string) int {
	count := 0
	for _, line := range c.Lines {
		if line.MenuItem.ID == menuItemID {
			count += line.Quantity
		}
	}
	return count
}

type AppState struct {
	Role            domain.Role     `json:"role"`
	Cart            CartState       `json:"cart"`
	SelectedAddress *domain.Address `json:"selected_address"`
	ActiveOrder     *domain.Order   `json:"active_order"`
	RestaurantOpen  bool            `json:"restaurant_open"`
	DeliveryOnline  bool            `json:"delivery_online"`
}

// Initial is the state every session starts from.
func Initial() AppState {
	return AppState{
		Role:           domain.RoleCustomer,
		Cart:           CartState{Lines: []domain.CartLine{}},
		RestaurantOpen: true,
		DeliveryOnline: false,
	}
}

// CartTotal is recomputed from the cart on every call.
func CartTotal(s AppState) decimal.Decimal {
	return s.Cart.Total()
}

func CartItemCount(s AppState) int {
	return s.Cart.ItemCount()
}

// Clone returns a copy that shares no slices or pointers with s, so callers
// outside the store may modify it freely.
func (s AppState) Clone() AppState {
	out := s
	out.Cart.Lines = cloneLines(s.Cart.Lines)
	if s.SelectedAddress != nil {
		address := *s.SelectedAddress
		out.SelectedAddress = &address
	}
	if s.ActiveOrder != nil {
		order := *s.ActiveOrder
		order.Items = cloneLines(s.ActiveOrder.Items)
		out.ActiveOrder = &order
	}
	return out
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	if lines == nil {
		return nil
	}
	out := make([]domain.CartLine, len(lines))
	for i, line := range lines {
		line.SelectedAddons = cloneAddons(line.SelectedAddons)
		line.MenuItem.Addons = cloneAddons(line.MenuItem.Addons)
		out[i] = line
	}
	return out
}

func cloneAddons(addons []domain.Addon) []domain.Addon {
	if addons == nil {
		return nil
	}
	return append([]domain.Addon(nil), addons...)
}

// StatusAdvanced reports the status the active order reached when going from
// prev to next. It is false when the order changed identity or its status
// did not move.
func StatusAdvanced(prev, next AppState) (domain.OrderStatus, bool) {
	if prev.ActiveOrder == nil || next.ActiveOrder == nil {
		return "", false
	}
	if prev.ActiveOrder.ID != next.ActiveOrder.ID || prev.ActiveOrder.Status == next.ActiveOrder.Status {
		return "", false
	}
	return next.ActiveOrder.Status, true
}
