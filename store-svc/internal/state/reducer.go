package state

import (
	"sort"

	"foodflow/store-svc/internal/domain"
)

// Reduce returns the state that results from applying a to s. It never
// modifies s: every change allocates fresh slices and copies the order it
// touches. Actions it does not know leave s unchanged.
func Reduce(s AppState, a Action) AppState {
	switch action := a.(type) {
	case SetRole:
		s.Role = action.Role
		return s

	case AddToCart:
		s.Cart = addToCart(s.Cart, action)
		return s

	case RemoveFromCart:
		s.Cart = removeFromCart(s.Cart, action.MenuItemID)
		return s

	case UpdateQuantity:
		if action.Quantity <= 0 {
			s.Cart = removeFromCart(s.Cart, action.MenuItemID)
			return s
		}
		s.Cart = setQuantity(s.Cart, action.MenuItemID, action.Quantity)
		return s

	case ClearCart:
		if s.Cart.IsEmpty() {
			return s
		}
		s.Cart = emptyCart(s.Cart)
		return s

	case SetSelectedAddress:
		address := action.Address
		s.SelectedAddress = &address
		return s

	case SetActiveOrder:
		if action.Order == nil {
			s.ActiveOrder = nil
			return s
		}
		order := *action.Order
		s.ActiveOrder = &order
		return s

	case AdvanceOrderStatus:
		if s.ActiveOrder == nil || s.ActiveOrder.Status.IsTerminal() {
			return s
		}
		if action.OrderID != "" && action.OrderID != s.ActiveOrder.ID {
			return s
		}
		if action.From != "" && action.From != s.ActiveOrder.Status {
			return s
		}
		order := *s.ActiveOrder
		order.Status = action.Status
		s.ActiveOrder = &order
		return s

	case ToggleRestaurantOpen:
		s.RestaurantOpen = !s.RestaurantOpen
		return s

	case ToggleDeliveryOnline:
		s.DeliveryOnline = !s.DeliveryOnline
		return s

	case PlaceOrder:
		if action.CartRevision != s.Cart.Revision {
			return s
		}
		order := action.Order
		s.ActiveOrder = &order
		s.Cart = emptyCart(s.Cart)
		return s

	default:
		return s
	}
}

// emptyCart drops every line and the binding; the revision keeps counting.
func emptyCart(cart CartState) CartState {
	return CartState{Lines: []domain.CartLine{}, Revision: cart.Revision + 1}
}

func addToCart(cart CartState, action AddToCart) CartState {
	if action.Quantity <= 0 {
		return cart
	}

	incoming := domain.CartLine{
		MenuItem:       action.Item,
		Quantity:       action.Quantity,
		SelectedAddons: append([]domain.Addon(nil), action.Addons...),
	}
	revision := cart.Revision + 1

	if !cart.IsEmpty() && cart.RestaurantID != "" && cart.RestaurantID != action.Item.RestaurantID {
		return CartState{
			Lines:        []domain.CartLine{incoming},
			RestaurantID: action.Item.RestaurantID,
			Revision:     revision,
		}
	}

	lines := make([]domain.CartLine, len(cart.Lines), len(cart.Lines)+1)
	copy(lines, cart.Lines)

	for i, line := range lines {
		if line.MenuItem.ID == action.Item.ID && sameAddons(line.SelectedAddons, action.Addons) {
			lines[i].Quantity += action.Quantity
			return CartState{Lines: lines, RestaurantID: cart.RestaurantID, Revision: revision}
		}
	}

	return CartState{
		Lines:        append(lines, incoming),
		RestaurantID: action.Item.RestaurantID,
		Revision:     revision,
	}
}

// removeFromCart drops every line for the menu item, whatever its add-ons.
// Both RemoveFromCart and UpdateQuantity to zero land here.
func removeFromCart(cart CartState, menuItemID string) CartState {
	lines := make([]domain.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.MenuItem.ID != menuItemID {
			lines = append(lines, line)
		}
	}
	if len(lines) == len(cart.Lines) {
		return cart
	}

	restaurantID := cart.RestaurantID
	if len(lines) == 0 {
		restaurantID = ""
	}
	return CartState{Lines: lines, RestaurantID: restaurantID, Revision: cart.Revision + 1}
}

func setQuantity(cart CartState, menuItemID string, quantity int) CartState {
	found := false
	lines := make([]domain.CartLine, len(cart.Lines))
	for i, line := range cart.Lines {
		if line.MenuItem.ID == menuItemID {
			line.Quantity = quantity
			found = true
		}
		lines[i] = line
	}
	if !found {
		return cart
	}
	return CartState{Lines: lines, RestaurantID: cart.RestaurantID, Revision: cart.Revision + 1}
}

// sameAddons compares two selections as multisets of add-on ids, so the order
// in which add-ons were picked does not split a line.
func sameAddons(a, b []domain.Addon) bool {
	if len(a) != len(b) {
		return false
	}
	left := addonIDs(a)
	right := addonIDs(b)
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func addonIDs(addons []domain.Addon) []string {
	ids := make([]string, len(addons))
	for i, addon := range addons {
		ids[i] = addon.ID
	}
	sort.Strings(ids)
	return ids
}
