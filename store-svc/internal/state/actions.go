package state

import "foodflow/store-svc/internal/domain"

// Action is one of the closed set of mutations the store understands. The
// unexported marker keeps the set closed to this package.
type Action interface {
	Name() string
	isAction()
}

type SetRole struct {
	Role domain.Role
}

type AddToCart struct {
	Item     domain.MenuItem
	Quantity int
	Addons   []domain.Addon
}

type RemoveFromCart struct {
	MenuItemID string
}

// UpdateQuantity sets an absolute quantity, not a delta.
type UpdateQuantity struct {
	MenuItemID string
	Quantity   int
}

type ClearCart struct{}

type SetSelectedAddress struct {
	Address domain.Address
}

// SetActiveOrder starts tracking Order, or stops tracking when Order is nil.
type SetActiveOrder struct {
	Order *domain.Order
}

// AdvanceOrderStatus moves the active order to Status. OrderID and From,
// when set, must match the active order at reduction time or the action is
// ignored.
type AdvanceOrderStatus struct {
	Status  domain.OrderStatus
	OrderID string
	From    domain.OrderStatus
}

type ToggleRestaurantOpen struct{}

type ToggleDeliveryOnline struct{}

// PlaceOrder installs Order as the active order and empties the cart in a
// single reduction. CartRevision is the revision of the cart Order was built
// from; if the cart has moved on since, the action is ignored.
type PlaceOrder struct {
	Order        domain.Order
	CartRevision uint64
}

func (SetRole) Name() string              { return "set_role" }
func (AddToCart) Name() string            { return "add_to_cart" }
func (RemoveFromCart) Name() string       { return "remove_from_cart" }
func (UpdateQuantity) Name() string       { return "update_quantity" }
func (ClearCart) Name() string            { return "clear_cart" }
func (SetSelectedAddress) Name() string   { return "set_selected_address" }
func (SetActiveOrder) Name() string       { return "set_active_order" }
func (AdvanceOrderStatus) Name() string   { return "advance_order_status" }
func (ToggleRestaurantOpen) Name() string { return "toggle_restaurant_open" }
func (ToggleDeliveryOnline) Name() string { return "toggle_delivery_online" }
func (PlaceOrder) Name() string           { return "place_order" }

func (SetRole) isAction()              {}
func (AddToCart) isAction()            {}
func (RemoveFromCart) isAction()       {}
func (UpdateQuantity) isAction()       {}
func (ClearCart) isAction()            {}
func (SetSelectedAddress) isAction()   {}
func (SetActiveOrder) isAction()       {}
func (AdvanceOrderStatus) isAction()   {}
func (ToggleRestaurantOpen) isAction() {}
func (ToggleDeliveryOnline) isAction() {}
func (PlaceOrder) isAction()           {}
