package state_test

import (
	"testing"
	"time"

	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/state"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	extraCheese = domain.Addon{ID: "addon-1", Name: "Extra Cheese", Price: decimal.NewFromInt(50), Category: "Toppings"}
	jalapenos   = domain.Addon{ID: "addon-2", Name: "Jalapenos", Price: decimal.NewFromInt(30), Category: "Toppings"}

	margherita = domain.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Margherita Pizza",
		Price: decimal.NewFromInt(299), IsAvailable: true,
		Addons: []domain.Addon{extraCheese, jalapenos},
	}
	garlicBread = domain.MenuItem{ID: "item-3", RestaurantID: "rest-1", Name: "Garlic Bread", Price: decimal.NewFromInt(129), IsAvailable: true}
	biryani     = domain.MenuItem{ID: "item-5", RestaurantID: "rest-2", Name: "Hyderabadi Chicken Biryani", Price: decimal.NewFromInt(349), IsAvailable: true}
)

func reduceAll(s state.AppState, actions ...state.Action) state.AppState {
	for _, action := range actions {
		s = state.Reduce(s, action)
	}
	return s
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:           "order-1",
		RestaurantID: "rest-1",
		Status:       status,
		PlacedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInitial(t *testing.T) {
	s := state.Initial()

	assert.Equal(t, domain.RoleCustomer, s.Role)
	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Cart.RestaurantID)
	assert.Nil(t, s.SelectedAddress)
	assert.Nil(t, s.ActiveOrder)
	assert.True(t, s.RestaurantOpen)
	assert.False(t, s.DeliveryOnline)
	assert.True(t, state.CartTotal(s).IsZero())
	assert.Zero(t, state.CartItemCount(s))
}

func TestReduce_AddSameItemMerges(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 2},
		state.AddToCart{Item: margherita, Quantity: 1},
	)

	require.Len(t, s.Cart.Lines, 1)
	assert.Equal(t, 3, s.Cart.Lines[0].Quantity)
	assert.Equal(t, "rest-1", s.Cart.RestaurantID)
	assert.True(t, decimal.NewFromInt(3*299).Equal(state.CartTotal(s)))
	assert.Equal(t, 3, state.CartItemCount(s))
}

func TestReduce_AddDifferentAddonsKeepsSeparateLines(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1},
		state.AddToCart{Item: margherita, Quantity: 1, Addons: []domain.Addon{extraCheese}},
	)

	require.Len(t, s.Cart.Lines, 2)
	assert.True(t, decimal.NewFromInt(299+349).Equal(state.CartTotal(s)))
}

func TestReduce_AddonOrderDoesNotSplitLines(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1, Addons: []domain.Addon{extraCheese, jalapenos}},
		state.AddToCart{Item: margherita, Quantity: 2, Addons: []domain.Addon{jalapenos, extraCheese}},
	)

	require.Len(t, s.Cart.Lines, 1)
	assert.Equal(t, 3, s.Cart.Lines[0].Quantity)
	assert.Equal(t, []domain.Addon{extraCheese, jalapenos}, s.Cart.Lines[0].SelectedAddons)
}

func TestReduce_AddFromOtherRestaurantRebinds(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1},
		state.AddToCart{Item: garlicBread, Quantity: 2},
		state.AddToCart{Item: biryani, Quantity: 1},
	)

	require.Len(t, s.Cart.Lines, 1)
	assert.Equal(t, "item-5", s.Cart.Lines[0].MenuItem.ID)
	assert.Equal(t, 1, s.Cart.Lines[0].Quantity)
	assert.Equal(t, "rest-2", s.Cart.RestaurantID)
}

func TestReduce_AddNonPositiveQuantityIsNoop(t *testing.T) {
	before := reduceAll(state.Initial(), state.AddToCart{Item: margherita, Quantity: 1})

	for _, qty := range []int{0, -3} {
		after := state.Reduce(before, state.AddToCart{Item: biryani, Quantity: qty})
		assert.Equal(t, before, after)
	}
}

func TestReduce_TotalIsIndependentOfAddOrder(t *testing.T) {
	actions := []state.Action{
		state.AddToCart{Item: margherita, Quantity: 2, Addons: []domain.Addon{extraCheese}},
		state.AddToCart{Item: garlicBread, Quantity: 1},
		state.AddToCart{Item: margherita, Quantity: 1},
		state.AddToCart{Item: garlicBread, Quantity: 4},
	}
	reversed := make([]state.Action, len(actions))
	for i, action := range actions {
		reversed[len(actions)-1-i] = action
	}

	forward := reduceAll(state.Initial(), actions...)
	backward := reduceAll(state.Initial(), reversed...)

	want := decimal.Zero
	for _, line := range forward.Cart.Lines {
		want = want.Add(line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	assert.True(t, want.Equal(state.CartTotal(forward)))
	assert.True(t, state.CartTotal(forward).Equal(state.CartTotal(backward)))
	assert.True(t, decimal.NewFromInt(2*349+5*129+299).Equal(state.CartTotal(forward)))
	assert.Equal(t, 8, state.CartItemCount(backward))
}

func TestReduce_RemoveFromCart(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1},
		state.AddToCart{Item: margherita, Quantity: 1, Addons: []domain.Addon{extraCheese}},
		state.AddToCart{Item: garlicBread, Quantity: 1},
	)

	s = state.Reduce(s, state.RemoveFromCart{MenuItemID: "item-1"})
	require.Len(t, s.Cart.Lines, 1)
	assert.Equal(t, "item-3", s.Cart.Lines[0].MenuItem.ID)
	assert.Equal(t, "rest-1", s.Cart.RestaurantID)

	unchanged := state.Reduce(s, state.RemoveFromCart{MenuItemID: "item-404"})
	assert.Equal(t, s, unchanged)

	s = state.Reduce(s, state.RemoveFromCart{MenuItemID: "item-3"})
	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Cart.RestaurantID)
}

func TestReduce_UpdateQuantity(t *testing.T) {
	base := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 2},
		state.AddToCart{Item: garlicBread, Quantity: 1},
	)

	t.Run("sets exact value", func(t *testing.T) {
		s := state.Reduce(base, state.UpdateQuantity{MenuItemID: "item-1", Quantity: 5})
		assert.Equal(t, 5, s.Cart.Quantity("item-1"))
		assert.Equal(t, 1, s.Cart.Quantity("item-3"))
	})

	t.Run("unknown item is a no-op", func(t *testing.T) {
		s := state.Reduce(base, state.UpdateQuantity{MenuItemID: "item-404", Quantity: 5})
		assert.Equal(t, base, s)
	})

	for _, qty := range []int{0, -1} {
		t.Run("non-positive behaves as remove", func(t *testing.T) {
			updated := state.Reduce(base, state.UpdateQuantity{MenuItemID: "item-1", Quantity: qty})
			removed := state.Reduce(base, state.RemoveFromCart{MenuItemID: "item-1"})
			assert.Equal(t, removed, updated)
		})
	}

	t.Run("last line to zero clears binding", func(t *testing.T) {
		s := reduceAll(state.Initial(),
			state.AddToCart{Item: biryani, Quantity: 1},
			state.UpdateQuantity{MenuItemID: "item-5", Quantity: 0},
		)
		assert.True(t, s.Cart.IsEmpty())
		assert.Empty(t, s.Cart.RestaurantID)
	})
}

func TestReduce_ClearCartLeavesActiveOrder(t *testing.T) {
	order := sampleOrder(domain.OrderStatusPlaced)
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1},
		state.SetActiveOrder{Order: order},
		state.ClearCart{},
	)

	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Cart.RestaurantID)
	require.NotNil(t, s.ActiveOrder)
	assert.Equal(t, *order, *s.ActiveOrder)
}

func TestReduce_PlaceOrderReplacesAndEmpties(t *testing.T) {
	first := sampleOrder(domain.OrderStatusDelivered)
	second := *sampleOrder(domain.OrderStatusPlaced)
	second.ID = "order-2"

	s := reduceAll(state.Initial(),
		state.SetActiveOrder{Order: first},
		state.AddToCart{Item: biryani, Quantity: 2},
	)
	s = state.Reduce(s, state.PlaceOrder{Order: second, CartRevision: s.Cart.Revision})

	require.NotNil(t, s.ActiveOrder)
	assert.Equal(t, "order-2", s.ActiveOrder.ID)
	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Cart.RestaurantID)
}

func TestReduce_PlaceOrderFromStaleCartIsIgnored(t *testing.T) {
	s := reduceAll(state.Initial(), state.AddToCart{Item: biryani, Quantity: 2})
	order := *sampleOrder(domain.OrderStatusPlaced)
	builtFrom := s.Cart.Revision

	s = state.Reduce(s, state.UpdateQuantity{MenuItemID: "item-5", Quantity: 3})
	after := state.Reduce(s, state.PlaceOrder{Order: order, CartRevision: builtFrom})

	assert.Equal(t, s, after)
	assert.Nil(t, after.ActiveOrder)
	assert.Equal(t, 3, after.Cart.Quantity("item-5"))
}

func TestReduce_CartRevision(t *testing.T) {
	s := state.Initial()
	assert.Zero(t, s.Cart.Revision)

	s = state.Reduce(s, state.AddToCart{Item: margherita, Quantity: 1})
	assert.Equal(t, uint64(1), s.Cart.Revision)

	for _, noop := range []state.Action{
		state.AddToCart{Item: margherita, Quantity: 0},
		state.RemoveFromCart{MenuItemID: "item-404"},
		state.UpdateQuantity{MenuItemID: "item-404", Quantity: 2},
		state.SetRole{Role: domain.RoleDelivery},
	} {
		assert.Equal(t, uint64(1), state.Reduce(s, noop).Cart.Revision, noop.Name())
	}

	s = reduceAll(s,
		state.UpdateQuantity{MenuItemID: "item-1", Quantity: 4},
		state.ClearCart{},
	)
	assert.Equal(t, uint64(3), s.Cart.Revision)
	assert.Equal(t, uint64(3), state.Reduce(s, state.ClearCart{}).Cart.Revision)
}

func TestReduce_SetActiveOrderNilClears(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.SetActiveOrder{Order: sampleOrder(domain.OrderStatusPlaced)},
		state.SetActiveOrder{Order: nil},
	)
	assert.Nil(t, s.ActiveOrder)
}

func TestReduce_AdvanceOrderStatus(t *testing.T) {
	t.Run("no active order is a no-op", func(t *testing.T) {
		before := reduceAll(state.Initial(), state.AddToCart{Item: margherita, Quantity: 1})
		after := state.Reduce(before, state.AdvanceOrderStatus{Status: domain.OrderStatusConfirmed})
		assert.Equal(t, before, after)
	})

	t.Run("replaces status without validating the successor", func(t *testing.T) {
		s := reduceAll(state.Initial(),
			state.SetActiveOrder{Order: sampleOrder(domain.OrderStatusPlaced)},
			state.AdvanceOrderStatus{Status: domain.OrderStatusOutForDelivery},
		)
		assert.Equal(t, domain.OrderStatusOutForDelivery, s.ActiveOrder.Status)
	})

	t.Run("guarded by order id and expected status", func(t *testing.T) {
		before := reduceAll(state.Initial(), state.SetActiveOrder{Order: sampleOrder(domain.OrderStatusReady)})

		for name, action := range map[string]state.AdvanceOrderStatus{
			"other order":     {Status: domain.OrderStatusOutForDelivery, OrderID: "order-2"},
			"status moved":    {Status: domain.OrderStatusReady, OrderID: "order-1", From: domain.OrderStatusPreparing},
			"both mismatched": {Status: domain.OrderStatusOutForDelivery, OrderID: "order-9", From: domain.OrderStatusPlaced},
		} {
			assert.Equal(t, before, state.Reduce(before, action), name)
		}

		after := state.Reduce(before, state.AdvanceOrderStatus{
			Status:  domain.OrderStatusOutForDelivery,
			OrderID: "order-1",
			From:    domain.OrderStatusReady,
		})
		assert.Equal(t, domain.OrderStatusOutForDelivery, after.ActiveOrder.Status)
	})

	for _, terminal := range []domain.OrderStatus{domain.OrderStatusDelivered, domain.OrderStatusCancelled} {
		t.Run("terminal "+string(terminal)+" stays put", func(t *testing.T) {
			before := reduceAll(state.Initial(), state.SetActiveOrder{Order: sampleOrder(terminal)})
			after := state.Reduce(before, state.AdvanceOrderStatus{Status: domain.OrderStatusPreparing})
			assert.Equal(t, before, after)
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	order := sampleOrder(domain.OrderStatusPlaced)
	before := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1},
		state.SetActiveOrder{Order: order},
	)
	snapshot := before.Clone()

	state.Reduce(before, state.AddToCart{Item: margherita, Quantity: 4})
	state.Reduce(before, state.UpdateQuantity{MenuItemID: "item-1", Quantity: 9})
	state.Reduce(before, state.AdvanceOrderStatus{Status: domain.OrderStatusConfirmed})

	assert.Equal(t, snapshot, before)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
}

func TestAppState_CloneCopiesMenuItemAddons(t *testing.T) {
	s := reduceAll(state.Initial(),
		state.AddToCart{Item: margherita, Quantity: 1, Addons: []domain.Addon{extraCheese}},
	)
	s = state.Reduce(s, state.PlaceOrder{
		Order:        domain.Order{ID: "order-1", Items: s.Cart.Lines},
		CartRevision: s.Cart.Revision,
	})
	s = state.Reduce(s, state.AddToCart{Item: margherita, Quantity: 1})

	clone := s.Clone()
	clone.Cart.Lines[0].MenuItem.Addons[0].Name = "changed"
	clone.ActiveOrder.Items[0].MenuItem.Addons[0].Name = "changed"
	clone.ActiveOrder.Items[0].SelectedAddons[0].Name = "changed"

	assert.Equal(t, "Extra Cheese", s.Cart.Lines[0].MenuItem.Addons[0].Name)
	assert.Equal(t, "Extra Cheese", s.ActiveOrder.Items[0].MenuItem.Addons[0].Name)
	assert.Equal(t, "Extra Cheese", s.ActiveOrder.Items[0].SelectedAddons[0].Name)
	assert.Equal(t, "Extra Cheese", margherita.Addons[0].Name)
}

func TestStatusAdvanced(t *testing.T) {
	ready := reduceAll(state.Initial(), state.SetActiveOrder{Order: sampleOrder(domain.OrderStatusReady)})
	out := state.Reduce(ready, state.AdvanceOrderStatus{Status: domain.OrderStatusOutForDelivery})

	status, ok := state.StatusAdvanced(ready, out)
	assert.True(t, ok)
	assert.Equal(t, domain.OrderStatusOutForDelivery, status)

	_, ok = state.StatusAdvanced(out, out)
	assert.False(t, ok)

	other := *sampleOrder(domain.OrderStatusPlaced)
	other.ID = "order-2"
	_, ok = state.StatusAdvanced(ready, state.Reduce(ready, state.SetActiveOrder{Order: &other}))
	assert.False(t, ok)

	_, ok = state.StatusAdvanced(state.Initial(), ready)
	assert.False(t, ok)
}

func TestReduce_RoleAddressAndToggles(t *testing.T) {
	home := domain.Address{ID: "addr-1", Type: domain.AddressTypeHome, Label: "Home"}

	s := reduceAll(state.Initial(),
		state.SetRole{Role: domain.RoleDelivery},
		state.SetSelectedAddress{Address: home},
		state.ToggleRestaurantOpen{},
		state.ToggleDeliveryOnline{},
	)

	assert.Equal(t, domain.RoleDelivery, s.Role)
	require.NotNil(t, s.SelectedAddress)
	assert.Equal(t, home, *s.SelectedAddress)
	assert.False(t, s.RestaurantOpen)
	assert.True(t, s.DeliveryOnline)

	s = reduceAll(s, state.ToggleRestaurantOpen{}, state.ToggleDeliveryOnline{})
	assert.True(t, s.RestaurantOpen)
	assert.False(t, s.DeliveryOnline)
}

func TestReduce_UnknownActionIsIdentity(t *testing.T) {
	before := reduceAll(state.Initial(), state.AddToCart{Item: margherita, Quantity: 1})
	assert.Equal(t, before, state.Reduce(before, nil))
}
