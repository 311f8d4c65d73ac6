package domain

import "fmt"

// OrderStatus is the lifecycle stage of a placed order.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusPickedUp       OrderStatus = "picked_up"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusPickedUp,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// TrackingFlow is the order the simulated fulfillment clock walks through.
// picked_up is not part of it; see Next.
var TrackingFlow = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

var statusMessages = map[OrderStatus]string{
	OrderStatusPlaced:         "Order placed successfully!",
	OrderStatusConfirmed:      "Restaurant confirmed your order",
	OrderStatusPreparing:      "Your food is being prepared",
	OrderStatusReady:          "Your order is ready for pickup",
	OrderStatusPickedUp:       "Order picked up by delivery partner",
	OrderStatusOutForDelivery: "Your order is on the way!",
	OrderStatusDelivered:      "Order delivered successfully!",
	OrderStatusCancelled:      "Order was cancelled",
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order has left the progression for good.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the status that follows s on the tracking flow. Terminal and
// unknown statuses have no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	if s == OrderStatusPickedUp {
		return OrderStatusOutForDelivery, true
	}
	for i, candidate := range TrackingFlow {
		if candidate == s && i+1 < len(TrackingFlow) {
			return TrackingFlow[i+1], true
		}
	}
	return "", false
}

// Message is the customer-facing line shown while tracking.
func (s OrderStatus) Message() string {
	return statusMessages[s]
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
