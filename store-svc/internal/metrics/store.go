package metrics

import (
	"foodflow/store-svc/internal/state"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics follows dispatched actions and the cart they leave behind.
type StoreMetrics struct {
	actions      *prometheus.CounterVec
	cartItems    prometheus.Gauge
	cartTotal    prometheus.Gauge
	transitions  *prometheus.CounterVec
	sinkFailures *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on reg. A nil reg yields a
// recorder that does nothing.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodflow_store_actions_total",
		Help: "Actions dispatched to the store.",
	}, []string{"action"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "foodflow_cart_items",
		Help: "Units currently in the cart.",
	})
	cartTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "foodflow_cart_total",
		Help: "Current cart total.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodflow_order_status_transitions_total",
		Help: "Order status changes, by the status reached.",
	}, []string{"status"})
	sinkFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodflow_sink_failures_total",
		Help: "Changes a sink failed to publish.",
	}, []string{"sink"})
	reg.MustRegister(actions, cartItems, cartTotal, transitions, sinkFailures)
	return &StoreMetrics{
		actions:      actions,
		cartItems:    cartItems,
		cartTotal:    cartTotal,
		transitions:  transitions,
		sinkFailures: sinkFailures,
	}
}

// Observe is a store listener. Status transitions are counted only when the
// reduction actually moved the order.
func (m *StoreMetrics) Observe(action state.Action, prev, next state.AppState) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(action.Name()).Inc()
	m.cartItems.Set(float64(state.CartItemCount(next)))
	m.cartTotal.Set(state.CartTotal(next).InexactFloat64())

	switch action.(type) {
	case state.AdvanceOrderStatus:
		if status, ok := state.StatusAdvanced(prev, next); ok {
			m.transitions.WithLabelValues(status.String()).Inc()
		}
	case state.PlaceOrder, state.SetActiveOrder:
		if next.ActiveOrder != nil && !sameOrder(prev, next) {
			m.transitions.WithLabelValues(next.ActiveOrder.Status.String()).Inc()
		}
	}
}

func (m *StoreMetrics) SinkFailed(sink string) {
	if m == nil || m.sinkFailures == nil {
		return
	}
	m.sinkFailures.WithLabelValues(normalizeLabel(sink)).Inc()
}

func sameOrder(prev, next state.AppState) bool {
	return prev.ActiveOrder != nil && next.ActiveOrder != nil &&
		prev.ActiveOrder.ID == next.ActiveOrder.ID
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
