package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/state"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCleared       = "order_cleared"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OrderEvent struct {
	Type    string             `json:"type"`
	OrderID string             `json:"order_id"`
	Status  domain.OrderStatus `json:"status,omitempty"`
	Order   *domain.Order      `json:"order,omitempty"`
	At      time.Time          `json:"at"`
}

// KafkaPublisher turns order-related changes into events keyed by order id.
// Cart, role and toggle changes are not published, and neither are actions
// the store ignored.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Name() string {
	return "kafka"
}

func (p *KafkaPublisher) Publish(ctx context.Context, change state.Change) error {
	event, ok := p.eventFor(change)
	if !ok {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}

func (p *KafkaPublisher) eventFor(change state.Change) (OrderEvent, bool) {
	active := change.State.ActiveOrder
	previous := change.Previous.ActiveOrder

	switch action := change.Action.(type) {
	case state.PlaceOrder:
		if active == nil || active.ID != action.Order.ID || (previous != nil && previous.ID == active.ID) {
			return OrderEvent{}, false
		}
		return placedEvent(active, change.At)

	case state.SetActiveOrder:
		if action.Order != nil {
			return placedEvent(active, change.At)
		}
		if previous == nil {
			return OrderEvent{}, false
		}
		return OrderEvent{Type: EventOrderCleared, OrderID: previous.ID, At: change.At}, true

	case state.AdvanceOrderStatus:
		status, ok := state.StatusAdvanced(change.Previous, change.State)
		if !ok {
			return OrderEvent{}, false
		}
		return OrderEvent{
			Type:    EventOrderStatusChanged,
			OrderID: active.ID,
			Status:  status,
			At:      change.At,
		}, true
	}
	return OrderEvent{}, false
}

func placedEvent(order *domain.Order, at time.Time) (OrderEvent, bool) {
	if order == nil {
		return OrderEvent{}, false
	}
	return OrderEvent{
		Type:    EventOrderPlaced,
		OrderID: order.ID,
		Status:  order.Status,
		Order:   order,
		At:      at,
	}, true
}
