package service

import (
	"context"
	"sync"
	"time"

	"foodflow/pkg/logger"
	"foodflow/store-svc/internal/state"
)

// Tracker simulates the kitchen and the rider by advancing the active order
// one step along the tracking flow on every tick.
type Tracker struct {
	store    state.ReadDispatcher
	interval time.Duration
	log      *logger.Logger
}

func NewTracker(store state.ReadDispatcher, interval time.Duration, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{store: store, interval: interval, log: log}
}

// Start advances orderID until it is delivered, replaced or cleared. The
// returned stop func cancels the task and blocks until it has exited, so no
// dispatch from this task happens after stop returns.
func (t *Tracker) Start(ctx context.Context, orderID string) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		t.run(ctx, orderID)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (t *Tracker) run(ctx context.Context, orderID string) {
	ctx = t.log.WithField(ctx, "order_id", orderID)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !t.step(ctx, orderID) {
			t.log.Debug(ctx, "order tracking finished")
			return
		}
	}
}

// step moves the order one status forward and reports whether there is more
// to do. The advance names the order and the status it was read at, so an
// order placed or moved in between is left alone.
func (t *Tracker) step(ctx context.Context, orderID string) bool {
	order := t.store.Read().ActiveOrder
	if order == nil || order.ID != orderID {
		return false
	}
	next, ok := order.Status.Next()
	if !ok {
		return false
	}

	after := t.store.Dispatch(state.AdvanceOrderStatus{
		Status:  next,
		OrderID: orderID,
		From:    order.Status,
	})
	current := after.ActiveOrder
	if current == nil || current.ID != orderID {
		t.log.Debug(ctx, "active order replaced before it could advance")
		return false
	}
	if current.Status != next {
		return !current.Status.IsTerminal()
	}

	t.log.Info(t.log.WithField(ctx, "status", next.String()), "order status advanced")
	return !next.IsTerminal()
}

// Fulfillment keeps at most one tracker running, for the most recent order.
type Fulfillment struct {
	ctx     context.Context
	tracker *Tracker

	mu   sync.Mutex
	stop func()
}

// NewFulfillment runs trackers under ctx, normally the process lifetime.
func NewFulfillment(ctx context.Context, tracker *Tracker) *Fulfillment {
	return &Fulfillment{ctx: ctx, tracker: tracker}
}

// Track stops the previous tracker, if any, and starts one for orderID.
// It must not be called from a store listener.
func (f *Fulfillment) Track(orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stop != nil {
		f.stop()
	}
	f.stop = f.tracker.Start(f.ctx, orderID)
}

// Stop ends the running tracker and waits for it.
func (f *Fulfillment) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
}

func (f *Fulfillment) Close() error {
	f.Stop()
	return nil
}
