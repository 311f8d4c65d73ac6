package service

import (
	"context"
	"time"

	"foodflow/pkg/logger"
	"foodflow/store-svc/internal/state"
)

const drainTimeout = 5 * time.Second

// queueSink labels changes lost to a full queue in the failure metrics.
const queueSink = "queue"

// Broadcaster forwards store changes to external sinks from its own
// goroutine. Listen is registered on the store and never blocks; when the
// queue is full the change is dropped.
type Broadcaster struct {
	changes chan state.Change
	sinks   []EventSink
	metrics SinkMetrics
	log     *logger.Logger
	now     func() time.Time
}

func NewBroadcaster(buffer int, log *logger.Logger, metrics SinkMetrics, sinks ...EventSink) *Broadcaster {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Broadcaster{
		changes: make(chan state.Change, buffer),
		sinks:   sinks,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

func (b *Broadcaster) Listen(action state.Action, prev, next state.AppState) {
	change := state.Change{Action: action, Previous: prev, State: next, At: b.now()}
	select {
	case b.changes <- change:
	default:
		ctx := b.log.WithField(context.Background(), "action", action.Name())
		b.log.Warn(ctx, "broadcast queue full, dropping change")
		if b.metrics != nil {
			b.metrics.SinkFailed(queueSink)
		}
	}
}

// Run delivers queued changes until ctx is done, then flushes whatever is
// still queued with a short deadline.
func (b *Broadcaster) Run(ctx context.Context) {
	b.log.Info(ctx, "broadcaster started")
	for {
		select {
		case <-ctx.Done():
			b.drain(ctx)
			b.log.Info(ctx, "broadcaster stopped")
			return
		case change := <-b.changes:
			b.deliver(ctx, change)
		}
	}
}

func (b *Broadcaster) drain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	for {
		select {
		case change := <-b.changes:
			b.deliver(ctx, change)
		default:
			return
		}
	}
}

func (b *Broadcaster) deliver(ctx context.Context, change state.Change) {
	for _, sink := range b.sinks {
		if err := sink.Publish(ctx, change); err != nil {
			sinkCtx := b.log.WithFields(ctx, map[string]any{
				"sink":   sink.Name(),
				"action": change.Action.Name(),
			})
			b.log.Error(sinkCtx, "publishing change", err)
			if b.metrics != nil {
				b.metrics.SinkFailed(sink.Name())
			}
		}
	}
}
