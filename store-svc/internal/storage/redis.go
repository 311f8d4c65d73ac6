package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodflow/store-svc/internal/state"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes a snapshot of the state after every dispatch so
// other views can follow the session live.
type RedisNotifier struct {
	Client  *redis.Client
	Channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{Client: client, Channel: channel}
}

// Snapshot is the payload published on the channel.
type Snapshot struct {
	Action string         `json:"action"`
	State  state.AppState `json:"state"`
	At     time.Time      `json:"at"`
}

func (n *RedisNotifier) Name() string {
	return "redis"
}

func (n *RedisNotifier) Publish(ctx context.Context, change state.Change) error {
	payload, err := json.Marshal(Snapshot{
		Action: change.Action.Name(),
		State:  change.State,
		At:     change.At,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return n.Client.Publish(ctx, n.Channel, payload).Err()
}
