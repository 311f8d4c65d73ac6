package service

import (
	"context"

	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/state"
	"foodflow/store-svc/internal/storage"
)

type CatalogRepository interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// EventSink receives every store change from the broadcaster.
type EventSink interface {
	Name() string
	Publish(ctx context.Context, change state.Change) error
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// SinkMetrics counts sink failures. A nil SinkMetrics is allowed.
type SinkMetrics interface {
	SinkFailed(sink string)
}

type CatalogServiceInterface interface {
	Restaurants(ctx context.Context) ([]domain.Restaurant, error)
	Restaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	Menu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	User(ctx context.Context) (*domain.User, error)
	ResolveAddToCart(ctx context.Context, itemID string, quantity int, addonIDs []string) (state.AddToCart, error)
}

type CheckoutServiceInterface interface {
	Quote(ctx context.Context, s state.AppState) (Quote, error)
	SelectAddress(ctx context.Context, addressID string) (domain.Address, error)
	PlaceOrder(ctx context.Context, addressID, paymentMethod string) (*domain.Order, error)
}

var (
	_ CatalogRepository = (*storage.FixtureRepository)(nil)
	_ CatalogRepository = (*storage.PostgresRepository)(nil)
	_ EventSink         = (*storage.RedisNotifier)(nil)
	_ EventSink         = (*storage.KafkaPublisher)(nil)

	_ CatalogServiceInterface  = (*CatalogService)(nil)
	_ CheckoutServiceInterface = (*CheckoutService)(nil)
)
