package service

import (
	"context"
	"fmt"

	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/state"
)

type CatalogService struct {
	repo   CatalogRepository
	userID string
}

// NewCatalogService serves the catalog for the single session user.
func NewCatalogService(repo CatalogRepository, userID string) *CatalogService {
	return &CatalogService{repo: repo, userID: userID}
}

func (s *CatalogService) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}

func (s *CatalogService) Restaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	return s.repo.GetRestaurant(ctx, id)
}

func (s *CatalogService) Menu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	if _, err := s.repo.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.repo.ListMenuItems(ctx, restaurantID)
}

func (s *CatalogService) User(ctx context.Context) (*domain.User, error) {
	return s.repo.GetUser(ctx, s.userID)
}

// ResolveAddToCart turns ids from a request into the AddToCart action with
// prices taken from the catalog.
func (s *CatalogService) ResolveAddToCart(ctx context.Context, itemID string, quantity int, addonIDs []string) (state.AddToCart, error) {
	item, err := s.repo.GetMenuItem(ctx, itemID)
	if err != nil {
		return state.AddToCart{}, err
	}
	if !item.IsAvailable {
		return state.AddToCart{}, fmt.Errorf("%s: %w", item.Name, ErrItemUnavailable)
	}

	addons := make([]domain.Addon, 0, len(addonIDs))
	for _, id := range addonIDs {
		addon, ok := item.Addon(id)
		if !ok {
			return state.AddToCart{}, fmt.Errorf("%s on %s: %w", id, item.Name, ErrInvalidAddon)
		}
		addons = append(addons, addon)
	}

	return state.AddToCart{Item: *item, Quantity: quantity, Addons: addons}, nil
}
