package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodflow/store-svc/internal/domain"

	"github.com/lib/pq"
)

// PostgresRepository reads the catalog from the tables created by
// migrations/001_catalog.sql. It never writes.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const restaurantColumns = `id, name, COALESCE(image, ''), cuisine, rating, review_count,
	COALESCE(delivery_time, ''), delivery_fee, min_order, COALESCE(distance, ''), price_range,
	is_open, offers, featured, COALESCE(address, ''), COALESCE(phone, '')`

const menuItemColumns = `id, restaurant_id, name, COALESCE(description, ''), price, COALESCE(image, ''),
	COALESCE(category, ''), is_veg, is_bestseller, is_available`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(
		&rest.ID, &rest.Name, &rest.Image, pq.Array(&rest.Cuisine), &rest.Rating, &rest.ReviewCount,
		&rest.DeliveryTime, &rest.DeliveryFee, &rest.MinOrder, &rest.Distance, &rest.PriceRange,
		&rest.IsOpen, pq.Array(&rest.Offers), &rest.Featured, &rest.Address, &rest.Phone,
	)
	return rest, err
}

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Image,
		&item.Category, &item.IsVeg, &item.IsBestseller, &item.IsAvailable,
	)
	return item, err
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
	rest, err := scanRestaurant(row)
	if err != nil {
		return nil, notFound(err, "restaurant", id)
	}
	return &rest, nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY position, id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachAddons(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanMenuItem(row)
	if err != nil {
		return nil, notFound(err, "menu item", id)
	}

	items := []domain.MenuItem{item}
	if err := r.attachAddons(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachAddons loads the add-ons of every item in one query and fills them
// in place.
func (r *PostgresRepository) attachAddons(ctx context.Context, items []domain.MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
		index[item.ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT mia.menu_item_id, a.id, a.name, a.price, COALESCE(a.category, '')
		FROM menu_item_addons mia
		JOIN addons a ON a.id = mia.addon_id
		WHERE mia.menu_item_id = ANY($1)
		ORDER BY mia.menu_item_id, mia.position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("listing addons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var addon domain.Addon
		if err := rows.Scan(&itemID, &addon.ID, &addon.Name, &addon.Price, &addon.Category); err != nil {
			return fmt.Errorf("scanning addon: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Addons = append(items[i].Addons, addon)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), COALESCE(avatar, ''), favorites
		FROM users
		WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Avatar, pq.Array(&user.Favorites))
	if err != nil {
		return nil, notFound(err, "user", id)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, type, label, full_address, lat, lng
		FROM addresses
		WHERE user_id = $1
		ORDER BY position, id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	defer rows.Close()

	user.Addresses = []domain.Address{}
	for rows.Next() {
		var address domain.Address
		if err := rows.Scan(&address.ID, &address.Type, &address.Label, &address.Full, &address.Lat, &address.Lng); err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}
		user.Addresses = append(user.Addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &user, nil
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("loading %s %s: %w", kind, id, err)
}
