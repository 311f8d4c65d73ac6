package storage

import (
	"context"
	"fmt"

	"foodflow/store-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// FixtureRepository serves the built-in demo catalog from memory. It is the
// default catalog source and needs no external services.
type FixtureRepository struct {
	restaurants []domain.Restaurant
	menuItems   []domain.MenuItem
	users       []domain.User
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{
		restaurants: fixtureRestaurants(),
		menuItems:   fixtureMenuItems(),
		users:       []domain.User{fixtureUser()},
	}
}

func (r *FixtureRepository) ListRestaurants(_ context.Context) ([]domain.Restaurant, error) {
	out := make([]domain.Restaurant, len(r.restaurants))
	copy(out, r.restaurants)
	return out, nil
}

func (r *FixtureRepository) GetRestaurant(_ context.Context, id string) (*domain.Restaurant, error) {
	for _, rest := range r.restaurants {
		if rest.ID == id {
			found := rest
			return &found, nil
		}
	}
	return nil, fmt.Errorf("restaurant %s: %w", id, domain.ErrNotFound)
}

func (r *FixtureRepository) ListMenuItems(_ context.Context, restaurantID string) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	for _, item := range r.menuItems {
		if item.RestaurantID == restaurantID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *FixtureRepository) GetMenuItem(_ context.Context, id string) (*domain.MenuItem, error) {
	for _, item := range r.menuItems {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
}

func (r *FixtureRepository) GetUser(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			found := user
			found.Addresses = append([]domain.Address(nil), user.Addresses...)
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

// DefaultDeliveryPartner is assigned to every order placed in the demo.
var DefaultDeliveryPartner = domain.DeliveryPartner{
	ID:    "dp-1",
	Name:  "Rahul Kumar",
	Phone: "+91 9876543220",
}

func inr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func fixtureRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{
			ID: "rest-1", Name: "Pizza Paradise",
			Image:   "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=800&h=400&fit=crop",
			Cuisine: []string{"Pizza", "Italian", "Fast Food"}, Rating: 4.5, ReviewCount: 1250,
			DeliveryTime: "25-30 min", DeliveryFee: inr(30), MinOrder: inr(199), Distance: "2.5 km",
			PriceRange: 2, IsOpen: true, Offers: []string{"50% off up to ₹100", "Free delivery"},
			Featured: true, Address: "123 Food Street, Downtown", Phone: "+91 9876543210",
		},
		{
			ID: "rest-2", Name: "Biryani Blues",
			Image:   "https://images.unsplash.com/photo-1563379091339-03b21ab4a4f8?w=800&h=400&fit=crop",
			Cuisine: []string{"Biryani", "Mughlai", "North Indian"}, Rating: 4.7, ReviewCount: 2340,
			DeliveryTime: "35-40 min", DeliveryFee: inr(25), MinOrder: inr(249), Distance: "3.2 km",
			PriceRange: 2, IsOpen: true, Offers: []string{"20% off on first order"},
			Featured: true, Address: "456 Spice Lane, Midtown", Phone: "+91 9876543211",
		},
		{
			ID: "rest-3", Name: "Dragon Wok",
			Image:   "https://images.unsplash.com/photo-1585032226651-759b368d7246?w=800&h=400&fit=crop",
			Cuisine: []string{"Chinese", "Thai", "Asian"}, Rating: 4.3, ReviewCount: 890,
			DeliveryTime: "30-35 min", DeliveryFee: inr(35), MinOrder: inr(199), Distance: "1.8 km",
			PriceRange: 2, IsOpen: true, Offers: []string{},
			Featured: false, Address: "789 Noodle Avenue, Eastside", Phone: "+91 9876543212",
		},
		{
			ID: "rest-4", Name: "Burger Barn",
			Image:   "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=800&h=400&fit=crop",
			Cuisine: []string{"Burgers", "American", "Fast Food"}, Rating: 4.4, ReviewCount: 1560,
			DeliveryTime: "20-25 min", DeliveryFee: inr(20), MinOrder: inr(149), Distance: "1.2 km",
			PriceRange: 1, IsOpen: true, Offers: []string{"Buy 1 Get 1 Free"},
			Featured: true, Address: "321 Grill Road, Westside", Phone: "+91 9876543213",
		},
		{
			ID: "rest-5", Name: "Dosa Corner",
			Image:   "https://images.unsplash.com/photo-1630383249896-424e482df921?w=800&h=400&fit=crop",
			Cuisine: []string{"South Indian", "Breakfast", "Healthy"}, Rating: 4.6, ReviewCount: 2100,
			DeliveryTime: "25-30 min", DeliveryFee: inr(15), MinOrder: inr(99), Distance: "2.0 km",
			PriceRange: 1, IsOpen: true, Offers: []string{"₹50 off on orders above ₹300"},
			Featured: false, Address: "555 Temple Street, Southside", Phone: "+91 9876543214",
		},
		{
			ID: "rest-6", Name: "Sweet Tooth Bakery",
			Image:   "https://images.unsplash.com/photo-1551024601-bec78aea704b?w=800&h=400&fit=crop",
			Cuisine: []string{"Desserts", "Bakery", "Cafe"}, Rating: 4.8, ReviewCount: 780,
			DeliveryTime: "30-35 min", DeliveryFee: inr(40), MinOrder: inr(199), Distance: "4.0 km",
			PriceRange: 3, IsOpen: true, Offers: []string{},
			Featured: true, Address: "888 Sweet Lane, Uptown", Phone: "+91 9876543215",
		},
		{
			ID: "rest-7", Name: "Tandoori Nights",
			Image:   "https://images.unsplash.com/photo-1585937421612-70a008356fbe?w=800&h=400&fit=crop",
			Cuisine: []string{"North Indian", "Mughlai", "Kebabs"}, Rating: 4.4, ReviewCount: 1890,
			DeliveryTime: "40-45 min", DeliveryFee: inr(30), MinOrder: inr(299), Distance: "3.5 km",
			PriceRange: 2, IsOpen: false, Offers: []string{"Flat 30% off"},
			Featured: false, Address: "999 Curry Circle, Northside", Phone: "+91 9876543216",
		},
		{
			ID: "rest-8", Name: "Green Bowl",
			Image:   "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=800&h=400&fit=crop",
			Cuisine: []string{"Healthy", "Salads", "Bowls"}, Rating: 4.5, ReviewCount: 560,
			DeliveryTime: "20-25 min", DeliveryFee: inr(25), MinOrder: inr(199), Distance: "1.5 km",
			PriceRange: 2, IsOpen: true, Offers: []string{"Free delivery on first order"},
			Featured: false, Address: "111 Health Avenue, Central", Phone: "+91 9876543217",
		},
	}
}

func fixtureMenuItems() []domain.MenuItem {
	extraCheese := domain.Addon{ID: "addon-1", Name: "Extra Cheese", Price: inr(50), Category: "Toppings"}

	return []domain.MenuItem{
		{
			ID: "item-1", RestaurantID: "rest-1", Name: "Margherita Pizza",
			Description: "Classic pizza with fresh mozzarella, tomato sauce, and basil",
			Price:       inr(299), Category: "Pizzas", IsVeg: true, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?w=400&h=300&fit=crop",
			Addons: []domain.Addon{
				extraCheese,
				{ID: "addon-2", Name: "Jalapenos", Price: inr(30), Category: "Toppings"},
				{ID: "addon-3", Name: "Olives", Price: inr(40), Category: "Toppings"},
			},
		},
		{
			ID: "item-2", RestaurantID: "rest-1", Name: "Pepperoni Pizza",
			Description: "Loaded with spicy pepperoni and melted cheese",
			Price:       inr(399), Category: "Pizzas", IsVeg: false, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=400&h=300&fit=crop",
			Addons: []domain.Addon{
				extraCheese,
				{ID: "addon-4", Name: "BBQ Sauce", Price: inr(25), Category: "Sauces"},
			},
		},
		{
			ID: "item-3", RestaurantID: "rest-1", Name: "Garlic Bread",
			Description: "Crispy bread with garlic butter and herbs",
			Price:       inr(129), Category: "Sides", IsVeg: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1619535860434-ba1d8fa12536?w=400&h=300&fit=crop",
		},
		{
			ID: "item-4", RestaurantID: "rest-1", Name: "Pasta Alfredo",
			Description: "Creamy white sauce pasta with mushrooms",
			Price:       inr(249), Category: "Pasta", IsVeg: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1645112411341-6c4fd023714a?w=400&h=300&fit=crop",
		},
		{
			ID: "item-5", RestaurantID: "rest-2", Name: "Hyderabadi Chicken Biryani",
			Description: "Aromatic basmati rice with tender chicken and authentic spices",
			Price:       inr(349), Category: "Biryani", IsVeg: false, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1563379091339-03b21ab4a4f8?w=400&h=300&fit=crop",
			Addons: []domain.Addon{
				{ID: "addon-5", Name: "Extra Raita", Price: inr(30), Category: "Sides"},
				{ID: "addon-6", Name: "Egg", Price: inr(20), Category: "Add-ons"},
			},
		},
		{
			ID: "item-6", RestaurantID: "rest-2", Name: "Veg Dum Biryani",
			Description: "Mixed vegetables cooked with fragrant rice",
			Price:       inr(249), Category: "Biryani", IsVeg: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1589302168068-964664d93dc0?w=400&h=300&fit=crop",
		},
		{
			ID: "item-7", RestaurantID: "rest-2", Name: "Chicken Kebab",
			Description: "Juicy grilled chicken kebabs with mint chutney",
			Price:       inr(199), Category: "Starters", IsVeg: false, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1599487488170-d11ec9c172f0?w=400&h=300&fit=crop",
		},
		{
			ID: "item-8", RestaurantID: "rest-4", Name: "Classic Beef Burger",
			Description: "Juicy beef patty with lettuce, tomato, and special sauce",
			Price:       inr(199), Category: "Burgers", IsVeg: false, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop",
			Addons: []domain.Addon{
				{ID: "addon-7", Name: "Extra Patty", Price: inr(80), Category: "Add-ons"},
				{ID: "addon-8", Name: "Cheese Slice", Price: inr(30), Category: "Add-ons"},
				{ID: "addon-9", Name: "Bacon", Price: inr(50), Category: "Add-ons"},
			},
		},
		{
			ID: "item-9", RestaurantID: "rest-4", Name: "Crispy Chicken Burger",
			Description: "Crispy fried chicken with coleslaw and mayo",
			Price:       inr(179), Category: "Burgers", IsVeg: false, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1606755962773-d324e0a13086?w=400&h=300&fit=crop",
		},
		{
			ID: "item-10", RestaurantID: "rest-4", Name: "Loaded Fries",
			Description: "Crispy fries topped with cheese and jalapenos",
			Price:       inr(129), Category: "Sides", IsVeg: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=400&h=300&fit=crop",
		},
		{
			ID: "item-11", RestaurantID: "rest-5", Name: "Masala Dosa",
			Description: "Crispy crepe with spiced potato filling",
			Price:       inr(99), Category: "Dosas", IsVeg: true, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1630383249896-424e482df921?w=400&h=300&fit=crop",
		},
		{
			ID: "item-12", RestaurantID: "rest-5", Name: "Idli Sambar",
			Description: "Steamed rice cakes with lentil soup",
			Price:       inr(79), Category: "Breakfast", IsVeg: true, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1589301760014-d929f3979dbc?w=400&h=300&fit=crop",
		},
		{
			ID: "item-13", RestaurantID: "rest-6", Name: "Chocolate Truffle Cake",
			Description: "Rich chocolate cake with ganache frosting",
			Price:       inr(499), Category: "Cakes", IsVeg: true, IsBestseller: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=300&fit=crop",
		},
		{
			ID: "item-14", RestaurantID: "rest-6", Name: "Red Velvet Cupcake",
			Description: "Moist red velvet with cream cheese frosting",
			Price:       inr(129), Category: "Cupcakes", IsVeg: true, IsAvailable: true,
			Image: "https://images.unsplash.com/photo-1614707267537-b85aaf00c4b7?w=400&h=300&fit=crop",
		},
	}
}

func fixtureUser() domain.User {
	return domain.User{
		ID:     "user-1",
		Name:   "John Doe",
		Email:  "john.doe@example.com",
		Phone:  "+91 9876543210",
		Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop",
		Addresses: []domain.Address{
			{
				ID: "addr-1", Type: domain.AddressTypeHome, Label: "Home",
				Full: "123 Main Street, Apartment 4B, Downtown, City 123456",
				Lat:  12.9716, Lng: 77.5946,
			},
			{
				ID: "addr-2", Type: domain.AddressTypeWork, Label: "Work",
				Full: "456 Office Park, Tower A, 5th Floor, Business District, City 123457",
				Lat:  12.9816, Lng: 77.6046,
			},
		},
		Favorites: []string{"rest-1", "rest-2", "rest-6"},
	}
}
