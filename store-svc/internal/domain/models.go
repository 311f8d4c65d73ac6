package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Restaurant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Cuisine      []string        `json:"cuisine"`
	Rating       float64         `json:"rating"`
	ReviewCount  int             `json:"review_count"`
	DeliveryTime string          `json:"delivery_time"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	MinOrder     decimal.Decimal `json:"min_order"`
	Distance     string          `json:"distance"`
	PriceRange   int             `json:"price_range"`
	IsOpen       bool            `json:"is_open"`
	Offers       []string        `json:"offers"`
	Featured     bool            `json:"featured"`
	Address      string          `json:"address"`
	Phone        string          `json:"phone"`
}

type Addon struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	IsVeg        bool            `json:"is_veg"`
	IsBestseller bool            `json:"is_bestseller"`
	IsAvailable  bool            `json:"is_available"`
	Addons       []Addon         `json:"addons,omitempty"`
}

// Addon looks up one of the item's selectable add-ons.
func (m MenuItem) Addon(id string) (Addon, bool) {
	for _, addon := range m.Addons {
		if addon.ID == id {
			return addon, true
		}
	}
	return Addon{}, false
}

type CartLine struct {
	MenuItem            MenuItem `json:"menu_item"`
	Quantity            int      `json:"quantity"`
	SelectedAddons      []Addon  `json:"selected_addons"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// UnitPrice is the item price plus every selected add-on.
func (l CartLine) UnitPrice() decimal.Decimal {
	price := l.MenuItem.Price
	for _, addon := range l.SelectedAddons {
		price = price.Add(addon.Price)
	}
	return price
}

func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

type Address struct {
	ID    string      `json:"id"`
	Type  AddressType `json:"type"`
	Label string      `json:"label"`
	Full  string      `json:"full"`
	Lat   float64     `json:"lat"`
	Lng   float64     `json:"lng"`
}

type Order struct {
	ID                   string          `json:"id"`
	RestaurantID         string          `json:"restaurant_id"`
	RestaurantName       string          `json:"restaurant_name"`
	Items                []CartLine      `json:"items"`
	Status               OrderStatus     `json:"status"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"delivery_fee"`
	Taxes                decimal.Decimal `json:"taxes"`
	Discount             decimal.Decimal `json:"discount"`
	Total                decimal.Decimal `json:"total"`
	Address              Address         `json:"address"`
	PaymentMethod        string          `json:"payment_method"`
	PlacedAt             time.Time       `json:"placed_at"`
	EstimatedDelivery    time.Time       `json:"estimated_delivery"`
	DeliveryPartnerID    string          `json:"delivery_partner_id,omitempty"`
	DeliveryPartnerName  string          `json:"delivery_partner_name,omitempty"`
	DeliveryPartnerPhone string          `json:"delivery_partner_phone,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Avatar    string    `json:"avatar,omitempty"`
	Addresses []Address `json:"addresses"`
	Favorites []string  `json:"favorites"`
}

// Address returns the user's saved address with the given id.
func (u User) Address(id string) (Address, bool) {
	for _, address := range u.Addresses {
		if address.ID == id {
			return address, true
		}
	}
	return Address{}, false
}

type DeliveryPartner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
