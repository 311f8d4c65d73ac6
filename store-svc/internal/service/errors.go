package service

import (
	"errors"

	"foodflow/store-svc/internal/domain"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrItemUnavailable      = errors.New("menu item is unavailable")
	ErrInvalidAddon         = errors.New("add-on does not belong to the menu item")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrCartChanged          = errors.New("cart kept changing while the order was placed")
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
