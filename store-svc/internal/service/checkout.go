package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodflow/pkg/logger"
	"foodflow/store-svc/internal/domain"
	"foodflow/store-svc/internal/state"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentUPI  = "upi"
	PaymentCard = "card"
	PaymentCOD  = "cod"
)

var paymentLabels = map[string]string{
	PaymentUPI:  "UPI",
	PaymentCard: "Credit/Debit Card",
	PaymentCOD:  "Cash on Delivery",
}

// PaymentLabel maps a payment method code to the label stored on the order.
// An empty code means UPI.
func PaymentLabel(method string) (string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = PaymentUPI
	}
	label, ok := paymentLabels[method]
	if !ok {
		return "", fmt.Errorf("%q: %w", method, ErrInvalidPaymentMethod)
	}
	return label, nil
}

type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Taxes       decimal.Decimal `json:"taxes"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

type CheckoutOptions struct {
	PlacementDelay     time.Duration
	DeliveryETA        time.Duration
	TaxRate            decimal.Decimal
	DefaultDeliveryFee decimal.Decimal
	Partner            domain.DeliveryPartner
	Now                func() time.Time
	NewID              func() string
}

type CheckoutService struct {
	store   state.ReadDispatcher
	catalog *CatalogService
	opts    CheckoutOptions
	log     *logger.Logger
}

func NewCheckoutService(store state.ReadDispatcher, catalog *CatalogService, opts CheckoutOptions, log *logger.Logger) *CheckoutService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutService{store: store, catalog: catalog, opts: opts, log: log}
}

// Quote prices the cart in s. The delivery fee comes from the restaurant the
// cart is bound to and falls back to the default when it is unknown.
func (s *CheckoutService) Quote(ctx context.Context, st state.AppState) (Quote, error) {
	subtotal := state.CartTotal(st)

	fee := s.opts.DefaultDeliveryFee
	if st.Cart.RestaurantID != "" {
		rest, err := s.catalog.Restaurant(ctx, st.Cart.RestaurantID)
		switch {
		case err == nil:
			fee = rest.DeliveryFee
		case !isNotFound(err):
			return Quote{}, err
		}
	}

	taxes := subtotal.Mul(s.opts.TaxRate).Round(0)
	discount := decimal.Zero

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Taxes:       taxes,
		Discount:    discount,
		Total:       subtotal.Add(fee).Add(taxes).Sub(discount),
	}, nil
}

func (s *CheckoutService) SelectAddress(ctx context.Context, addressID string) (domain.Address, error) {
	user, err := s.catalog.User(ctx)
	if err != nil {
		return domain.Address{}, err
	}
	address, ok := user.Address(addressID)
	if !ok {
		return domain.Address{}, fmt.Errorf("address %s: %w", addressID, domain.ErrNotFound)
	}
	s.store.Dispatch(state.SetSelectedAddress{Address: address})
	return address, nil
}

// placementAttempts bounds how often PlaceOrder rebuilds the order when the
// cart changes between reading it and placing it.
const placementAttempts = 3

// PlaceOrder turns the current cart into the active order. It waits the
// placement delay first; cancelling ctx during the wait leaves the store as it
// was. The order is built from the cart as it stands after the wait and is
// placed only if the cart has not changed since it was read.
func (s *CheckoutService) PlaceOrder(ctx context.Context, addressID, paymentMethod string) (*domain.Order, error) {
	label, err := PaymentLabel(paymentMethod)
	if err != nil {
		return nil, err
	}
	if s.store.Read().Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	address, err := s.resolveAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithField(ctx, "payment_method", label)
	s.log.Debug(ctx, "placing order")

	if err := s.wait(ctx); err != nil {
		s.log.Warn(ctx, "order placement cancelled")
		return nil, err
	}

	for attempt := 1; attempt <= placementAttempts; attempt++ {
		current := s.store.Read()
		if current.Cart.IsEmpty() {
			return nil, ErrEmptyCart
		}
		order, err := s.buildOrder(ctx, current, address, label)
		if err != nil {
			return nil, err
		}

		next := s.store.Dispatch(state.PlaceOrder{Order: order, CartRevision: current.Cart.Revision})
		if next.ActiveOrder != nil && next.ActiveOrder.ID == order.ID {
			ctx = s.log.WithFields(ctx, map[string]any{"order_id": order.ID, "total": order.Total.String()})
			s.log.Info(ctx, "order placed")
			return next.ActiveOrder, nil
		}
		s.log.Debug(s.log.WithField(ctx, "attempt", attempt), "cart changed during placement")
	}
	return nil, ErrCartChanged
}

func (s *CheckoutService) buildOrder(ctx context.Context, current state.AppState, address domain.Address, label string) (domain.Order, error) {
	rest, err := s.catalog.Restaurant(ctx, current.Cart.RestaurantID)
	if err != nil {
		return domain.Order{}, err
	}
	quote, err := s.Quote(ctx, current)
	if err != nil {
		return domain.Order{}, err
	}

	placedAt := s.opts.Now()
	return domain.Order{
		ID:                   s.opts.NewID(),
		RestaurantID:         rest.ID,
		RestaurantName:       rest.Name,
		Items:                current.Cart.Lines,
		Status:               domain.OrderStatusPlaced,
		Subtotal:             quote.Subtotal,
		DeliveryFee:          quote.DeliveryFee,
		Taxes:                quote.Taxes,
		Discount:             quote.Discount,
		Total:                quote.Total,
		Address:              address,
		PaymentMethod:        label,
		PlacedAt:             placedAt,
		EstimatedDelivery:    placedAt.Add(s.opts.DeliveryETA),
		DeliveryPartnerID:    s.opts.Partner.ID,
		DeliveryPartnerName:  s.opts.Partner.Name,
		DeliveryPartnerPhone: s.opts.Partner.Phone,
	}, nil
}

// resolveAddress prefers the explicit id, then the selected address, then the
// user's first saved address.
func (s *CheckoutService) resolveAddress(ctx context.Context, addressID string) (domain.Address, error) {
	if addressID == "" {
		if selected := s.store.Read().SelectedAddress; selected != nil {
			return *selected, nil
		}
	}

	user, err := s.catalog.User(ctx)
	if err != nil {
		return domain.Address{}, err
	}
	if addressID != "" {
		address, ok := user.Address(addressID)
		if !ok {
			return domain.Address{}, fmt.Errorf("address %s: %w", addressID, domain.ErrNotFound)
		}
		return address, nil
	}
	if len(user.Addresses) == 0 {
		return domain.Address{}, fmt.Errorf("no saved address: %w", domain.ErrNotFound)
	}
	return user.Addresses[0], nil
}

func (s *CheckoutService) wait(ctx context.Context) error {
	if s.opts.PlacementDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.PlacementDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
