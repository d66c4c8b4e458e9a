package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/identity"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

const defaultNotifyTimeout = 10 * time.Second

type CheckoutResult struct {
	Order domain.Order
	// Replayed is set when the idempotency key matched an order placed earlier.
	Replayed bool
}

// CheckoutService turns an account cart into an order.
// catalog must serve current prices, not a cached copy.
type CheckoutService struct {
	tx       port.Transactor
	catalog  port.ProductCatalog
	notifier port.Notifier

	notifyTimeout time.Duration
	wg            sync.WaitGroup
}

func NewCheckoutService(tx port.Transactor, catalog port.ProductCatalog, notifier port.Notifier) *CheckoutService {
	return &CheckoutService{
		tx:            tx,
		catalog:       catalog,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Checkout snapshots the cart at current prices, stores the order and clears the cart
// atomically. The confirmation is sent afterwards and its failure does not fail the checkout.
func (s *CheckoutService) Checkout(ctx context.Context, id identity.Identity, address domain.ShippingAddress, idempotencyKey string) (CheckoutResult, error) {
	if !id.Owner.IsAccount() {
		return CheckoutResult{}, domain.Unauthenticatedf("Not authorized, no token")
	}
	if err := address.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	var result CheckoutResult

	err := retryOnConflict(ctx, func() error {
		result = CheckoutResult{}

		return s.tx.WithinTx(ctx, func(repos port.Repositories) error {
			if idempotencyKey != "" {
				existing, found, err := repos.Orders().FindByIdempotencyKey(ctx, id.Owner.ID, idempotencyKey)
				if err != nil {
					return fmt.Errorf("orders.FindByIdempotencyKey: %w", err)
				}
				if found {
					result = CheckoutResult{Order: existing, Replayed: true}
					return nil
				}
			}

			cart, err := repos.Carts().GetCart(ctx, id.Owner)
			if err != nil {
				return fmt.Errorf("carts.GetCart: %w", err)
			}
			if cart.IsEmpty() {
				return domain.Validationf("Cart is empty")
			}

			items, err := s.snapshot(ctx, cart)
			if err != nil {
				return err
			}

			order, err := domain.NewOrder(id.Owner.ID, items, address, idempotencyKey, time.Now().UTC().Truncate(time.Microsecond))
			if err != nil {
				return err
			}

			if err := repos.Orders().InsertOrder(ctx, order); err != nil {
				return fmt.Errorf("orders.InsertOrder: %w", err)
			}

			cart.Clear()
			if _, err := repos.Carts().SaveCart(ctx, cart); err != nil {
				return fmt.Errorf("carts.SaveCart: %w", err)
			}

			result = CheckoutResult{Order: order}
			return nil
		})
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	if !result.Replayed {
		slog.InfoContext(ctx, "order placed",
			"order_id", result.Order.ID.String(),
			"account_id", id.Owner.ID,
			"total", result.Order.Total.String(),
		)
		s.notify(ctx, port.OrderConfirmation{
			AccountID: id.Owner.ID,
			Email:     id.Email,
			Name:      id.Name,
			Order:     result.Order,
		})
	}

	return result, nil
}

// snapshot copies name, current price and image of every cart item's product.
func (s *CheckoutService) snapshot(ctx context.Context, cart domain.Cart) ([]domain.OrderItem, error) {
	products, err := s.catalog.GetProducts(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("catalog.GetProducts: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, domain.Validationf("Product %s is no longer available", item.ProductID)
		}

		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Size:      item.Size,
			Quantity:  item.Quantity,
			ImageURL:  p.ImageURL,
		})
	}

	return items, nil
}

func (s *CheckoutService) notify(ctx context.Context, confirmation port.OrderConfirmation) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyOrderPlaced(ctx, confirmation); err != nil {
			slog.ErrorContext(ctx, "order confirmation failed",
				"order_id", confirmation.Order.ID.String(),
				"error", err,
			)
		}
	}()
}

// Wait blocks until every pending confirmation has been attempted.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}
