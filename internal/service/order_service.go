package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

// OrderService reads placed orders on behalf of their owner.
type OrderService struct {
	orders port.OrderRepository
}

func NewOrderService(orders port.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// ListMine returns the account's orders newest first.
func (s *OrderService) ListMine(ctx context.Context, owner domain.Owner) ([]domain.Order, error) {
	if !owner.IsAccount() {
		return nil, domain.Unauthenticatedf("Not authorized, no token")
	}

	orders, err := s.orders.ListOrders(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	return orders, nil
}

// Get returns the order only to the account that placed it.
func (s *OrderService) Get(ctx context.Context, owner domain.Owner, orderID uuid.UUID) (domain.Order, error) {
	if !owner.IsAccount() {
		return domain.Order{}, domain.Unauthenticatedf("Not authorized, no token")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if isNotFound(err) {
		return domain.Order{}, domain.NotFoundf("Order not found")
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if order.OwnerID != owner.ID {
		return domain.Order{}, domain.Forbiddenf("Not authorized to view this order")
	}

	return order, nil
}
