package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
)

// OrderRepository is append-only. It does not check who is asking for an order.
type OrderRepository interface {
	InsertOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	// ListOrders returns the owner's orders newest first.
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, ownerID, key string) (domain.Order, bool, error)
}
