package port

import (
	"context"

	"github.com/nikolayk812/cartkeeper/internal/domain"
)

type OrderConfirmation struct {
	AccountID string
	Email     string
	Name      string
	Order     domain.Order
}

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, confirmation OrderConfirmation) error
}
