package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
)

// ProductCatalog resolves product references. Unknown ids are absent from the result.
type ProductCatalog interface {
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)
}
