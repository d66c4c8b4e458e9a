package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/db"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q *db.Queries
}

// NewCatalog reads the products table owned by the catalog service.
func NewCatalog(pool *pgxpool.Pool) port.ProductCatalog {
	return &catalogRepository{q: db.New(pool)}
}

func (r *catalogRepository) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	products := make(map[uuid.UUID]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := r.q.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.GetProductsByIDs: %w", err)
	}

	for _, row := range rows {
		product, err := mapProductRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}
		products[product.ID] = product
	}

	return products, nil
}

func mapProductRowToDomain(row db.GetProductsByIDsRow) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	sizes := make([]domain.Size, 0, len(row.Sizes))
	for _, s := range row.Sizes {
		size, err := domain.ParseSize(s)
		if err != nil {
			// the catalog may list sizes carts do not support
			continue
		}
		sizes = append(sizes, size)
	}

	return domain.Product{
		ID:       row.ID,
		Name:     row.Name,
		Price:    domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		ImageURL: row.ImageUrl,
		Sizes:    sizes,
	}, nil
}
