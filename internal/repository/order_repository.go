package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/db"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil,
	}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) error {
	if order.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("order has no items")
	}
	for i, item := range order.Items {
		if err := domain.ValidateQuantity(item.Quantity); err != nil {
			return fmt.Errorf("item[%d]: %w", i, err)
		}
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		var idempotencyKey *string
		if order.IdempotencyKey != "" {
			idempotencyKey = &order.IdempotencyKey
		}

		err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:               order.ID,
			OwnerID:          order.OwnerID,
			TotalAmount:      order.Total.Amount,
			TotalCurrency:    order.Total.Currency.String(),
			ShippingFullName: order.ShippingAddress.FullName,
			ShippingAddress:  order.ShippingAddress.Address,
			ShippingCity:     order.ShippingAddress.City,
			ShippingPostal:   order.ShippingAddress.PostalCode,
			ShippingCountry:  order.ShippingAddress.Country,
			ShippingPhone:    order.ShippingAddress.Phone,
			IdempotencyKey:   idempotencyKey,
			CreatedAt:        order.CreatedAt,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.InsertOrder: %w", err)
		}

		for i, item := range order.Items {
			err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				OrderID:           order.ID,
				Position:          int32(i),
				ProductID:         item.ProductID,
				Name:              item.Name,
				UnitPriceAmount:   item.UnitPrice.Amount,
				UnitPriceCurrency: item.UnitPrice.Currency.String(),
				Size:              string(item.Size),
				Quantity:          int32(item.Quantity),
				ImageUrl:          item.ImageURL,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertOrderItem: %w", err)
			}
		}

		return struct{}{}, nil
	})

	return err
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	dbOrder, err := r.q.GetOrder(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	orders, err := r.withItems(ctx, []db.Order{dbOrder})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.withItems: %w", err)
	}

	return orders[0], nil
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	dbOrders, err := r.q.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByOwner: %w", err)
	}

	orders, err := r.withItems(ctx, dbOrders)
	if err != nil {
		return nil, fmt.Errorf("r.withItems: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (domain.Order, bool, error) {
	if ownerID == "" || key == "" {
		return domain.Order{}, false, nil
	}

	dbOrder, err := r.q.GetOrderByIdempotencyKey(ctx, db.GetOrderByIdempotencyKeyParams{
		OwnerID:        ownerID,
		IdempotencyKey: &key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("q.GetOrderByIdempotencyKey: %w", err)
	}

	orders, err := r.withItems(ctx, []db.Order{dbOrder})
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("r.withItems: %w", err)
	}

	return orders[0], true, nil
}

func (r *orderRepository) withItems(ctx context.Context, dbOrders []db.Order) ([]domain.Order, error) {
	if len(dbOrders) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dbOrders))
	for _, o := range dbOrders {
		ids = append(ids, o.ID)
	}

	dbItems, err := r.q.GetOrderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderItems: %w", err)
	}

	itemsByOrder := make(map[uuid.UUID][]domain.OrderItem, len(dbOrders))
	for _, row := range dbItems {
		item, err := mapOrderItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemToDomain: %w", err)
		}
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(dbOrders))
	for _, o := range dbOrders {
		order, err := mapOrderToDomain(o, itemsByOrder[o.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderToDomain(o db.Order, items []domain.OrderItem) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(o.TotalCurrency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", o.TotalCurrency, err)
	}

	var idempotencyKey string
	if o.IdempotencyKey != nil {
		idempotencyKey = *o.IdempotencyKey
	}

	return domain.Order{
		ID:      o.ID,
		OwnerID: o.OwnerID,
		Items:   items,
		Total:   domain.Money{Amount: o.TotalAmount, Currency: parsedCurrency},
		ShippingAddress: domain.ShippingAddress{
			FullName:   o.ShippingFullName,
			Address:    o.ShippingAddress,
			City:       o.ShippingCity,
			PostalCode: o.ShippingPostal,
			Country:    o.ShippingCountry,
			Phone:      o.ShippingPhone,
		},
		IdempotencyKey: idempotencyKey,
		CreatedAt:      o.CreatedAt,
	}, nil
}

func mapOrderItemToDomain(row db.OrderItem) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.UnitPriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.UnitPriceCurrency, err)
	}

	size, err := domain.ParseSize(row.Size)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("domain.ParseSize: %w", err)
	}

	return domain.OrderItem{
		ProductID: row.ProductID,
		Name:      row.Name,
		UnitPrice: domain.Money{Amount: row.UnitPriceAmount, Currency: parsedCurrency},
		Size:      size,
		Quantity:  int(row.Quantity),
		ImageURL:  row.ImageUrl,
	}, nil
}
