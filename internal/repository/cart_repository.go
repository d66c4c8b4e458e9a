package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/db"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if err := validateOwner(owner); err != nil {
		return domain.Cart{}, err
	}

	dbCart, err := r.q.GetCart(ctx, db.GetCartParams{
		OwnerKind: string(owner.Kind),
		OwnerID:   owner.ID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{Owner: owner}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	dbItems, err := r.q.GetCartItems(ctx, db.GetCartItemsParams{
		OwnerKind: string(owner.Kind),
		OwnerID:   owner.ID,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
	}

	items, err := mapGetCartItemsRowsToDomain(dbItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartItemsRowsToDomain: %w", err)
	}

	kind, err := domain.ParseOwnerKind(dbCart.OwnerKind)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("domain.ParseOwnerKind: %w", err)
	}

	return domain.Cart{
		Owner:     domain.Owner{Kind: kind, ID: dbCart.OwnerID},
		Items:     items,
		Version:   dbCart.Version,
		UpdatedAt: dbCart.UpdatedAt,
	}, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if err := validateOwner(cart.Owner); err != nil {
		return domain.Cart{}, err
	}
	for i, item := range cart.Items {
		if err := domain.ValidateQuantity(item.Quantity); err != nil {
			return domain.Cart{}, fmt.Errorf("item[%d]: %w", i, err)
		}
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		ownerKind := string(cart.Owner.Kind)

		var (
			rows int64
			err  error
		)
		if cart.Version == 0 {
			rows, err = q.InsertCart(ctx, db.InsertCartParams{
				OwnerKind: ownerKind,
				OwnerID:   cart.Owner.ID,
				UpdatedAt: now,
			})
			if err != nil {
				return domain.Cart{}, fmt.Errorf("q.InsertCart: %w", err)
			}
		} else {
			rows, err = q.BumpCartVersion(ctx, db.BumpCartVersionParams{
				OwnerKind: ownerKind,
				OwnerID:   cart.Owner.ID,
				Version:   cart.Version,
				UpdatedAt: now,
			})
			if err != nil {
				return domain.Cart{}, fmt.Errorf("q.BumpCartVersion: %w", err)
			}
		}
		if rows == 0 {
			return domain.Cart{}, fmt.Errorf("cart[%s] version[%d]: %w", cart.Owner, cart.Version, domain.ErrVersionConflict)
		}

		err = q.DeleteCartItems(ctx, db.DeleteCartItemsParams{
			OwnerKind: ownerKind,
			OwnerID:   cart.Owner.ID,
		})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.DeleteCartItems: %w", err)
		}

		items := make([]domain.CartItem, 0, len(cart.Items))
		for i, item := range cart.Items {
			if item.AddedAt.IsZero() {
				item.AddedAt = now
			}

			err := q.InsertCartItem(ctx, db.InsertCartItemParams{
				OwnerKind: ownerKind,
				OwnerID:   cart.Owner.ID,
				ProductID: item.ProductID,
				Size:      string(item.Size),
				Quantity:  int32(item.Quantity),
				Position:  int32(i),
				AddedAt:   item.AddedAt,
			})
			if err != nil {
				return domain.Cart{}, fmt.Errorf("q.InsertCartItem: %w", err)
			}

			items = append(items, item)
		}

		return domain.Cart{
			Owner:     cart.Owner,
			Items:     items,
			Version:   cart.Version + 1,
			UpdatedAt: now,
		}, nil
	})
}

func (r *cartRepository) RecordMerge(ctx context.Context, accountID, idempotencyKey, sessionID string) (bool, error) {
	if accountID == "" {
		return false, fmt.Errorf("accountID is empty")
	}
	if idempotencyKey == "" {
		return false, fmt.Errorf("idempotencyKey is empty")
	}

	rows, err := r.q.InsertCartMerge(ctx, db.InsertCartMergeParams{
		AccountID:      accountID,
		IdempotencyKey: idempotencyKey,
		SessionID:      sessionID,
	})
	if err != nil {
		return false, fmt.Errorf("q.InsertCartMerge: %w", err)
	}

	return rows > 0, nil
}

func validateOwner(owner domain.Owner) error {
	if owner.IsNone() {
		return fmt.Errorf("owner is empty")
	}
	if _, err := domain.ParseOwnerKind(string(owner.Kind)); err != nil {
		return fmt.Errorf("domain.ParseOwnerKind: %w", err)
	}
	return nil
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	size, err := domain.ParseSize(row.Size)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("domain.ParseSize: %w", err)
	}

	return domain.CartItem{
		ProductID: row.ProductID,
		Size:      size,
		Quantity:  int(row.Quantity),
		AddedAt:   row.AddedAt,
	}, nil
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
