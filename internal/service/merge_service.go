package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

type MergeResult struct {
	Cart CartView
	// Merged is false when the guest cart was empty or the key was already used.
	Merged   bool
	Replayed bool
}

// MergeService folds a guest cart into an account cart after login.
type MergeService struct {
	tx      port.Transactor
	catalog port.ProductCatalog
}

func NewMergeService(tx port.Transactor, catalog port.ProductCatalog) *MergeService {
	return &MergeService{
		tx:      tx,
		catalog: catalog,
	}
}

// Merge adds every session cart item to the account cart and empties the session cart,
// all in one transaction. A repeated idempotencyKey for the same account is a no-op.
func (s *MergeService) Merge(ctx context.Context, account domain.Owner, sessionID, idempotencyKey string) (MergeResult, error) {
	if !account.IsAccount() {
		return MergeResult{}, domain.Validationf("Authenticated account is required to merge carts")
	}
	if sessionID == "" {
		return MergeResult{}, domain.Validationf("Session id is required")
	}

	session := domain.SessionOwner(sessionID)

	var (
		result domain.Cart
		merged bool
		replay bool
	)

	err := retryOnConflict(ctx, func() error {
		merged, replay = false, false

		return s.tx.WithinTx(ctx, func(repos port.Repositories) error {
			carts := repos.Carts()

			if idempotencyKey != "" {
				recorded, err := carts.RecordMerge(ctx, account.ID, idempotencyKey, sessionID)
				if err != nil {
					return fmt.Errorf("carts.RecordMerge: %w", err)
				}
				if !recorded {
					replay = true
					result, err = carts.GetCart(ctx, account)
					if err != nil {
						return fmt.Errorf("carts.GetCart: %w", err)
					}
					return nil
				}
			}

			guest, err := carts.GetCart(ctx, session)
			if err != nil {
				return fmt.Errorf("carts.GetCart: %w", err)
			}

			result, err = carts.GetCart(ctx, account)
			if err != nil {
				return fmt.Errorf("carts.GetCart: %w", err)
			}

			if guest.IsEmpty() {
				return nil
			}

			if err := result.MergeFrom(guest, time.Now().UTC()); err != nil {
				return err
			}
			result, err = carts.SaveCart(ctx, result)
			if err != nil {
				return fmt.Errorf("carts.SaveCart[account]: %w", err)
			}

			guest.Clear()
			if _, err := carts.SaveCart(ctx, guest); err != nil {
				return fmt.Errorf("carts.SaveCart[session]: %w", err)
			}

			merged = true
			return nil
		})
	})
	if err != nil {
		return MergeResult{}, err
	}

	if merged {
		slog.InfoContext(ctx, "guest cart merged",
			"account_id", account.ID,
			"items", len(result.Items),
		)
	}

	view, err := resolveCart(ctx, s.catalog, result)
	if err != nil {
		return MergeResult{}, err
	}

	return MergeResult{
		Cart:     view,
		Merged:   merged,
		Replayed: replay,
	}, nil
}
