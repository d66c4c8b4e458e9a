package port

import (
	"context"

	"github.com/nikolayk812/cartkeeper/internal/domain"
)

type CartRepository interface {
	// GetCart returns an unpersisted empty cart (Version 0) when none exists.
	GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error)
	// SaveCart writes the whole cart if its Version still matches the stored one,
	// returning domain.ErrVersionConflict otherwise.
	SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)

	// RecordMerge stores a merge idempotency key for an account,
	// reporting false if the key was already recorded.
	RecordMerge(ctx context.Context, accountID, idempotencyKey, sessionID string) (bool, error)
}
