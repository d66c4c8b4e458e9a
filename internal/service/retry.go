package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/cartkeeper/internal/domain"
)

const maxConflictAttempts = 5

// retryOnConflict reruns op while it fails with domain.ErrVersionConflict.
// Any other error stops the loop and is returned as is.
func retryOnConflict(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxConflictAttempts-1), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil || errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}
