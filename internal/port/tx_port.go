package port

import "context"

// Repositories is the set of repositories bound to one transaction.
type Repositories interface {
	Carts() CartRepository
	Orders() OrderRepository
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
