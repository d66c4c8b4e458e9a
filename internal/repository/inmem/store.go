// Package inmem keeps carts, orders and a product catalog in process memory.
// It honours the same versioning and transaction contracts as the Postgres
// repositories and backs the "memory" storage mode and service tests.
package inmem

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

type mergeKey struct {
	accountID string
	key       string
}

type state struct {
	carts  map[domain.Owner]domain.Cart
	merges map[mergeKey]string
	orders []domain.Order
}

func newState() *state {
	return &state{
		carts:  make(map[domain.Owner]domain.Cart),
		merges: make(map[mergeKey]string),
	}
}

func (s *state) clone() *state {
	return &state{
		carts:  maps.Clone(s.carts),
		merges: maps.Clone(s.merges),
		orders: slices.Clone(s.orders),
	}
}

type Store struct {
	mu    sync.Mutex
	state *state

	productsMu sync.RWMutex
	products   map[uuid.UUID]domain.Product
}

func NewStore() *Store {
	return &Store{
		state:    newState(),
		products: make(map[uuid.UUID]domain.Product),
	}
}

func (s *Store) Carts() port.CartRepository {
	return &cartRepository{store: s}
}

func (s *Store) Orders() port.OrderRepository {
	return &orderRepository{store: s}
}

func (s *Store) Catalog() port.ProductCatalog {
	return &catalog{store: s}
}

// PutProduct adds or replaces a catalog entry.
func (s *Store) PutProduct(p domain.Product) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	p.Sizes = slices.Clone(p.Sizes)
	s.products[p.ID] = p
}

// WithinTx runs fn against a staged copy of the state and publishes it only if fn succeeds.
// Transactions are serialized with every other write.
func (s *Store) WithinTx(ctx context.Context, fn func(repos port.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := s.state.clone()
	if err := fn(txRepositories{store: s, st: staged}); err != nil {
		return err
	}

	s.state = staged
	return nil
}

type txRepositories struct {
	store *Store
	st    *state
}

func (r txRepositories) Carts() port.CartRepository {
	return &cartRepository{store: r.store, st: r.st}
}

func (r txRepositories) Orders() port.OrderRepository {
	return &orderRepository{store: r.store, st: r.st}
}

// do runs fn against the transaction's staged state, or against the live state under the lock.
func (s *Store) do(st *state, fn func(st *state) error) error {
	if st != nil {
		return fn(st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

type cartRepository struct {
	store *Store
	st    *state
}

func (r *cartRepository) GetCart(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if owner.IsNone() {
		return domain.Cart{}, fmt.Errorf("owner is empty")
	}

	var cart domain.Cart
	err := r.store.do(r.st, func(st *state) error {
		stored, ok := st.carts[owner]
		if !ok {
			cart = domain.Cart{Owner: owner}
			return nil
		}
		cart = stored
		cart.Items = slices.Clone(stored.Items)
		return nil
	})

	return cart, err
}

func (r *cartRepository) SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.Owner.IsNone() {
		return domain.Cart{}, fmt.Errorf("owner is empty")
	}
	for i, item := range cart.Items {
		if err := domain.ValidateQuantity(item.Quantity); err != nil {
			return domain.Cart{}, fmt.Errorf("item[%d]: %w", i, err)
		}
	}

	var saved domain.Cart
	err := r.store.do(r.st, func(st *state) error {
		current, ok := st.carts[cart.Owner]
		if (!ok && cart.Version != 0) || (ok && current.Version != cart.Version) {
			return fmt.Errorf("cart[%s] version[%d]: %w", cart.Owner, cart.Version, domain.ErrVersionConflict)
		}

		now := time.Now().UTC()
		items := make([]domain.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.AddedAt.IsZero() {
				item.AddedAt = now
			}
			items = append(items, item)
		}

		saved = domain.Cart{
			Owner:     cart.Owner,
			Items:     items,
			Version:   cart.Version + 1,
			UpdatedAt: now,
		}
		st.carts[cart.Owner] = saved
		saved.Items = slices.Clone(items)
		return nil
	})

	return saved, err
}

func (r *cartRepository) RecordMerge(ctx context.Context, accountID, idempotencyKey, sessionID string) (bool, error) {
	if accountID == "" {
		return false, fmt.Errorf("accountID is empty")
	}
	if idempotencyKey == "" {
		return false, fmt.Errorf("idempotencyKey is empty")
	}

	var recorded bool
	err := r.store.do(r.st, func(st *state) error {
		k := mergeKey{accountID: accountID, key: idempotencyKey}
		if _, ok := st.merges[k]; ok {
			return nil
		}
		st.merges[k] = sessionID
		recorded = true
		return nil
	})

	return recorded, err
}

type orderRepository struct {
	store *Store
	st    *state
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

	return r.store.do(r.st, func(st *state) error {
		for _, existing := range st.orders {
			if existing.ID == order.ID {
				return fmt.Errorf("order[%s] already exists", order.ID)
			}
			if order.IdempotencyKey != "" && existing.OwnerID == order.OwnerID && existing.IdempotencyKey == order.IdempotencyKey {
				return fmt.Errorf("order idempotency key[%s] already used", order.IdempotencyKey)
			}
		}

		order.Items = slices.Clone(order.Items)
		st.orders = append(st.orders, order)
		return nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var order domain.Order
	err := r.store.do(r.st, func(st *state) error {
		for _, o := range st.orders {
			if o.ID == orderID {
				order = cloneOrder(o)
				return nil
			}
		}
		return fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	})

	return order, err
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	orders := []domain.Order{}
	err := r.store.do(r.st, func(st *state) error {
		// newest inserted first on equal timestamps
		for i := len(st.orders) - 1; i >= 0; i-- {
			if st.orders[i].OwnerID == ownerID {
				orders = append(orders, cloneOrder(st.orders[i]))
			}
		}
		return nil
	})

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, err
}

func (r *orderRepository) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (domain.Order, bool, error) {
	if ownerID == "" || key == "" {
		return domain.Order{}, false, nil
	}

	var (
		order domain.Order
		found bool
	)
	err := r.store.do(r.st, func(st *state) error {
		for _, o := range st.orders {
			if o.OwnerID == ownerID && o.IdempotencyKey == key {
				order, found = cloneOrder(o), true
				return nil
			}
		}
		return nil
	})

	return order, found, err
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

type catalog struct {
	store *Store
}

func (c *catalog) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	c.store.productsMu.RLock()
	defer c.store.productsMu.RUnlock()

	products := make(map[uuid.UUID]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := c.store.products[id]; ok {
			p.Sizes = slices.Clone(p.Sizes)
			products[id] = p
		}
	}

	return products, nil
}
