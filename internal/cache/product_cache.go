package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/currency"
)

// ProductCache is a read-through Redis cache in front of a ProductCatalog.
// Redis failures degrade to reading the wrapped catalog directly.
type ProductCache struct {
	client      redis.UniversalClient
	next        port.ProductCatalog
	ttl         time.Duration
	serviceName string

	group singleflight.Group
}

func NewProductCache(client redis.UniversalClient, next port.ProductCatalog, serviceName string, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client:      client,
		next:        next,
		ttl:         ttl,
		serviceName: serviceName,
	}
}

type cachedProduct struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency"`
	ImageURL string    `json:"image_url"`
	Sizes    []string  `json:"sizes"`
}

func (c *ProductCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.serviceName, operation, key)
}

func (c *ProductCache) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	products := make(map[uuid.UUID]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	misses := c.readCached(ctx, ids, products)
	if len(misses) == 0 {
		return products, nil
	}

	fetched, err := c.load(ctx, misses)
	if err != nil {
		return nil, err
	}

	for id, p := range fetched {
		products[id] = p
	}

	return products, nil
}

func (c *ProductCache) readCached(ctx context.Context, ids []uuid.UUID, into map[uuid.UUID]domain.Product) []uuid.UUID {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.GenerateKey("product", id.String())
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		slog.WarnContext(ctx, "product cache read failed", "error", err)
		return ids
	}

	var misses []uuid.UUID
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}

		p, err := decodeProduct(s)
		if err != nil {
			slog.WarnContext(ctx, "product cache entry corrupt", "key", keys[i], "error", err)
			misses = append(misses, ids[i])
			continue
		}
		into[p.ID] = p
	}

	return misses
}

// load fetches missing products once per distinct id set, however many callers ask concurrently.
func (c *ProductCache) load(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = id.String()
	}

	v, err, _ := c.group.Do(strings.Join(parts, ","), func() (any, error) {
		fetched, err := c.next.GetProducts(ctx, sorted)
		if err != nil {
			return nil, fmt.Errorf("next.GetProducts: %w", err)
		}

		c.store(ctx, fetched)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(map[uuid.UUID]domain.Product), nil
}

func (c *ProductCache) store(ctx context.Context, products map[uuid.UUID]domain.Product) {
	if len(products) == 0 {
		return
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, p := range products {
			data, err := encodeProduct(p)
			if err != nil {
				return err
			}
			pipe.Set(ctx, c.GenerateKey("product", id.String()), data, c.ttl)
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "product cache write failed", "error", err)
	}
}

// Invalidate drops cached entries, e.g. after the catalog reports a price change.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.GenerateKey("product", id.String())
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

func encodeProduct(p domain.Product) (string, error) {
	sizes := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = string(s)
	}

	data, err := json.Marshal(cachedProduct{
		ID:       p.ID,
		Name:     p.Name,
		Amount:   p.Price.Amount.String(),
		Currency: p.Price.Currency.String(),
		ImageURL: p.ImageURL,
		Sizes:    sizes,
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func decodeProduct(s string) (domain.Product, error) {
	var cp cachedProduct
	if err := json.Unmarshal([]byte(s), &cp); err != nil {
		return domain.Product{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	amount, err := decimal.NewFromString(cp.Amount)
	if err != nil {
		return domain.Product{}, fmt.Errorf("amount[%s] is not valid: %w", cp.Amount, err)
	}

	parsedCurrency, err := currency.ParseISO(cp.Currency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", cp.Currency, err)
	}

	sizes := make([]domain.Size, 0, len(cp.Sizes))
	for _, s := range cp.Sizes {
		size, err := domain.ParseSize(s)
		if err != nil {
			return domain.Product{}, fmt.Errorf("domain.ParseSize: %w", err)
		}
		sizes = append(sizes, size)
	}

	return domain.Product{
		ID:       cp.ID,
		Name:     cp.Name,
		Price:    domain.Money{Amount: amount, Currency: parsedCurrency},
		ImageURL: cp.ImageURL,
		Sizes:    sizes,
	}, nil
}
