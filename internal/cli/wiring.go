package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/cache"
	"github.com/nikolayk812/cartkeeper/internal/config"
	"github.com/nikolayk812/cartkeeper/internal/httpapi"
	"github.com/nikolayk812/cartkeeper/internal/identity"
	"github.com/nikolayk812/cartkeeper/internal/notify"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/nikolayk812/cartkeeper/internal/repository"
	"github.com/nikolayk812/cartkeeper/internal/repository/inmem"
	"github.com/nikolayk812/cartkeeper/internal/service"
	"github.com/redis/go-redis/v9"
)

// storage is the set of adapters one storage mode provides.
type storage struct {
	carts   port.CartRepository
	orders  port.OrderRepository
	catalog port.ProductCatalog
	tx      port.Transactor
}

// App is the wired service graph behind the HTTP router.
type App struct {
	Handler  http.Handler
	Checkout *service.CheckoutService

	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Build connects the configured backends and wires the services.
// Close releases every connection Build opened, also after a failed Build.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{}

	st, err := openStorage(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	displayCatalog := st.catalog
	var notifier port.Notifier = notify.Log{}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.closers = append(app.closers, func() { _ = client.Close() })

		if err := client.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "redis unreachable, cache reads will fall through", "addr", cfg.Redis.Addr, "error", err)
		}

		displayCatalog = cache.NewProductCache(client, st.catalog, cfg.ServiceName, cfg.Catalog.CacheTTL)
		notifier = notify.NewRedisStream(client, cfg.Notify.Stream, cfg.Notify.MaxLen)
	}

	resolver, err := identity.NewResolver([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("identity.NewResolver: %w", err)
	}

	// checkout prices must be current, so it reads the catalog without the cache
	app.Checkout = service.NewCheckoutService(st.tx, st.catalog, notifier)

	handler := httpapi.NewHandler(
		service.NewCartService(st.carts, displayCatalog),
		service.NewMergeService(st.tx, displayCatalog),
		app.Checkout,
		service.NewOrderService(st.orders),
	)
	app.Handler = httpapi.NewRouter(handler, resolver)

	return app, nil
}

func openStorage(ctx context.Context, cfg config.Config, app *App) (storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		store := inmem.NewStore()

		products, err := cfg.SeedProducts()
		if err != nil {
			return storage{}, fmt.Errorf("cfg.SeedProducts: %w", err)
		}
		for _, p := range products {
			store.PutProduct(p)
		}

		return storage{
			carts:   store.Carts(),
			orders:  store.Orders(),
			catalog: store.Catalog(),
			tx:      store,
		}, nil

	case config.StoragePostgres:
		pool, err := openPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return storage{}, err
		}
		app.closers = append(app.closers, pool.Close)

		return storage{
			carts:   repository.NewCart(pool),
			orders:  repository.NewOrder(pool),
			catalog: repository.NewCatalog(pool),
			tx:      repository.NewTransactor(pool),
		}, nil
	}

	return storage{}, errors.New("storage is not configured")
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	return pool, nil
}
