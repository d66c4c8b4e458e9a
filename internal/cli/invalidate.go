package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/cache"
	"github.com/nikolayk812/cartkeeper/internal/config"
	"github.com/nikolayk812/cartkeeper/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func NewInvalidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate-products <product-id>...",
		Short: "Drop cached products after a catalog change",
		Long: `Drop cached catalog entries so cart views read current product data.

Example:
  cartd invalidate-products --config ./cartd.yaml 7f1c6a52-5d0e-4c8e-9a8e-2f4b3c1d9e01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("product id[%s] is not valid: %w", arg, err)
				}
				ids = append(ids, id)
			}

			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}
			if cfg.Redis.Addr == "" {
				return fmt.Errorf("redis.addr is required to invalidate cached products")
			}

			if err := telemetry.InitLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
				return fmt.Errorf("telemetry.InitLogger: %w", err)
			}

			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			// the wrapped catalog is never read when only invalidating
			productCache := cache.NewProductCache(client, nil, cfg.ServiceName, cfg.Catalog.CacheTTL)
			if err := productCache.Invalidate(cmd.Context(), ids...); err != nil {
				return fmt.Errorf("productCache.Invalidate: %w", err)
			}

			slog.InfoContext(cmd.Context(), "cached products invalidated", "count", len(ids))
			return nil
		},
	}
}
