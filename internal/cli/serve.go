package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/config"
	"github.com/nikolayk812/cartkeeper/internal/migrations"
	"github.com/nikolayk812/cartkeeper/internal/telemetry"
	"github.com/spf13/cobra"
)

type ServeOptions struct {
	*RootOptions
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the cart and order HTTP API.

Example:
  cartd serve --config ./cartd.yaml
  CARTD_STORAGE=memory CARTD_JWT_SECRET=dev cartd serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations before serving (postgres storage)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if err := telemetry.InitLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("telemetry.InitLogger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Migrate && cfg.Storage == config.StoragePostgres {
		if err := migrate(ctx, cfg); err != nil {
			return err
		}
	}

	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.InfoContext(ctx, "cartd listening", "addr", cfg.HTTP.Addr, "storage", cfg.Storage)

	select {
	case err := <-errCh:
		return fmt.Errorf("server.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	// pending confirmations finish before connections close
	app.Checkout.Wait()
	return nil
}

func migrate(ctx context.Context, cfg config.Config) error {
	pool, err := openPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := migrations.Apply(ctx, pool)
	if err != nil {
		return fmt.Errorf("migrations.Apply: %w", err)
	}

	slog.InfoContext(ctx, "migrations applied", "count", len(applied), "names", applied)
	return nil
}
