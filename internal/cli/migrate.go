package cli

import (
	"fmt"
	"os"

	"github.com/nikolayk812/cartkeeper/internal/config"
	"github.com/nikolayk812/cartkeeper/internal/telemetry"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}
			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("storage[%s] has no schema to migrate", cfg.Storage)
			}

			if err := telemetry.InitLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
				return fmt.Errorf("telemetry.InitLogger: %w", err)
			}

			return migrate(cmd.Context(), cfg)
		},
	}
}
