package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/daemon"
	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/logging"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation daemon in the foreground",
		Long: `Start the websocket server and simulation loop in the foreground.

Configuration is loaded from config.yaml (searched in ., ./configs and
/etc/gridfleet) with GF_* environment variables taking precedence.

Unlike the daemon binary, serve takes no PID file lock; it is meant for
development and supervised environments.

Examples:
  gridfleet serve
  GF_SERVER_ADDRESS=0.0.0.0:9000 gridfleet serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig("")
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err := logging.New(&cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return daemon.Run(ctx, cfg, logger)
		},
	}

	return cmd
}
