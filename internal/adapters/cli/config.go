package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Inspect GridFleet configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (GF_* prefix)
2. Config file (config.yaml in ., ./configs or /etc/gridfleet)
3. Default values

Example:
  gridfleet config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the configuration the daemon would run with, after merging the
config file, environment variables and defaults.

Example:
  gridfleet config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig("")
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			fmt.Println("GridFleet Configuration")
			fmt.Println("=======================")

			fmt.Println("Server:")
			fmt.Printf("  Address:          %s\n", cfg.Server.Address)

			fmt.Println("\nSimulation:")
			fmt.Printf("  Tick Rate:        %.1f ticks/s\n", cfg.Simulation.TickRate)
			fmt.Printf("  Initial Packages: %d\n", cfg.Simulation.InitialPackages)
			fmt.Printf("  Max Ticks:        %d\n", cfg.Simulation.MaxTicks)
			if cfg.Simulation.Seed != 0 {
				fmt.Printf("  Seed:             %d\n", cfg.Simulation.Seed)
			} else {
				fmt.Printf("  Seed:             (random)\n")
			}

			fmt.Println("\nDaemon:")
			fmt.Printf("  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)
			if cfg.Logging.Output == "file" {
				fmt.Printf("  File Path:        %s\n", cfg.Logging.FilePath)
				fmt.Printf("  Rotation:         %v\n", cfg.Logging.Rotation.Enabled)
			}

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %v\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Path:             %s\n", cfg.Metrics.Path)
			}

			return nil
		},
	}

	return cmd
}
