package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	daemonAddr string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridfleet",
		Short: "GridFleet CLI - Operate the warehouse simulation daemon",
		Long: `GridFleet CLI runs and inspects the multi-robot warehouse simulation.
Most commands talk to a running daemon over HTTP and websocket; simulate
runs a floor headless in-process without a daemon.

Examples:
  gridfleet serve
  gridfleet simulate --ticks 500 --packages 200
  gridfleet state
  gridfleet watch
  gridfleet layout --render
  gridfleet config show`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "addr", getDefaultAddr(),
		"Daemon address (host:port)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewLayoutCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewStateCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultAddr returns the default daemon address
func getDefaultAddr() string {
	if addr := os.Getenv("GF_ADDR"); addr != "" {
		return addr
	}
	return "localhost:8765"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
