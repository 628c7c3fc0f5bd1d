package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the robot path coordinate dump",
		Long: `Fetch the per-robot path coordinates from the daemon and write them to
a file. Without --output the daemon's timestamped filename is used.

Examples:
  gridfleet export
  gridfleet export --output paths.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			filename, content, err := client.ExportPaths(ctx)
			if err != nil {
				return err
			}
			if output != "" {
				filename = output
			}

			if err := os.WriteFile(filename, content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", filename, err)
			}

			fmt.Printf("✓ Paths written to %s (%d bytes)\n", filename, len(content))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead")

	return cmd
}
