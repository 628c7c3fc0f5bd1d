package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStateCommand creates the state command
func NewStateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the daemon's simulation state",
		Long: `Fetch the full simulation snapshot from the daemon and print a summary.

Fails when the daemon has no initialized simulation yet.

Examples:
  gridfleet state
  gridfleet state --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewDaemonClient(daemonAddr)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			state, err := client.GetState(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(state, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			atGoal, charging := 0, 0
			for _, r := range state.Robots {
				if r.ReachedGoal {
					atGoal++
				}
				if r.Charging {
					charging++
				}
			}

			fmt.Printf("Simulation state @ %s\n", daemonAddr)
			fmt.Printf("  Grid:               %dx%d\n", state.GridSize.Width, state.GridSize.Height)
			fmt.Printf("  Robots:             %d (%d at goal, %d charging)\n",
				len(state.Robots), atGoal, charging)
			fmt.Printf("  Obstacles:          %d\n", len(state.Obstacles))
			fmt.Printf("  Charging stations:  %d\n", len(state.ChargingStations))
			fmt.Printf("  Packages delivered: %d\n", state.TotalPackagesDelivered)
			fmt.Printf("  Active packages:    %d\n", len(state.ActivePackages))
			if state.DeliveredPackagesStats.AvgDeliveryTime > 0 {
				fmt.Printf("  Delivery ticks:     avg %.1f (min %d, max %d)\n",
					state.DeliveredPackagesStats.AvgDeliveryTime,
					state.DeliveredPackagesStats.MinDeliveryTime,
					state.DeliveredPackagesStats.MaxDeliveryTime)
			}

			fmt.Println("\nRobots:")
			for _, r := range state.Robots {
				carrying := ""
				if r.CarryingPackage != nil {
					carrying = fmt.Sprintf("  carrying #%d", r.CarryingPackage.ID)
				}
				fmt.Printf("  #%d  pos (%d,%d)  battery %5.1f%%  %-12s%s\n",
					r.ID, r.Position.X, r.Position.Y, r.BatteryPercentage, r.Status, carrying)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw snapshot as JSON")

	return cmd
}
