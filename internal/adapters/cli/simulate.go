package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/setup"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	simCommands "github.com/andrescamacho/gridfleet-go/internal/application/sim/commands"
	simQueries "github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
	"github.com/andrescamacho/gridfleet-go/pkg/utils"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		ticks      int
		packages   int
		seed       int64
		exportPath string
		statsEvery int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless simulation on the default floor",
		Long: `Step the default floor in-process, without a daemon, until every robot
stands on its goal or the tick budget runs out.

The budget comes from --ticks, falling back to simulation.max_ticks in
the config; zero runs to completion. Press Ctrl+C to stop early; the
final report still prints.

Examples:
  gridfleet simulate
  gridfleet simulate --ticks 500 --packages 200 --seed 42
  gridfleet simulate --stats-every 100 --export paths.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault("")
			if ticks == 0 {
				ticks = cfg.Simulation.MaxTicks
			}
			if seed == 0 {
				seed = cfg.Simulation.Seed
			}

			runID := utils.GenerateRunID("simulate")
			fmt.Printf("Run %s: default floor, seed %d\n", runID, seed)

			session := sim.NewSession()
			runner := sim.NewRunner(context.Background(), 0, nil)
			registry := setup.NewHandlerRegistry(session, runner, nil, nil)
			med, err := registry.CreateConfiguredMediator()
			if err != nil {
				return fmt.Errorf("failed to configure mediator: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			resp, err := med.Send(ctx, &simCommands.InitializeCommand{
				UseDefaultLayout: true,
				InitialPackages:  packages,
				Seed:             seed,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize simulation: %w", err)
			}
			init := resp.(*simCommands.InitializeResponse)
			fmt.Printf("Floor %dx%d, %d robots, %d stations, %d packages\n\n",
				init.GridSize.Width, init.GridSize.Height,
				len(init.Robots), len(init.Stations), len(init.Packages))

			lastTick := 0
			for tick := 1; ticks == 0 || tick <= ticks; tick++ {
				if ctx.Err() != nil {
					fmt.Println("Interrupted")
					break
				}

				resp, err := med.Send(ctx, &simCommands.StepCommand{})
				if err != nil {
					return fmt.Errorf("step %d failed: %w", tick, err)
				}
				step := resp.(*simCommands.StepResponse)
				lastTick = step.Tick

				if statsEvery > 0 && step.Tick%statsEvery == 0 {
					printProgress(step)
				}
				if step.AllReachedGoal {
					fmt.Printf("✓ All robots reached their goals at tick %d\n", step.Tick)
					break
				}
			}

			if err := printReport(ctx, med, lastTick); err != nil {
				return err
			}

			if exportPath != "" {
				if err := exportPathsTo(ctx, med, exportPath); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0,
		"Tick budget (0 falls back to simulation.max_ticks; both 0 runs to completion)")
	cmd.Flags().IntVar(&packages, "packages", 0,
		"Initial package count (0 uses the layout's own count)")
	cmd.Flags().Int64Var(&seed, "seed", 0,
		"Random seed for package placement (0 draws one)")
	cmd.Flags().StringVar(&exportPath, "export", "",
		"Write the path coordinate dump to this file after the run")
	cmd.Flags().IntVar(&statsEvery, "stats-every", 0,
		"Print a progress line every N ticks (0 disables)")

	return cmd
}

// printProgress prints one progress line for a completed tick
func printProgress(step *simCommands.StepResponse) {
	atGoal := 0
	battery := 0.0
	for _, r := range step.Robots {
		if r.ReachedGoal {
			atGoal++
		}
		battery += r.BatteryPercentage
	}
	if len(step.Robots) > 0 {
		battery /= float64(len(step.Robots))
	}
	fmt.Printf("tick %6d  at goal %d/%d  avg battery %5.1f%%  assigned %d\n",
		step.Tick, atGoal, len(step.Robots), battery, len(step.Assignments))
}

// printReport prints the end-of-run summary from the state query
func printReport(ctx context.Context, med mediator.Mediator, lastTick int) error {
	resp, err := med.Send(ctx, &simQueries.GetStateQuery{})
	if err != nil {
		return fmt.Errorf("failed to read final state: %w", err)
	}
	state := resp.(*simQueries.GetStateResponse)

	fmt.Println("\nSimulation finished")
	fmt.Printf("  Ticks:              %d\n", lastTick)
	fmt.Printf("  Packages delivered: %d\n", state.TotalPackagesDelivered)
	fmt.Printf("  Active packages:    %d\n", len(state.ActivePackages))
	fmt.Printf("  All at goal:        %v\n", state.AllReachedGoal)
	if state.DeliveredPackagesStats.AvgDeliveryTime > 0 {
		fmt.Printf("  Delivery ticks:     avg %.1f (min %d, max %d)\n",
			state.DeliveredPackagesStats.AvgDeliveryTime,
			state.DeliveredPackagesStats.MinDeliveryTime,
			state.DeliveredPackagesStats.MaxDeliveryTime)
	}

	if verbose {
		fmt.Println("\nRobots:")
		for _, r := range state.Robots {
			fmt.Printf("  #%d  pos (%d,%d)  battery %5.1f%%  steps %d  delivered %d  %s\n",
				r.ID, r.Position.X, r.Position.Y, r.BatteryPercentage,
				r.StepsTaken, r.TotalPackagesDelivered, r.Status)
		}
	}
	return nil
}

// exportPathsTo dumps the per-robot path coordinates to a file
func exportPathsTo(ctx context.Context, med mediator.Mediator, path string) error {
	resp, err := med.Send(ctx, &simQueries.ExportPathsQuery{})
	if err != nil {
		return fmt.Errorf("failed to export paths: %w", err)
	}
	export := resp.(*simQueries.ExportPathsResponse)

	if err := os.WriteFile(path, export.Content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("✓ Paths written to %s\n", path)
	return nil
}
