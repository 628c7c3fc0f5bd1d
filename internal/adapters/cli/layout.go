package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// layoutDoc is the serialized floor plan: the same snake_case shape the
// initialize event accepts, plus the package pools
type layoutDoc struct {
	Width            int                  `json:"width"`
	Height           int                  `json:"height"`
	Obstacles        []dtos.CellDTO       `json:"obstacles"`
	ChargingStations []dtos.StationDTO    `json:"charging_stations"`
	Robots           []dtos.RobotSetupDTO `json:"robots"`
	PickupPool       []dtos.CellDTO       `json:"pickup_pool"`
	DeliveryPool     []dtos.CellDTO       `json:"delivery_pool"`
	InitialPackages  int                  `json:"initial_packages"`
}

// NewLayoutCommand creates the layout command
func NewLayoutCommand() *cobra.Command {
	var (
		asJSON bool
		render bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the stock warehouse floor plan",
		Long: `Show the default floor the simulation starts from: grid size, shelving
obstacles, charging stations, the starting fleet and the package pools.

--json prints the floor in the shape the initialize event accepts, so
it can serve as a template for custom floors.

Examples:
  gridfleet layout
  gridfleet layout --render
  gridfleet layout --json > floor.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := warehouse.DefaultLayout()

			if asJSON {
				return printLayoutJSON(layout)
			}

			fmt.Println("Default warehouse floor")
			fmt.Println("=======================")
			fmt.Printf("  Grid:              %dx%d\n", layout.Width, layout.Height)
			fmt.Printf("  Obstacles:         %d\n", len(layout.Obstacles))
			fmt.Printf("  Charging stations: %d\n", len(layout.Stations))
			fmt.Printf("  Robots:            %d\n", len(layout.Robots))
			fmt.Printf("  Pickup cells:      %d\n", len(layout.PickupPool))
			fmt.Printf("  Delivery cells:    %d\n", len(layout.DeliveryPool))
			fmt.Printf("  Initial packages:  %d\n", layout.InitialPackages)

			fmt.Println("\nRobots:")
			for i, spec := range layout.Robots {
				fmt.Printf("  #%d  start (%d,%d)  goal (%d,%d)  %s\n",
					i+1, spec.Start.X, spec.Start.Y, spec.Goal.X, spec.Goal.Y, spec.Config.Color)
			}

			if render {
				fmt.Println()
				fmt.Print(renderLayout(layout))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the floor as JSON")
	cmd.Flags().BoolVar(&render, "render", false, "Draw the floor as ASCII")

	return cmd
}

func printLayoutJSON(layout warehouse.Layout) error {
	doc := layoutDoc{
		Width:           layout.Width,
		Height:          layout.Height,
		Obstacles:       dtos.CellsToDTO(layout.Obstacles),
		PickupPool:      dtos.CellsToDTO(layout.PickupPool),
		DeliveryPool:    dtos.CellsToDTO(layout.DeliveryPool),
		InitialPackages: layout.InitialPackages,
	}
	for _, st := range layout.Stations {
		doc.ChargingStations = append(doc.ChargingStations, dtos.StationDTO{
			X: st.Cell.X, Y: st.Cell.Y, ChargingRate: st.ChargingRate,
		})
	}
	for _, spec := range layout.Robots {
		doc.Robots = append(doc.Robots, dtos.RobotSetupDTO{
			Start:            dtos.CellDTO{X: spec.Start.X, Y: spec.Start.Y},
			Goal:             dtos.CellDTO{X: spec.Goal.X, Y: spec.Goal.Y},
			Color:            spec.Config.Color,
			BatteryDrainRate: spec.Config.BatteryDrainRate,
			Idle:             spec.Config.Idle,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// renderLayout draws the floor, row y=0 on top to match the dashboard.
// Stations and robots win over pool markers when cells overlap.
func renderLayout(layout warehouse.Layout) string {
	cells := make(map[shared.Cell]rune)
	for _, c := range layout.DeliveryPool {
		cells[c] = 'D'
	}
	for _, c := range layout.PickupPool {
		cells[c] = 'P'
	}
	for _, c := range layout.Obstacles {
		cells[c] = '#'
	}
	for _, st := range layout.Stations {
		cells[st.Cell] = 'C'
	}
	for _, spec := range layout.Robots {
		cells[spec.Start] = 'R'
	}

	var b strings.Builder
	for y := 0; y < layout.Height; y++ {
		for x := 0; x < layout.Width; x++ {
			if ch, ok := cells[shared.NewCell(x, y)]; ok {
				b.WriteRune(ch)
			} else {
				b.WriteRune('.')
			}
			b.WriteRune(' ')
		}
		b.WriteRune('\n')
	}
	b.WriteString("\n# obstacle  C charger  R robot  P pickup  D delivery\n")
	return b.String()
}
