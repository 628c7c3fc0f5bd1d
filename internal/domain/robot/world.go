package robot

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/grid"
	"github.com/andrescamacho/gridfleet-go/internal/domain/planning"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// World is the robot's view of the warehouse it lives in. Robots hold
// stable integer ids and look everything up through the model instead of
// keeping direct references to each other.
type World interface {
	// Grid returns the shared floor plan and occupancy lattice
	Grid() *grid.Grid

	// Planner runs route searches over the grid
	Planner() *planning.Planner

	// Peers snapshots every robot except excludeID for planning
	Peers(excludeID int) []planning.Peer

	// RobotAt returns the robot occupying a cell, if any
	RobotAt(cell shared.Cell) (*Robot, bool)

	// Stations lists all charging stations in insertion order
	Stations() []*station.ChargingStation

	// CurrentTick is the model's tick counter, used for package timestamps
	CurrentTick() int
}
