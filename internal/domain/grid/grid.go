// Package grid holds the warehouse floor plan: bounds, static obstacles
// and the per-cell robot occupancy used for collision checks.
package grid

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// Grid is the rectangular warehouse floor
type Grid struct {
	width     int
	height    int
	obstacles map[shared.Cell]bool
	occupants map[shared.Cell]int
}

// NewGrid creates an empty grid with validation
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 {
		return nil, shared.NewValidationError("width", "must be positive")
	}
	if height <= 0 {
		return nil, shared.NewValidationError("height", "must be positive")
	}

	return &Grid{
		width:     width,
		height:    height,
		obstacles: make(map[shared.Cell]bool),
		occupants: make(map[shared.Cell]int),
	}, nil
}

// Width returns the horizontal cell count
func (g *Grid) Width() int {
	return g.width
}

// Height returns the vertical cell count
func (g *Grid) Height() int {
	return g.height
}

// InBounds checks whether the cell lies inside the grid
func (g *Grid) InBounds(cell shared.Cell) bool {
	return cell.X >= 0 && cell.X < g.width && cell.Y >= 0 && cell.Y < g.height
}

// AddObstacle marks a cell as permanently blocked.
// Robots standing on the cell are not evicted; they divert on their next step.
func (g *Grid) AddObstacle(cell shared.Cell) error {
	if !g.InBounds(cell) {
		return shared.NewPlacementConflictError(cell, "outside grid bounds")
	}
	if g.obstacles[cell] {
		return shared.NewPlacementConflictError(cell, "obstacle already present")
	}

	g.obstacles[cell] = true
	return nil
}

// RemoveObstacle clears a previously placed obstacle
func (g *Grid) RemoveObstacle(cell shared.Cell) error {
	if !g.obstacles[cell] {
		return shared.NewPlacementConflictError(cell, "no obstacle present")
	}

	delete(g.obstacles, cell)
	return nil
}

// HasObstacle checks whether the cell is blocked
func (g *Grid) HasObstacle(cell shared.Cell) bool {
	return g.obstacles[cell]
}

// Obstacles returns a copy of all obstacle cells
func (g *Grid) Obstacles() []shared.Cell {
	cells := make([]shared.Cell, 0, len(g.obstacles))
	for cell := range g.obstacles {
		cells = append(cells, cell)
	}
	return cells
}

// ObstacleCount returns the number of blocked cells
func (g *Grid) ObstacleCount() int {
	return len(g.obstacles)
}

// PlaceRobot records a robot as the occupant of a cell
func (g *Grid) PlaceRobot(robotID int, cell shared.Cell) error {
	if !g.InBounds(cell) {
		return shared.NewPlacementConflictError(cell, "outside grid bounds")
	}
	if g.obstacles[cell] {
		return shared.NewPlacementConflictError(cell, "cell is an obstacle")
	}
	if occupant, taken := g.occupants[cell]; taken && occupant != robotID {
		return shared.NewPlacementConflictError(cell, "cell occupied by another robot")
	}

	g.occupants[cell] = robotID
	return nil
}

// MoveRobot transfers occupancy from one cell to another.
// The move fails if the target is held by a different robot.
func (g *Grid) MoveRobot(robotID int, from, to shared.Cell) error {
	if occupant, ok := g.occupants[from]; !ok || occupant != robotID {
		return shared.NewInternalInconsistencyError("robot occupancy out of sync with grid")
	}
	if occupant, taken := g.occupants[to]; taken && occupant != robotID {
		return shared.NewPlacementConflictError(to, "cell occupied by another robot")
	}
	if !g.InBounds(to) {
		return shared.NewPlacementConflictError(to, "outside grid bounds")
	}

	delete(g.occupants, from)
	g.occupants[to] = robotID
	return nil
}

// RobotAt returns the occupant of a cell, if any
func (g *Grid) RobotAt(cell shared.Cell) (int, bool) {
	id, ok := g.occupants[cell]
	return id, ok
}

// IsOccupied checks whether any robot holds the cell
func (g *Grid) IsOccupied(cell shared.Cell) bool {
	_, ok := g.occupants[cell]
	return ok
}
