package shared

import "fmt"

// Cell represents an immutable grid coordinate
type Cell struct {
	X int
	Y int
}

// NewCell creates a cell from raw coordinates
func NewCell(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// ManhattanTo calculates Manhattan distance to another cell
func (c Cell) ManhattanTo(other Cell) int {
	dx := other.X - c.X
	if dx < 0 {
		dx = -dx
	}
	dy := other.Y - c.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Add returns the cell offset by (dx, dy)
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Neighbors4 returns the four orthogonal neighbors.
// The order is fixed so equal-cost searches expand deterministically.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
	}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// FindNearestCell returns the nearest target by Manhattan distance and that distance.
// Returns false if targets is empty. Ties keep the earliest target.
func FindNearestCell(from Cell, targets []Cell) (Cell, int, bool) {
	if len(targets) == 0 {
		return Cell{}, 0, false
	}

	nearest := targets[0]
	minDistance := from.ManhattanTo(targets[0])

	for _, target := range targets[1:] {
		distance := from.ManhattanTo(target)
		if distance < minDistance {
			minDistance = distance
			nearest = target
		}
	}

	return nearest, minDistance, true
}
