package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/domain/grid"
	"github.com/andrescamacho/gridfleet-go/internal/domain/planning"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

func newTestGrid(t *testing.T, width, height int, obstacles ...shared.Cell) *grid.Grid {
	t.Helper()
	g, err := grid.NewGrid(width, height)
	require.NoError(t, err)
	for _, cell := range obstacles {
		require.NoError(t, g.AddObstacle(cell))
	}
	return g
}

// assertValidPath checks planner output invariants: endpoints match, every
// hop is 4-adjacent, no cell is an obstacle.
func assertValidPath(t *testing.T, g *grid.Grid, path []shared.Cell, start, goal shared.Cell) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, goal, path[len(path)-1])
	for i, cell := range path {
		assert.False(t, g.HasObstacle(cell), "path crosses obstacle at %s", cell)
		if i > 0 {
			assert.Equal(t, 1, path[i-1].ManhattanTo(cell), "cells %s and %s are not adjacent", path[i-1], cell)
		}
	}
}

func TestPlanner_FindPath_StraightLine(t *testing.T) {
	// Arrange
	g := newTestGrid(t, 10, 10)
	planner := planning.NewPlanner(g, 1)

	// Act
	path := planner.FindPath(shared.NewCell(0, 0), shared.NewCell(5, 0), nil)

	// Assert
	assertValidPath(t, g, path, shared.NewCell(0, 0), shared.NewCell(5, 0))
	assert.Len(t, path, 6)
}

func TestPlanner_FindPath_StartEqualsGoal(t *testing.T) {
	g := newTestGrid(t, 5, 5)
	planner := planning.NewPlanner(g, 1)

	path := planner.FindPath(shared.NewCell(2, 2), shared.NewCell(2, 2), nil)

	assert.Equal(t, []shared.Cell{shared.NewCell(2, 2)}, path)
}

func TestPlanner_FindPath_DivertsAroundObstacle(t *testing.T) {
	// Arrange: the direct corridor along y=5 is cut at (4,5)
	g := newTestGrid(t, 10, 10, shared.NewCell(4, 5))
	planner := planning.NewPlanner(g, 1)

	// Act
	path := planner.FindPath(shared.NewCell(3, 5), shared.NewCell(9, 5), nil)

	// Assert: deterministic diversion below the obstacle, rejoining at (5,5)
	expected := []shared.Cell{
		{X: 3, Y: 5},
		{X: 3, Y: 4},
		{X: 4, Y: 4},
		{X: 5, Y: 4},
		{X: 5, Y: 5},
		{X: 6, Y: 5},
		{X: 7, Y: 5},
		{X: 8, Y: 5},
		{X: 9, Y: 5},
	}
	assert.Equal(t, expected, path)
}

func TestPlanner_FindPath_PeerBlocksCell(t *testing.T) {
	// Arrange: peer sits on the direct line but is still traveling elsewhere
	g := newTestGrid(t, 10, 3)
	planner := planning.NewPlanner(g, 1)
	peers := []planning.Peer{
		{ID: 2, Cell: shared.NewCell(3, 1), Goal: shared.NewCell(9, 1)},
	}

	// Act
	path := planner.FindPath(shared.NewCell(0, 1), shared.NewCell(6, 1), peers)

	// Assert
	assertValidPath(t, g, path, shared.NewCell(0, 1), shared.NewCell(6, 1))
	assert.NotContains(t, path, shared.NewCell(3, 1))
}

func TestPlanner_FindPath_PeerRestingAtOwnGoalDoesNotBlock(t *testing.T) {
	// Arrange: peer is parked on its own goal cell
	g := newTestGrid(t, 10, 3)
	planner := planning.NewPlanner(g, 1)
	peers := []planning.Peer{
		{ID: 2, Cell: shared.NewCell(3, 1), Goal: shared.NewCell(3, 1)},
	}

	// Act
	path := planner.FindPath(shared.NewCell(0, 1), shared.NewCell(6, 1), peers)

	// Assert: the straight line through the parked peer is planner-legal
	assert.Len(t, path, 7)
	assert.Contains(t, path, shared.NewCell(3, 1))
}

func TestPlanner_FindPath_NoPath(t *testing.T) {
	// Arrange: goal walled in on all four sides
	g := newTestGrid(t, 10, 10,
		shared.NewCell(5, 4),
		shared.NewCell(5, 6),
		shared.NewCell(4, 5),
		shared.NewCell(6, 5),
	)
	planner := planning.NewPlanner(g, 1)

	// Act
	path := planner.FindPath(shared.NewCell(0, 0), shared.NewCell(5, 5), nil)

	// Assert
	assert.Empty(t, path)
}

func TestPlanner_FindPath_BlockedCorridorFails(t *testing.T) {
	// A one-cell-high corridor with a traveling peer in the middle: plain
	// search cannot pass, penalized and emergency modes can.
	g := newTestGrid(t, 7, 1)
	planner := planning.NewPlanner(g, 1)
	peers := []planning.Peer{
		{ID: 2, Cell: shared.NewCell(3, 0), Goal: shared.NewCell(0, 0)},
	}
	start, goal := shared.NewCell(0, 0), shared.NewCell(6, 0)

	assert.Empty(t, planner.FindPath(start, goal, peers))

	penalized := planner.FindPathPenalized(start, goal, peers, 1)
	assertValidPath(t, g, penalized, start, goal)
	assert.Contains(t, penalized, shared.NewCell(3, 0))

	emergency := planner.FindPathEmergency(start, goal)
	assert.Len(t, emergency, 7)
}

func TestPlanner_FindPathPenalized_PrefersFreeLane(t *testing.T) {
	// Arrange: peer on the direct lane; an unpenalized lane two rows away
	// is cheaper than paying the peer surcharge.
	g := newTestGrid(t, 8, 5)
	planner := planning.NewPlanner(g, 1)
	peers := []planning.Peer{
		{ID: 2, Cell: shared.NewCell(4, 2), Goal: shared.NewCell(0, 2)},
	}

	// Act
	path := planner.FindPathPenalized(shared.NewCell(0, 2), shared.NewCell(7, 2), peers, 1)

	// Assert
	assertValidPath(t, g, path, shared.NewCell(0, 2), shared.NewCell(7, 2))
	assert.NotContains(t, path, shared.NewCell(4, 2))
}

func TestPlanner_FindPathWithDetour(t *testing.T) {
	// Arrange
	g := newTestGrid(t, 10, 10)
	planner := planning.NewPlanner(g, 42)
	start, goal := shared.NewCell(0, 5), shared.NewCell(9, 5)

	// Act
	path := planner.FindPathWithDetour(start, goal, nil)

	// Assert: first candidate is the perpendicular offset above the midpoint
	assertValidPath(t, g, path, start, goal)
	assert.Contains(t, path, shared.NewCell(4, 8))
}

func TestPlanner_FindPathWithDetour_Deterministic(t *testing.T) {
	g := newTestGrid(t, 20, 20)
	start, goal := shared.NewCell(0, 0), shared.NewCell(19, 19)

	first := planning.NewPlanner(g, 7).FindPathWithDetour(start, goal, nil)
	second := planning.NewPlanner(g, 7).FindPathWithDetour(start, goal, nil)

	assert.Equal(t, first, second)
}

func TestPlanner_FindPathVia_DropsJunctionDuplicate(t *testing.T) {
	// Arrange
	g := newTestGrid(t, 10, 10)
	planner := planning.NewPlanner(g, 1)
	via := shared.NewCell(2, 0)

	// Act
	path := planner.FindPathVia(shared.NewCell(0, 0), via, shared.NewCell(4, 0), nil)

	// Assert
	assert.Len(t, path, 5)
	occurrences := 0
	for _, cell := range path {
		if cell == via {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)
}

func TestPlanner_RandomFreeCell(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	planner := planning.NewPlanner(g, 99)

	cell, ok := planner.RandomFreeCell()

	assert.True(t, ok)
	assert.True(t, g.InBounds(cell))
	assert.False(t, g.HasObstacle(cell))
}

func TestPlanner_RandomFreeCell_FullyBlocked(t *testing.T) {
	g := newTestGrid(t, 1, 1, shared.NewCell(0, 0))
	planner := planning.NewPlanner(g, 99)

	_, ok := planner.RandomFreeCell()

	assert.False(t, ok)
}
