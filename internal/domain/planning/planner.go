// Package planning implements the route searches robots use to cross the
// warehouse floor: a plain shortest-path search, a peer-penalized variant,
// detour planning through intermediate waypoints, and an emergency mode
// that ignores peers entirely.
package planning

import (
	"math"
	"math/rand"

	"github.com/andrescamacho/gridfleet-go/internal/domain/grid"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

const (
	peerCellPenalty     = 10
	peerAdjacentPenalty = 5
	detourOffset        = 3.0
	randomCellAttempts  = 10
)

// Peer is a snapshot of another robot taken at planning time.
// The caller never includes the planning robot itself.
type Peer struct {
	ID   int
	Cell shared.Cell
	Goal shared.Cell
}

// Planner runs grid searches. It owns the simulation's randomness source,
// so a fixed seed makes detours and probe cells reproducible.
type Planner struct {
	grid *grid.Grid
	rng  *rand.Rand
}

// NewPlanner creates a planner over the given grid
func NewPlanner(g *grid.Grid, seed int64) *Planner {
	return &Planner{
		grid: g,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// FindPath runs the plain search. A cell holding a peer is not traversable
// unless it is that peer's own goal: a robot resting at its goal does not
// wall off the cell for planning purposes. The commit-time occupancy check
// still decides whether the move actually happens.
func (p *Planner) FindPath(start, goal shared.Cell, peers []Peer) []shared.Cell {
	blocked := blockedCells(peers)
	admissible := func(cell shared.Cell) bool {
		return p.grid.InBounds(cell) && !p.grid.HasObstacle(cell) && !blocked[cell]
	}
	return findPath(start, goal, admissible, unitCost)
}

// FindPathPenalized keeps peer cells traversable but prices them up:
// 1+10k for a peer's cell, 1+5k for any cell 4-adjacent to a peer.
// Emergency replans pass multiplier 2, everything else 1.
func (p *Planner) FindPathPenalized(start, goal shared.Cell, peers []Peer, multiplier int) []shared.Cell {
	if multiplier < 1 {
		multiplier = 1
	}

	occupied := make(map[shared.Cell]bool, len(peers))
	adjacent := make(map[shared.Cell]bool, len(peers)*4)
	for _, peer := range peers {
		occupied[peer.Cell] = true
		for _, n := range peer.Cell.Neighbors4() {
			adjacent[n] = true
		}
	}

	admissible := func(cell shared.Cell) bool {
		return p.grid.InBounds(cell) && !p.grid.HasObstacle(cell)
	}
	cost := func(cell shared.Cell) int {
		switch {
		case occupied[cell]:
			return 1 + peerCellPenalty*multiplier
		case adjacent[cell]:
			return 1 + peerAdjacentPenalty*multiplier
		default:
			return 1
		}
	}
	return findPath(start, goal, admissible, cost)
}

// FindPathWithDetour routes through an intermediate waypoint chosen near the
// midpoint of start→goal: two cells offset perpendicular to the direct
// vector, then two random offsets. The first waypoint both legs can reach
// wins.
func (p *Planner) FindPathWithDetour(start, goal shared.Cell, peers []Peer) []shared.Cell {
	for _, waypoint := range p.detourCandidates(start, goal) {
		if path := p.FindPathVia(start, waypoint, goal, peers); len(path) > 0 {
			return path
		}
	}
	return nil
}

// FindPathVia concatenates plain searches start→via and via→goal,
// dropping the duplicated junction cell.
func (p *Planner) FindPathVia(start, via, goal shared.Cell, peers []Peer) []shared.Cell {
	first := p.FindPath(start, via, peers)
	if len(first) == 0 {
		return nil
	}
	second := p.FindPath(via, goal, peers)
	if len(second) == 0 {
		return nil
	}
	return append(first, second[1:]...)
}

// FindPathEmergency ignores peer robots entirely. Only used when battery is
// critical and waiting politely is no longer an option.
func (p *Planner) FindPathEmergency(start, goal shared.Cell) []shared.Cell {
	admissible := func(cell shared.Cell) bool {
		return p.grid.InBounds(cell) && !p.grid.HasObstacle(cell)
	}
	return findPath(start, goal, admissible, unitCost)
}

// RandomFreeCell samples an unobstructed cell for probe planning.
// Gives up after a bounded number of attempts on dense grids.
func (p *Planner) RandomFreeCell() (shared.Cell, bool) {
	for i := 0; i < randomCellAttempts; i++ {
		cell := shared.NewCell(p.rng.Intn(p.grid.Width()), p.rng.Intn(p.grid.Height()))
		if !p.grid.HasObstacle(cell) {
			return cell, true
		}
	}
	return shared.Cell{}, false
}

func (p *Planner) detourCandidates(start, goal shared.Cell) []shared.Cell {
	mid := shared.NewCell((start.X+goal.X)/2, (start.Y+goal.Y)/2)

	candidates := make([]shared.Cell, 0, 4)
	dx := float64(goal.X - start.X)
	dy := float64(goal.Y - start.Y)
	if length := math.Hypot(dx, dy); length > 0 {
		px := int(math.Round(-dy / length * detourOffset))
		py := int(math.Round(dx / length * detourOffset))
		candidates = append(candidates, mid.Add(px, py), mid.Add(-px, -py))
	}
	for i := 0; i < 2; i++ {
		candidates = append(candidates, mid.Add(p.rng.Intn(11)-5, p.rng.Intn(11)-5))
	}

	valid := candidates[:0]
	for _, cell := range candidates {
		if p.grid.InBounds(cell) && !p.grid.HasObstacle(cell) {
			valid = append(valid, cell)
		}
	}
	return valid
}

func unitCost(shared.Cell) int { return 1 }

func blockedCells(peers []Peer) map[shared.Cell]bool {
	blocked := make(map[shared.Cell]bool, len(peers))
	for _, peer := range peers {
		if peer.Cell != peer.Goal {
			blocked[peer.Cell] = true
		}
	}
	return blocked
}
