package robot

import (
	"slices"
	"sort"

	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// handleNoProgress runs when the tick produced no committed move.
// blocked reports that a peer holds the next cell, as opposed to the
// robot having no plan at all.
func (r *Robot) handleNoProgress(w World, blocked bool) {
	searched := false
	if blocked {
		r.collisionCount++
		peer, ok := w.RobotAt(r.path[1])
		if ok && r.winsCollisionAgainst(peer) && r.blockedCount < maxBlockedBeforeReroute {
			// Hold position and let the peer clear the cell
			r.blockedCount++
			r.waitingTime++
		} else {
			r.tryAlternativeRoutes(w)
			searched = true
		}
	}

	if r.pos == r.lastPosition {
		r.positionUnchangedCount++
	} else {
		r.positionUnchangedCount = 0
		r.lastPosition = r.pos
	}
	if r.positionUnchangedCount > stuckPriorityThreshold {
		r.priority++
	}
	if r.positionUnchangedCount > stuckRerouteThreshold && !searched {
		r.tryAlternativeRoutes(w)
	}

	r.recoverNearStation(w)
}

// ForceReroute runs the alternative-route search outside the robot's
// own step, for a supervisor that notices the robot going nowhere.
func (r *Robot) ForceReroute(w World) bool {
	if r.halted || r.charging {
		return false
	}
	return r.tryAlternativeRoutes(w)
}

// winsCollisionAgainst decides who yields when two robots contest a
// cell. The winner holds position; the loser reroutes on its own step.
func (r *Robot) winsCollisionAgainst(peer *Robot) bool {
	selfUrgent := r.criticalBattery || r.battery.Percentage() < desperationPct
	peerUrgent := peer.criticalBattery || peer.battery.Percentage() < desperationPct
	if selfUrgent != peerUrgent {
		return selfUrgent
	}

	selfLow := r.headingToStation && r.battery.Percentage() < r.criticalBatteryThreshold
	peerLow := peer.headingToStation && peer.battery.Percentage() < peer.criticalBatteryThreshold
	if selfLow != peerLow {
		return selfLow
	}

	if r.headingToStation && peer.headingToStation {
		selfFraction := r.battery.Level / r.battery.Capacity
		peerFraction := peer.battery.Level / peer.battery.Capacity
		if selfFraction != peerFraction {
			return selfFraction < peerFraction
		}
	}

	if r.IsCarrying() != peer.IsCarrying() {
		return r.IsCarrying()
	}
	if r.priority != peer.priority {
		return r.priority > peer.priority
	}
	return r.id < peer.id
}

// tryAlternativeRoutes looks for a plan that differs from the current
// one and from every recently tried alternative. The robot does not
// move in the tick that found the route.
func (r *Robot) tryAlternativeRoutes(w World) bool {
	dest := r.CurrentDestination()
	if dest == r.pos {
		return false
	}
	peers := w.Peers(r.id)
	planner := w.Planner()

	multiplier := 1
	if r.criticalBattery {
		multiplier = 2
	}

	candidates := [][]shared.Cell{
		planner.FindPath(r.pos, dest, peers),
		planner.FindPathPenalized(r.pos, dest, peers, multiplier),
		planner.FindPathWithDetour(r.pos, dest, peers),
	}
	for _, candidate := range candidates {
		if r.acceptAlternative(candidate) {
			return true
		}
	}

	for _, probe := range r.probeCells(w) {
		if probe == r.pos || probe == dest {
			continue
		}
		if r.acceptAlternative(planner.FindPathVia(r.pos, probe, dest, peers)) {
			return true
		}
	}
	return false
}

// acceptAlternative commits a candidate plan unless it repeats the
// current path or a recent one.
func (r *Robot) acceptAlternative(candidate []shared.Cell) bool {
	if len(candidate) < 2 {
		return false
	}
	if slices.Equal(candidate, r.path) {
		return false
	}
	for _, tried := range r.alternativePathsTried {
		if slices.Equal(candidate, tried) {
			return false
		}
	}

	r.path = candidate
	r.alternativePathsTried = append(r.alternativePathsTried, slices.Clone(candidate))
	if len(r.alternativePathsTried) > alternativeHistoryLimit {
		r.alternativePathsTried = r.alternativePathsTried[1:]
	}
	r.blockedCount = 0
	r.waitingTime = 0
	r.rerouteCount++
	return true
}

// probeCells yields intermediate waypoints for desperate replans: cells
// beside known chargers when the battery is critical, random free cells
// otherwise.
func (r *Robot) probeCells(w World) []shared.Cell {
	if r.criticalBattery {
		var cells []shared.Cell
		for _, st := range w.Stations() {
			for _, n := range st.Cell().Neighbors4() {
				if w.Grid().InBounds(n) && !w.Grid().HasObstacle(n) {
					cells = append(cells, n)
					if len(cells) == maxRouteProbes {
						return cells
					}
				}
			}
		}
		return cells
	}

	var cells []shared.Cell
	for i := 0; i < maxRouteProbes; i++ {
		if c, ok := w.Planner().RandomFreeCell(); ok {
			cells = append(cells, c)
		}
	}
	return cells
}

// recoverNearStation breaks standoffs around a crowded charger: a robot
// stuck within sight of its target station gives up its spot and tries
// another charger, or parks beside this one as a last resort.
func (r *Robot) recoverNearStation(w World) {
	if !r.waitingForCharge || r.targetStation == nil {
		return
	}
	if r.pos.ManhattanTo(r.targetStation.Cell()) > nearStationRadius {
		return
	}
	if r.positionUnchangedCount < nearStationStuckTicks {
		return
	}

	origin := r.targetStation
	origin.Dequeue(r.id)
	r.targetStation = nil
	r.waitingForCharge = false
	r.headingToStation = false

	if r.divertToStation(w, origin) {
		return
	}
	if r.battery.Percentage() < desperationPct {
		r.parkBeside(w, origin)
	}
}

// parkBeside routes the robot to the closest free cell touching the
// station so it is in position once the queue clears. The emergency
// override picks the robot up from there on a later tick.
func (r *Robot) parkBeside(w World, st *station.ChargingStation) {
	center := st.Cell()
	var candidates []shared.Cell
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := center.Add(dx, dy)
			if w.Grid().InBounds(c) && !w.Grid().HasObstacle(c) {
				candidates = append(candidates, c)
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return r.pos.ManhattanTo(candidates[i]) < r.pos.ManhattanTo(candidates[j])
	})

	for _, c := range candidates {
		if c == r.pos {
			return
		}
		if path := w.Planner().FindPath(r.pos, c, w.Peers(r.id)); len(path) >= 2 {
			r.path = path
			return
		}
	}
}
