package robot

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// drainForMove charges the battery cost of one tick of motion. Below the
// critical threshold the reduced energy-saving rate applies.
func (r *Robot) drainForMove() {
	rate := r.drainRate
	if r.battery.Percentage() < r.criticalBatteryThreshold {
		rate = r.energySavingRate
		r.energySaving = true
	} else {
		r.energySaving = false
	}
	if next, err := r.battery.Drain(rate); err == nil {
		r.battery = next
	}
}

// EnterEmergencyCharge forces the robot onto the nearest station with a
// peer-ignoring route. Fired by the robot's own low-battery override and
// by the model's health sweep.
func (r *Robot) EnterEmergencyCharge(w World) bool {
	if r.halted || r.charging || r.waitingForCharge {
		return false
	}
	nearest, _, ok := nearestStationTo(w, r.pos)
	if !ok {
		return false
	}

	if r.priority < EmergencyPriority {
		r.priority = EmergencyPriority
	}
	r.criticalBattery = true
	r.emergencyRoute = true

	path := w.Planner().FindPathEmergency(r.pos, nearest.Cell())
	if len(path) == 0 {
		path = []shared.Cell{r.pos}
	}
	nearest.Enqueue(r.id)
	r.targetStation = nearest
	r.waitingForCharge = true
	r.headingToStation = true
	r.idle = false
	r.reachedGoal = false
	r.path = path
	return true
}

// ensureBatteryForPlan diverts to a charger when the committed route
// cannot be finished on the charge at hand. Returns true when the tick
// was spent on the diversion.
func (r *Robot) ensureBatteryForPlan(w World) bool {
	if r.charging || r.waitingForCharge || r.justCharged {
		return false
	}
	if len(r.path) < 2 {
		return false
	}
	if len(w.Stations()) == 0 {
		return false
	}
	if r.planIsFeasible(w) {
		return false
	}
	return r.divertToStation(w, nil)
}

// planIsFeasible estimates whether the battery covers the remaining
// route plus the trip from its end to the nearest charger.
func (r *Robot) planIsFeasible(w World) bool {
	if _, dist, ok := nearestStationTo(w, r.pos); ok && dist <= nearStationRadius {
		return true
	}

	remaining := len(r.path) - 1
	pct := r.battery.Percentage()
	if remaining < feasibilityShortSteps && pct > feasibilityShortPct {
		return true
	}
	if remaining < feasibilityMediumSteps && pct > feasibilityMediumPct {
		return true
	}

	if pct <= r.lowBatteryThreshold {
		return false
	}
	dest := r.path[len(r.path)-1]
	_, fromDest, ok := nearestStationTo(w, dest)
	if !ok {
		return true
	}
	return r.battery.CanTravel(remaining+fromDest, r.drainRate, batterySafetyMargin)
}

// divertToStation picks a charger, reserves a queue spot and routes to
// it. exclude removes one station from consideration.
func (r *Robot) divertToStation(w World, exclude *station.ChargingStation) bool {
	st := r.selectStation(w, exclude)
	if st == nil {
		return false
	}
	st.Enqueue(r.id)
	r.targetStation = st
	r.waitingForCharge = true
	r.headingToStation = true
	r.idle = false
	r.reachedGoal = false

	peers := w.Peers(r.id)
	path := w.Planner().FindPath(r.pos, st.Cell(), peers)
	if len(path) == 0 {
		path = w.Planner().FindPathPenalized(r.pos, st.Cell(), peers, 1)
	}
	if len(path) == 0 {
		path = []shared.Cell{r.pos}
	}
	r.path = path
	return true
}

// selectStation ranks stations by reachability, then occupation, then
// occupation plus distance. Ties keep the earliest station. Below the
// desperation threshold queue sizes stop mattering and the nearest
// reachable station wins, or the nearest outright when none is.
func (r *Robot) selectStation(w World, exclude *station.ChargingStation) *station.ChargingStation {
	var candidates []*station.ChargingStation
	for _, st := range w.Stations() {
		if st != exclude {
			candidates = append(candidates, st)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if r.battery.Percentage() < desperationPct {
		var nearest, nearestReachable *station.ChargingStation
		var dNearest, dReachable int
		for _, st := range candidates {
			d := r.pos.ManhattanTo(st.Cell())
			if nearest == nil || d < dNearest {
				nearest, dNearest = st, d
			}
			if r.canReach(st) && (nearestReachable == nil || d < dReachable) {
				nearestReachable, dReachable = st, d
			}
		}
		if nearestReachable != nil {
			return nearestReachable
		}
		return nearest
	}

	best := candidates[0]
	for _, st := range candidates[1:] {
		if r.stationRanksBetter(st, best) {
			best = st
		}
	}
	return best
}

func (r *Robot) stationRanksBetter(a, b *station.ChargingStation) bool {
	aReach, bReach := r.canReach(a), r.canReach(b)
	if aReach != bReach {
		return aReach
	}
	if a.Occupation() != b.Occupation() {
		return a.Occupation() < b.Occupation()
	}
	aCost := a.Occupation() + r.pos.ManhattanTo(a.Cell())
	bCost := b.Occupation() + r.pos.ManhattanTo(b.Cell())
	return aCost < bCost
}

func (r *Robot) canReach(st *station.ChargingStation) bool {
	return r.battery.CanTravel(r.pos.ManhattanTo(st.Cell()), r.drainRate, batterySafetyMargin)
}

func nearestStationTo(w World, from shared.Cell) (*station.ChargingStation, int, bool) {
	stations := w.Stations()
	if len(stations) == 0 {
		return nil, 0, false
	}
	best := stations[0]
	bestDist := from.ManhattanTo(best.Cell())
	for _, st := range stations[1:] {
		if d := from.ManhattanTo(st.Cell()); d < bestDist {
			best, bestDist = st, d
		}
	}
	return best, bestDist, true
}
