package robot

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// Step advances the robot by one tick. Stages run in a fixed order and
// the first stage that fires owns the tick unless noted as pass-through.
func (r *Robot) Step(w World) {
	if r.halted {
		return
	}

	// Deadlock reset: nothing lighter has worked for this long, so drop
	// the task, leave every queue and start over in place.
	if r.positionUnchangedCount > stuckResetThreshold {
		r.fullReset(w)
		return
	}

	if r.repairChargeState(w) {
		return
	}

	if r.battery.Percentage() <= r.emergencyBatteryThreshold && r.EnterEmergencyCharge(w) {
		return
	}

	if r.idle {
		return
	}

	r.normalizeState()

	// Already standing on the package's next stop, e.g. assigned a
	// package whose pickup cell is the robot's own.
	if r.pkg != nil && r.pos == r.pkg.Destination() {
		r.handlePackageStop(w)
		return
	}

	if r.waitingForCharge && r.targetStation != nil && r.pos == r.targetStation.Cell() {
		r.attendStationQueue()
		return
	}

	if r.reachedGoal && r.pkg == nil {
		return
	}

	if r.charging {
		r.chargeTick(w)
		return
	}

	if r.justCharged {
		r.chargeCooldown++
		if r.chargeCooldown >= cooldownTicks {
			r.justCharged = false
			r.chargeCooldown = 0
		}
	}

	if r.ensureBatteryForPlan(w) {
		return
	}

	r.ensurePlan(w)

	r.advance(w)
}

// repairChargeState clears a charging flag that survived off the station
// cell, then sends the robot back to a charger when it is running low.
func (r *Robot) repairChargeState(w World) bool {
	if !r.charging {
		return false
	}
	for _, st := range w.Stations() {
		if st.Cell() == r.pos {
			return false
		}
	}

	for _, st := range w.Stations() {
		st.Dequeue(r.id)
	}
	r.charging = false
	r.waitingForCharge = false
	r.headingToStation = false
	r.targetStation = nil

	if r.battery.Percentage() < repairStationPct {
		r.divertToStation(w, nil)
	}
	return true
}

// normalizeState repairs plan and flag drift before the tick proper
func (r *Robot) normalizeState() {
	if len(r.path) == 0 || r.path[0] != r.pos {
		r.path = []shared.Cell{r.pos}
	}
	if r.charging {
		r.idle = false
		r.waitingForCharge = false
	}
	if (r.waitingForCharge || r.headingToStation) && r.targetStation == nil {
		r.waitingForCharge = false
		r.headingToStation = false
	}
	if r.battery.Percentage() > flagClearPct {
		r.criticalBattery = false
		r.emergencyRoute = false
	}
}

// handlePackageStop fires the pickup or delivery for the cell under the
// robot. Callers have already checked the position.
func (r *Robot) handlePackageStop(w World) {
	switch r.pkg.Status() {
	case parcel.StatusAssigned:
		r.performPickup(w)
	case parcel.StatusPicked:
		r.performDelivery(w)
	}
}

func (r *Robot) performPickup(w World) {
	if err := r.pkg.Pick(r.id, w.CurrentTick()); err != nil {
		return
	}
	r.priority++
	r.reachedGoal = false
	r.returningToTask = false
	r.goal = r.pkg.Delivery()

	// A robot that crosses the pickup cell on its way to a charger takes
	// the package along and resumes the delivery leg after charging.
	if r.charging || r.waitingForCharge || r.headingToStation {
		return
	}
	path := r.acquirePathLadder(w, r.goal)
	if len(path) < 2 {
		path = []shared.Cell{r.pos}
	}
	r.path = path
}

func (r *Robot) performDelivery(w World) {
	if err := r.pkg.Deliver(r.id, w.CurrentTick()); err != nil {
		return
	}
	r.totalDelivered++
	r.pkg = nil
	r.returningToTask = false

	if r.charging || r.waitingForCharge || r.headingToStation {
		return
	}
	r.becomeIdle()
}

// attendStationQueue runs while the robot stands on its target station
// cell: start charging when the slot opens, otherwise hold position.
func (r *Robot) attendStationQueue() {
	st := r.targetStation
	if !st.IsNextInQueue(r.id) {
		return
	}
	if err := st.StartCharging(r.id); err != nil {
		return
	}
	r.charging = true
	r.waitingForCharge = false
	r.headingToStation = false
	r.path = []shared.Cell{r.pos}
}

// chargeTick applies one tick of charge and leaves the station once the
// battery is close enough to full.
func (r *Robot) chargeTick(w World) {
	st := r.targetStation
	if st == nil {
		r.charging = false
		return
	}
	if next, err := r.battery.Charge(st.ChargingRate()); err == nil {
		r.battery = next
	}
	if r.battery.Level < chargeExitFraction*r.battery.Capacity {
		return
	}
	r.finishCharging(w, st)
}

func (r *Robot) finishCharging(w World, st *station.ChargingStation) {
	if err := st.FinishCharging(r.id); err != nil {
		st.Dequeue(r.id)
	}
	r.charging = false
	r.justCharged = true
	r.chargeCooldown = 0
	r.targetStation = nil
	r.criticalBattery = false
	r.emergencyRoute = false
	r.returningToTask = true

	dest := r.goal
	if r.pkg != nil {
		dest = r.pkg.Destination()
		r.goal = dest
	}
	if dest == r.pos {
		if r.pkg != nil {
			r.handlePackageStop(w)
		} else {
			r.arriveAtGoal()
		}
		return
	}

	path := r.acquirePathLadder(w, dest)
	if len(path) < 2 {
		if r.pkg != nil {
			_ = r.pkg.Revert()
			r.pkg = nil
		}
		r.becomeIdle()
		return
	}
	r.path = path

	// Step off the station cell right away so the next robot in the
	// queue is not blocked by a fully charged one.
	r.tryImmediateExit(w)
}

// tryImmediateExit commits the first move of a fresh plan in the same
// tick, without battery drain. Blocked exits fall back to arbitration
// on the following tick.
func (r *Robot) tryImmediateExit(w World) {
	next := r.path[1]
	if _, occupied := w.Grid().RobotAt(next); occupied {
		return
	}
	if err := w.Grid().MoveRobot(r.id, r.pos, next); err != nil {
		return
	}
	r.pos = next
	r.path = r.path[1:]
	r.stepsTaken++
	r.markProgress()
	r.detectArrival(w)
}

// ensurePlan tops up a missing route when the robot has somewhere to be
func (r *Robot) ensurePlan(w World) {
	if len(r.path) >= 2 {
		return
	}
	dest := r.CurrentDestination()
	if dest == r.pos {
		return
	}
	if path := r.acquirePathLadder(w, dest); len(path) >= 2 {
		r.path = path
	}
}

// acquirePathLadder plans with progressively looser searches: plain,
// then peer-penalized, then detour waypoints.
func (r *Robot) acquirePathLadder(w World, dest shared.Cell) []shared.Cell {
	peers := w.Peers(r.id)
	planner := w.Planner()
	if path := planner.FindPath(r.pos, dest, peers); len(path) > 0 {
		return path
	}
	if path := planner.FindPathPenalized(r.pos, dest, peers, 1); len(path) > 0 {
		return path
	}
	return planner.FindPathWithDetour(r.pos, dest, peers)
}

// advance pays the battery cost for the tick and commits the next cell
// of the plan when it is free of peers.
func (r *Robot) advance(w World) {
	if len(r.path) < 2 {
		r.handleNoProgress(w, false)
		return
	}

	r.drainForMove()
	if r.battery.IsDepleted() {
		r.halted = true
		r.path = []shared.Cell{r.pos}
		return
	}

	next := r.path[1]
	if _, occupied := w.Grid().RobotAt(next); occupied {
		r.handleNoProgress(w, true)
		return
	}
	if err := w.Grid().MoveRobot(r.id, r.pos, next); err != nil {
		r.handleNoProgress(w, true)
		return
	}
	r.pos = next
	r.path = r.path[1:]
	r.stepsTaken++
	r.markProgress()
	r.detectArrival(w)
}

func (r *Robot) markProgress() {
	r.positionUnchangedCount = 0
	r.blockedCount = 0
	r.lastPosition = r.pos
}

// detectArrival fires the effects of the cell just entered: joining a
// station queue, package stops, or the final goal. Station arrival is
// checked first so a charge errand is never pre-empted by a package
// cell that happens to lie on the way.
func (r *Robot) detectArrival(w World) {
	if r.waitingForCharge && r.targetStation != nil && r.pos == r.targetStation.Cell() {
		if r.targetStation.IsNextInQueue(r.id) {
			r.attendStationQueue()
		}
		return
	}
	if r.pkg != nil && r.pos == r.pkg.Destination() {
		r.handlePackageStop(w)
		return
	}
	if r.pkg == nil && !r.waitingForCharge && !r.headingToStation && r.pos == r.goal {
		r.arriveAtGoal()
	}
}

// arriveAtGoal parks the robot at its goal and returns it to the
// assignment pool.
func (r *Robot) arriveAtGoal() {
	r.reachedGoal = true
	r.returningToTask = false
	r.idle = true
	r.goal = r.pos
	r.path = nil
}

func (r *Robot) becomeIdle() {
	r.idle = true
	r.reachedGoal = false
	r.returningToTask = false
	r.goal = r.pos
	r.path = nil
}
