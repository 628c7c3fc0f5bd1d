// Package warehouse ties the domain together. A Model owns the grid, the
// planner, the robot fleet, the charging stations and the package pool,
// and advances the whole simulation one tick at a time.
package warehouse

import (
	"fmt"
	"math/rand"

	"github.com/andrescamacho/gridfleet-go/internal/domain/grid"
	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/planning"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// Supervision thresholds for the per-tick health sweep.
const (
	sweepBatteryPct    = 15.0
	sweepStuckTicks    = 10
	sweepPriorityBoost = 5
)

// Config carries model-wide knobs that are not part of the floor plan.
// A zero Seed derives one from the clock, so fixed-seed runs must set it.
type Config struct {
	Seed  int64
	Clock shared.Clock
}

// Model is the simulation aggregate. It implements robot.World, so robots
// stepping inside it see the same grid, planner and peer set the model
// operations use.
type Model struct {
	grid    *grid.Grid
	planner *planning.Planner

	robots     []*robot.Robot
	robotsByID map[int]*robot.Robot
	stations   []*station.ChargingStation

	packages     []*parcel.Package
	packagesByID map[int]*parcel.Package

	pickupPool   []shared.Cell
	deliveryPool []shared.Cell

	nextRobotID   int
	nextPackageID int
	tick          int

	rng   *rand.Rand
	stats *StatsCollector
	clock shared.Clock
}

// New creates an empty model of the given dimensions
func New(width, height int, cfg Config) (*Model, error) {
	g, err := grid.NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}

	return &Model{
		grid:          g,
		planner:       planning.NewPlanner(g, seed),
		robotsByID:    make(map[int]*robot.Robot),
		packagesByID:  make(map[int]*parcel.Package),
		nextRobotID:   1,
		nextPackageID: 1,
		rng:           rand.New(rand.NewSource(seed)),
		stats:         NewStatsCollector(),
		clock:         clock,
	}, nil
}

// NewFromLayout builds a model and populates it from a floor plan.
// Stations and robots go in before obstacles, mirroring the order the
// placement rules assume. Initial packages are the caller's business:
// the layout only records how many the stock setup wants.
func NewFromLayout(l Layout, cfg Config) (*Model, error) {
	m, err := New(l.Width, l.Height, cfg)
	if err != nil {
		return nil, err
	}
	for _, spec := range l.Stations {
		if _, err := m.AddStation(spec.Cell, spec.ChargingRate); err != nil {
			return nil, err
		}
	}
	for _, spec := range l.Robots {
		if _, err := m.AddRobot(spec.Start, spec.Goal, spec.Config); err != nil {
			return nil, err
		}
	}
	for _, cell := range l.Obstacles {
		if _, err := m.AddObstacle(cell); err != nil {
			return nil, err
		}
	}
	m.SetPools(l.PickupPool, l.DeliveryPool)
	return m, nil
}

// Grid exposes the floor for planning and occupancy checks
func (m *Model) Grid() *grid.Grid { return m.grid }

// Planner exposes the route searches robots run
func (m *Model) Planner() *planning.Planner { return m.planner }

// Stations lists every charging station in placement order
func (m *Model) Stations() []*station.ChargingStation { return m.stations }

// CurrentTick returns the number of completed steps
func (m *Model) CurrentTick() int { return m.tick }

// Peers snapshots every robot except the one asking
func (m *Model) Peers(excludeID int) []planning.Peer {
	peers := make([]planning.Peer, 0, len(m.robots))
	for _, r := range m.robots {
		if r.ID() == excludeID {
			continue
		}
		peers = append(peers, planning.Peer{ID: r.ID(), Cell: r.Position(), Goal: r.Goal()})
	}
	return peers
}

// RobotAt resolves the robot occupying a cell, if any
func (m *Model) RobotAt(cell shared.Cell) (*robot.Robot, bool) {
	id, ok := m.grid.RobotAt(cell)
	if !ok {
		return nil, false
	}
	r, ok := m.robotsByID[id]
	return r, ok
}

// Robots lists the fleet in insertion order
func (m *Model) Robots() []*robot.Robot { return m.robots }

// RobotByID resolves a robot by its identifier
func (m *Model) RobotByID(id int) (*robot.Robot, bool) {
	r, ok := m.robotsByID[id]
	return r, ok
}

// Packages lists every package ever created, in id order
func (m *Model) Packages() []*parcel.Package { return m.packages }

// PackageByID resolves a package by its identifier
func (m *Model) PackageByID(id int) (*parcel.Package, bool) {
	p, ok := m.packagesByID[id]
	return p, ok
}

// ActivePackages lists packages still in play (anything not delivered)
func (m *Model) ActivePackages() []*parcel.Package {
	var active []*parcel.Package
	for _, p := range m.packages {
		if p.Status() != parcel.StatusDelivered {
			active = append(active, p)
		}
	}
	return active
}

// DeliveredPackages lists completed packages in id order
func (m *Model) DeliveredPackages() []*parcel.Package {
	var delivered []*parcel.Package
	for _, p := range m.packages {
		if p.Status() == parcel.StatusDelivered {
			delivered = append(delivered, p)
		}
	}
	return delivered
}

// WaitingPackages lists unassigned packages in id order
func (m *Model) WaitingPackages() []*parcel.Package {
	var waiting []*parcel.Package
	for _, p := range m.packages {
		if p.Status() == parcel.StatusWaiting {
			waiting = append(waiting, p)
		}
	}
	return waiting
}

// TotalDelivered counts completed deliveries
func (m *Model) TotalDelivered() int {
	return len(m.DeliveredPackages())
}

// SetPools installs the cells random packages draw pickups and
// deliveries from
func (m *Model) SetPools(pickup, delivery []shared.Cell) {
	m.pickupPool = pickup
	m.deliveryPool = delivery
}

// PickupPool returns the truck cells packages spawn at
func (m *Model) PickupPool() []shared.Cell { return m.pickupPool }

// DeliveryPool returns the cells packages get delivered to
func (m *Model) DeliveryPool() []shared.Cell { return m.deliveryPool }

// Stats returns the per-tick sample history
func (m *Model) Stats() *StatsCollector { return m.stats }

// AddRobot places a new robot and returns it. A non-idle robot with a
// distinct goal gets its first route planned immediately; if no route
// exists the robot still goes in and plans again on its first step.
func (m *Model) AddRobot(start, goal shared.Cell, cfg robot.Config) (*robot.Robot, error) {
	if !m.grid.InBounds(goal) {
		return nil, shared.NewPlacementConflictError(goal, "outside grid bounds")
	}
	if m.grid.HasObstacle(goal) {
		return nil, shared.NewPlacementConflictError(goal, "cell is an obstacle")
	}

	r, err := robot.NewRobot(m.nextRobotID, start, goal, cfg)
	if err != nil {
		return nil, err
	}
	if err := m.grid.PlaceRobot(r.ID(), start); err != nil {
		return nil, err
	}
	m.nextRobotID++
	m.robots = append(m.robots, r)
	m.robotsByID[r.ID()] = r

	if !r.Idle() && start != goal {
		if path := m.planner.FindPath(start, goal, m.Peers(r.ID())); len(path) > 1 {
			r.SetPath(path)
		}
	}
	return r, nil
}

// AddStation places a charging station. A non-positive rate falls back
// to the default.
func (m *Model) AddStation(cell shared.Cell, rate float64) (*station.ChargingStation, error) {
	if !m.grid.InBounds(cell) {
		return nil, shared.NewValidationError("cell", fmt.Sprintf("%s is outside the grid", cell))
	}
	if m.grid.HasObstacle(cell) {
		return nil, shared.NewPlacementConflictError(cell, "cell is an obstacle")
	}
	for _, st := range m.stations {
		if st.Cell() == cell {
			return nil, shared.NewPlacementConflictError(cell, "charging station already present")
		}
	}
	if rate <= 0 {
		rate = station.DefaultChargingRate
	}

	st, err := station.New(cell, rate)
	if err != nil {
		return nil, err
	}
	m.stations = append(m.stations, st)
	return st, nil
}

// AddObstacle blocks a cell and replans every robot with a route in
// progress. If any of them would be stranded the placement is rolled
// back, prior routes included, and the stranding robot's destination is
// reported. Returns the new route per replanned robot id.
func (m *Model) AddObstacle(cell shared.Cell) (map[int][]shared.Cell, error) {
	if !m.grid.InBounds(cell) {
		return nil, shared.NewValidationError("cell", fmt.Sprintf("%s is outside the grid", cell))
	}
	for _, r := range m.robots {
		if cell == r.Home() || cell == r.Goal() {
			return nil, shared.NewPlacementConflictError(cell, fmt.Sprintf("reserved by robot %d", r.ID()))
		}
	}
	for _, st := range m.stations {
		if cell == st.Cell() {
			return nil, shared.NewPlacementConflictError(cell, "charging station")
		}
	}
	if err := m.grid.AddObstacle(cell); err != nil {
		return nil, err
	}

	prior := make(map[int][]shared.Cell)
	replanned := make(map[int][]shared.Cell)
	for _, r := range m.robots {
		if r.Halted() || r.ReachedGoal() || len(r.Path()) == 0 {
			continue
		}
		prior[r.ID()] = r.Path()
		dest := r.CurrentDestination()
		path := m.planner.FindPath(r.Position(), dest, m.Peers(r.ID()))
		if len(path) == 0 {
			_ = m.grid.RemoveObstacle(cell)
			for id, p := range prior {
				m.robotsByID[id].SetPath(p)
			}
			return nil, shared.NewUnreachableGoalError(r.Position(), dest)
		}
		r.SetPath(path)
		replanned[r.ID()] = path
	}
	return replanned, nil
}

// RemoveObstacle frees a blocked cell. Robots are not replanned; their
// next replan shortens routes naturally.
func (m *Model) RemoveObstacle(cell shared.Cell) error {
	if !m.grid.InBounds(cell) {
		return shared.NewValidationError("cell", fmt.Sprintf("%s is outside the grid", cell))
	}
	return m.grid.RemoveObstacle(cell)
}

// ChangeGoal points a robot at a new goal. The route is planned before
// anything mutates, so an unreachable goal leaves the robot as it was.
func (m *Model) ChangeGoal(robotID int, goal shared.Cell) ([]shared.Cell, error) {
	r, ok := m.robotsByID[robotID]
	if !ok {
		return nil, shared.NewNotFoundError("robot", robotID)
	}
	if !m.grid.InBounds(goal) {
		return nil, shared.NewValidationError("goal", fmt.Sprintf("%s is outside the grid", goal))
	}
	if m.grid.HasObstacle(goal) {
		return nil, shared.NewPlacementConflictError(goal, "cell is an obstacle")
	}

	path := m.planner.FindPath(r.Position(), goal, m.Peers(robotID))
	if len(path) == 0 {
		return nil, shared.NewUnreachableGoalError(r.Position(), goal)
	}
	r.ChangeGoal(goal, path)
	return path, nil
}

// CreatePackage registers a delivery job between two cells
func (m *Model) CreatePackage(pickup, delivery shared.Cell) (*parcel.Package, error) {
	if !m.grid.InBounds(pickup) {
		return nil, shared.NewValidationError("pickup", fmt.Sprintf("%s is outside the grid", pickup))
	}
	if !m.grid.InBounds(delivery) {
		return nil, shared.NewValidationError("delivery", fmt.Sprintf("%s is outside the grid", delivery))
	}

	pkg, err := parcel.New(m.nextPackageID, pickup, delivery, m.tick)
	if err != nil {
		return nil, err
	}
	m.nextPackageID++
	m.packages = append(m.packages, pkg)
	m.packagesByID[pkg.ID()] = pkg
	return pkg, nil
}

// CreateRandomPackage draws a pickup and a delivery cell from the pools
func (m *Model) CreateRandomPackage() (*parcel.Package, error) {
	if len(m.pickupPool) == 0 || len(m.deliveryPool) == 0 {
		return nil, shared.NewValidationError("pools", "no pickup or delivery cells configured")
	}
	pickup := m.pickupPool[m.rng.Intn(len(m.pickupPool))]
	delivery := m.deliveryPool[m.rng.Intn(len(m.deliveryPool))]
	if delivery == pickup {
		for _, c := range m.deliveryPool {
			if c != pickup {
				delivery = c
				break
			}
		}
		if delivery == pickup {
			return nil, shared.NewValidationError("pools", "delivery pool offers no cell distinct from pickup")
		}
	}
	return m.CreatePackage(pickup, delivery)
}

// CreatePackages registers count random packages and returns them
func (m *Model) CreatePackages(count int) ([]*parcel.Package, error) {
	if count < 0 {
		return nil, shared.NewValidationError("count", "must not be negative")
	}
	created := make([]*parcel.Package, 0, count)
	for i := 0; i < count; i++ {
		pkg, err := m.CreateRandomPackage()
		if err != nil {
			return created, err
		}
		created = append(created, pkg)
	}
	return created, nil
}

// AssignPackage hands a waiting package to an idle robot. The route to
// the pickup is planned first; when no route exists nothing changes and
// both stay available.
func (m *Model) AssignPackage(packageID, robotID int) error {
	pkg, ok := m.packagesByID[packageID]
	if !ok {
		return shared.NewNotFoundError("package", packageID)
	}
	r, ok := m.robotsByID[robotID]
	if !ok {
		return shared.NewNotFoundError("robot", robotID)
	}
	if pkg.Status() != parcel.StatusWaiting {
		return shared.NewInvalidAssignmentError(
			fmt.Sprintf("package %d is %s, not waiting", packageID, pkg.Status()), robotID, packageID)
	}
	if !r.IsAvailableForTask() {
		return shared.NewInvalidAssignmentError(
			fmt.Sprintf("robot %d is not available for a task", robotID), robotID, packageID)
	}

	path := m.planner.FindPath(r.Position(), pkg.Pickup(), m.Peers(robotID))
	if len(path) == 0 {
		return shared.NewUnreachableGoalError(r.Position(), pkg.Pickup())
	}
	if err := pkg.Assign(robotID, m.tick); err != nil {
		return err
	}
	r.AssignTask(pkg, path)
	return nil
}

// Assignment records one package handed to one robot during a pairing round.
type Assignment struct {
	PackageID int
	RobotID   int
}

// AssignWaitingPackages pairs waiting packages with free robots, oldest
// package to the robot added first. A pair whose pickup is unreachable
// is skipped this round and retried on a later one.
func (m *Model) AssignWaitingPackages() []Assignment {
	waiting := m.WaitingPackages()
	var free []*robot.Robot
	for _, r := range m.robots {
		if r.IsAvailableForTask() {
			free = append(free, r)
		}
	}

	var made []Assignment
	n := min(len(waiting), len(free))
	for i := 0; i < n; i++ {
		if err := m.AssignPackage(waiting[i].ID(), free[i].ID()); err != nil {
			continue
		}
		made = append(made, Assignment{PackageID: waiting[i].ID(), RobotID: free[i].ID()})
	}
	return made
}

// AllRobotsReachedGoal reports whether every robot rests at its goal
func (m *Model) AllRobotsReachedGoal() bool {
	for _, r := range m.robots {
		if !r.ReachedGoal() {
			return false
		}
	}
	return true
}

// StepSummary reports what one tick changed, for callers that log or
// meter the simulation. Tick counts completed steps, so the first step
// reports 1.
type StepSummary struct {
	Tick           int
	Deliveries     int
	Depletions     int
	DeadlockResets int
	CollisionWaits int
	Reroutes       int
	Assignments    []Assignment
	AllAtGoal      bool
}

// Step advances the simulation one tick: health sweep, stats sample,
// robot steps in insertion order, then a package pairing round.
func (m *Model) Step() StepSummary {
	type counters struct {
		delivered  int
		collisions int
		reroutes   int
		resets     int
		halted     bool
	}
	pre := make([]counters, len(m.robots))
	for i, r := range m.robots {
		pre[i] = counters{
			delivered:  r.TotalDelivered(),
			collisions: r.CollisionCount(),
			reroutes:   r.RerouteCount(),
			resets:     r.ResetCount(),
			halted:     r.Halted(),
		}
	}

	for _, r := range m.robots {
		if r.Halted() {
			continue
		}
		if r.BatteryPercentage() < sweepBatteryPct && !r.Charging() && !r.HeadingToStation() {
			r.EnterEmergencyCharge(m)
		}
		if r.PositionUnchangedCount() > sweepStuckTicks {
			r.ForceReroute(m)
			r.RaisePriority(sweepPriorityBoost)
		}
	}

	m.collectStats()

	for _, r := range m.robots {
		r.Step(m)
	}

	assignments := m.AssignWaitingPackages()
	m.tick++

	summary := StepSummary{
		Tick:        m.tick,
		Assignments: assignments,
		AllAtGoal:   m.AllRobotsReachedGoal(),
	}
	for i, r := range m.robots {
		summary.Deliveries += r.TotalDelivered() - pre[i].delivered
		summary.CollisionWaits += r.CollisionCount() - pre[i].collisions
		summary.Reroutes += r.RerouteCount() - pre[i].reroutes
		summary.DeadlockResets += r.ResetCount() - pre[i].resets
		if r.Halted() && !pre[i].halted {
			summary.Depletions++
		}
	}

	return summary
}
