// Package robot implements the warehouse robot: a battery-powered agent
// that follows planned paths, picks up and delivers packages, queues at
// charging stations and resolves cell conflicts with its peers through a
// priority protocol.
package robot

import (
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// Battery and escalation defaults. Thresholds are percentages of capacity.
const (
	DefaultMaxBattery                = 100.0
	DefaultDrainRate                 = 1.0
	DefaultLowBatteryThreshold       = 30.0
	DefaultCriticalBatteryThreshold  = 20.0
	DefaultEmergencyBatteryThreshold = 10.0
	DefaultPriority                  = 1

	// chargeExitFraction ends charging once the battery reaches this share
	// of capacity; topping up the last few percent is not worth the slot.
	chargeExitFraction = 0.95

	// batterySafetyMargin pads feasibility estimates by 10%
	batterySafetyMargin = 0.1

	// EmergencyPriority is the arbitration priority granted to robots in
	// emergency charge mode
	EmergencyPriority = 20

	// desperationPct switches station selection to nearest-first and wins
	// collision arbitration outright
	desperationPct = 8.0

	// flagClearPct is the battery level above which critical flags reset
	flagClearPct = 15.0

	maxBlockedBeforeReroute = 3
	stuckPriorityThreshold  = 5
	stuckRerouteThreshold   = 10
	stuckResetThreshold     = 20
	nearStationStuckTicks   = 3

	cooldownTicks           = 5
	alternativeHistoryLimit = 3
	maxRouteProbes          = 5

	nearStationRadius      = 3
	feasibilityShortSteps  = 20
	feasibilityShortPct    = 40.0
	feasibilityMediumSteps = 40
	feasibilityMediumPct   = 60.0
	repairStationPct       = 40.0
)

// Config carries per-robot tuning. Zero values fall back to defaults;
// BatteryLevel nil means a full battery.
type Config struct {
	MaxBattery                float64
	BatteryLevel              *float64
	BatteryDrainRate          float64
	EnergySavingDrainRate     float64
	LowBatteryThreshold       float64
	CriticalBatteryThreshold  float64
	EmergencyBatteryThreshold float64
	Color                     string
	Idle                      bool
	Priority                  int
}

// ApplyDefaults fills unset fields in place
func (c *Config) ApplyDefaults() {
	if c.MaxBattery == 0 {
		c.MaxBattery = DefaultMaxBattery
	}
	if c.BatteryDrainRate == 0 {
		c.BatteryDrainRate = DefaultDrainRate
	}
	if c.EnergySavingDrainRate == 0 {
		c.EnergySavingDrainRate = c.BatteryDrainRate / 2
	}
	if c.LowBatteryThreshold == 0 {
		c.LowBatteryThreshold = DefaultLowBatteryThreshold
	}
	if c.CriticalBatteryThreshold == 0 {
		c.CriticalBatteryThreshold = DefaultCriticalBatteryThreshold
	}
	if c.EmergencyBatteryThreshold == 0 {
		c.EmergencyBatteryThreshold = DefaultEmergencyBatteryThreshold
	}
	if c.Color == "" {
		c.Color = "red"
	}
	if c.Priority == 0 {
		c.Priority = DefaultPriority
	}
}

// Robot is a single warehouse agent
type Robot struct {
	id    int
	home  shared.Cell
	goal  shared.Cell
	pos   shared.Cell
	path  []shared.Cell
	color string

	battery                   *shared.Battery
	drainRate                 float64
	energySavingRate          float64
	lowBatteryThreshold       float64
	criticalBatteryThreshold  float64
	emergencyBatteryThreshold float64

	idle           bool
	reachedGoal    bool
	halted         bool
	energySaving   bool
	stepsTaken     int
	totalDelivered int
	priority       int

	pkg *parcel.Package

	charging         bool
	waitingForCharge bool
	headingToStation bool
	justCharged      bool
	chargeCooldown   int
	returningToTask  bool
	targetStation    *station.ChargingStation

	criticalBattery bool
	emergencyRoute  bool

	blockedCount           int
	waitingTime            int
	positionUnchangedCount int
	lastPosition           shared.Cell
	alternativePathsTried  [][]shared.Cell

	collisionCount int
	rerouteCount   int
	resetCount     int
}

// NewRobot creates a robot standing at start with the given goal.
// The initial path is set by the model once the robot is on the grid.
func NewRobot(id int, start, goal shared.Cell, cfg Config) (*Robot, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "must be positive")
	}
	cfg.ApplyDefaults()

	level := cfg.MaxBattery
	if cfg.BatteryLevel != nil {
		level = *cfg.BatteryLevel
	}
	battery, err := shared.NewBattery(level, cfg.MaxBattery)
	if err != nil {
		return nil, err
	}

	// Idle robots carry no plan; working robots start with the trivial
	// single-cell path until the model hands them a route.
	var path []shared.Cell
	if !cfg.Idle {
		path = []shared.Cell{start}
	}

	return &Robot{
		id:                        id,
		home:                      start,
		goal:                      goal,
		pos:                       start,
		path:                      path,
		color:                     cfg.Color,
		battery:                   battery,
		drainRate:                 cfg.BatteryDrainRate,
		energySavingRate:          cfg.EnergySavingDrainRate,
		lowBatteryThreshold:       cfg.LowBatteryThreshold,
		criticalBatteryThreshold:  cfg.CriticalBatteryThreshold,
		emergencyBatteryThreshold: cfg.EmergencyBatteryThreshold,
		idle:                      cfg.Idle,
		priority:                  cfg.Priority,
		lastPosition:              start,
	}, nil
}

// ID returns the robot's identifier
func (r *Robot) ID() int { return r.id }

// Home returns the cell the robot was created on
func (r *Robot) Home() shared.Cell { return r.home }

// Goal returns the robot's current goal cell
func (r *Robot) Goal() shared.Cell { return r.goal }

// Position returns the robot's current cell
func (r *Robot) Position() shared.Cell { return r.pos }

// Color returns the robot's display tag
func (r *Robot) Color() string { return r.color }

// Path returns a copy of the remaining planned route
func (r *Robot) Path() []shared.Cell {
	path := make([]shared.Cell, len(r.path))
	copy(path, r.path)
	return path
}

// StepsLeft returns how many moves remain on the current plan
func (r *Robot) StepsLeft() int {
	if len(r.path) < 2 {
		return 0
	}
	return len(r.path) - 1
}

// StepsTaken returns the number of committed moves over the robot's life
func (r *Robot) StepsTaken() int { return r.stepsTaken }

// TotalDelivered returns how many packages this robot has delivered
func (r *Robot) TotalDelivered() int { return r.totalDelivered }

// Priority returns the collision arbitration priority
func (r *Robot) Priority() int { return r.priority }

// Battery returns the current battery state
func (r *Robot) Battery() *shared.Battery { return r.battery }

// BatteryPercentage returns charge as a percentage of capacity
func (r *Robot) BatteryPercentage() float64 { return r.battery.Percentage() }

// Idle reports whether the robot is parked without work
func (r *Robot) Idle() bool { return r.idle }

// ReachedGoal reports whether the robot is standing on its goal
func (r *Robot) ReachedGoal() bool { return r.reachedGoal }

// Halted reports whether the battery ran out for good
func (r *Robot) Halted() bool { return r.halted }

// Charging reports whether the robot holds a station slot
func (r *Robot) Charging() bool { return r.charging }

// WaitingForCharge reports whether the robot holds a queue reservation
func (r *Robot) WaitingForCharge() bool { return r.waitingForCharge }

// HeadingToStation reports whether the current path targets a station
func (r *Robot) HeadingToStation() bool { return r.headingToStation }

// TargetStation returns the station the robot is bound to, if any
func (r *Robot) TargetStation() *station.ChargingStation { return r.targetStation }

// ReturningToTask reports whether the robot is coming back from a charge
func (r *Robot) ReturningToTask() bool { return r.returningToTask }

// CriticalBattery reports whether the emergency flags are raised
func (r *Robot) CriticalBattery() bool { return r.criticalBattery }

// EmergencyRoute reports whether the current path ignores peers
func (r *Robot) EmergencyRoute() bool { return r.emergencyRoute }

// EnergySavingMode reports whether the reduced drain rate is in effect
func (r *Robot) EnergySavingMode() bool { return r.energySaving }

// JustCharged reports whether the post-charge cooldown is running
func (r *Robot) JustCharged() bool { return r.justCharged }

// PositionUnchangedCount returns how many ticks the robot has been stuck
func (r *Robot) PositionUnchangedCount() int { return r.positionUnchangedCount }

// BlockedCount returns how many consecutive ticks the robot has waited
// out a peer on its next cell
func (r *Robot) BlockedCount() int { return r.blockedCount }

// WaitingTime returns the ticks spent waiting on contested cells
func (r *Robot) WaitingTime() int { return r.waitingTime }

// CollisionCount returns how many ticks the robot has spent yielding a
// contested cell over its lifetime. Unlike BlockedCount it never resets.
func (r *Robot) CollisionCount() int { return r.collisionCount }

// RerouteCount returns how many alternative routes the robot has committed
func (r *Robot) RerouteCount() int { return r.rerouteCount }

// ResetCount returns how many deadlock resets the robot has gone through
func (r *Robot) ResetCount() int { return r.resetCount }

// CarryingPackage returns the robot's current package, if any
func (r *Robot) CarryingPackage() *parcel.Package { return r.pkg }

// IsCarrying reports whether a picked package is on board
func (r *Robot) IsCarrying() bool {
	return r.pkg != nil && r.pkg.Status() == parcel.StatusPicked
}

// HasTask reports whether the robot is working a package
func (r *Robot) HasTask() bool { return r.pkg != nil }

// IsAvailableForTask reports whether the robot can accept an assignment
func (r *Robot) IsAvailableForTask() bool {
	return !r.halted && r.idle && !r.charging && !r.waitingForCharge && r.pkg == nil
}

// AssignTask hands the robot a package and the route to its pickup cell
func (r *Robot) AssignTask(pkg *parcel.Package, path []shared.Cell) {
	r.pkg = pkg
	r.goal = pkg.Pickup()
	r.path = path
	r.idle = false
	r.reachedGoal = false
	r.returningToTask = false
}

// ChangeGoal points the robot at a new goal with a fresh route
func (r *Robot) ChangeGoal(goal shared.Cell, path []shared.Cell) {
	r.goal = goal
	r.path = path
	r.idle = false
	r.reachedGoal = false
	r.returningToTask = false
}

// SetPath replaces the committed route
func (r *Robot) SetPath(path []shared.Cell) {
	r.path = path
}

// RaisePriority bumps arbitration priority by delta. Priority never decays.
func (r *Robot) RaisePriority(delta int) {
	r.priority += delta
}

func (r *Robot) String() string {
	return fmt.Sprintf("Robot(%d, %s, battery=%.1f%%)", r.id, r.pos, r.battery.Percentage())
}

// CurrentDestination is where the active plan should end: the bound
// station while charging logistics are in play, then the package's next
// stop, then the plain goal.
func (r *Robot) CurrentDestination() shared.Cell {
	if (r.headingToStation || r.waitingForCharge) && r.targetStation != nil {
		return r.targetStation.Cell()
	}
	if r.pkg != nil {
		return r.pkg.Destination()
	}
	return r.goal
}

// fullReset is the last-resort deadlock escape: drop everything, free the
// package back to the waiting pool, leave every station structure and
// become idle in place. Priority is deliberately kept.
func (r *Robot) fullReset(w World) {
	if r.pkg != nil {
		// Revert only fails for delivered packages, which never reach here
		_ = r.pkg.Revert()
		r.pkg = nil
	}
	for _, s := range w.Stations() {
		s.Dequeue(r.id)
	}

	r.charging = false
	r.waitingForCharge = false
	r.headingToStation = false
	r.targetStation = nil
	r.justCharged = false
	r.chargeCooldown = 0
	r.returningToTask = false
	r.criticalBattery = false
	r.emergencyRoute = false

	r.blockedCount = 0
	r.waitingTime = 0
	r.positionUnchangedCount = 0
	r.alternativePathsTried = nil

	r.idle = true
	r.reachedGoal = false
	r.goal = r.pos
	r.path = nil
	r.resetCount++
}
