package warehouse_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

func newModel(t *testing.T, width, height int) *warehouse.Model {
	t.Helper()
	m, err := warehouse.New(width, height, warehouse.Config{Seed: 1})
	require.NoError(t, err)
	return m
}

func floatPtr(v float64) *float64 { return &v }

func cell(x, y int) shared.Cell { return shared.NewCell(x, y) }

func TestNew_RejectsBadDimensions(t *testing.T) {
	_, err := warehouse.New(0, 5, warehouse.Config{})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = warehouse.New(5, -1, warehouse.Config{})
	require.ErrorAs(t, err, &vErr)
}

func TestAddRobot_AssignsSequentialIDs(t *testing.T) {
	m := newModel(t, 10, 10)

	r1, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	r2, err := m.AddRobot(cell(5, 5), cell(5, 5), robot.Config{Idle: true})
	require.NoError(t, err)

	assert.Equal(t, 1, r1.ID())
	assert.Equal(t, 2, r2.ID())
	assert.Len(t, m.Robots(), 2)

	got, ok := m.RobotByID(2)
	require.True(t, ok)
	assert.Same(t, r2, got)
	_, ok = m.RobotByID(99)
	assert.False(t, ok)
}

func TestAddRobot_PlansInitialRouteForTaskedRobot(t *testing.T) {
	m := newModel(t, 10, 10)

	r, err := m.AddRobot(cell(0, 0), cell(3, 0), robot.Config{})
	require.NoError(t, err)

	assert.Equal(t, []shared.Cell{cell(0, 0), cell(1, 0), cell(2, 0), cell(3, 0)}, r.Path())

	idle, err := m.AddRobot(cell(9, 9), cell(9, 9), robot.Config{Idle: true})
	require.NoError(t, err)
	assert.Empty(t, idle.Path())
}

func TestAddRobot_RejectsBadPlacement(t *testing.T) {
	m := newModel(t, 10, 10)
	_, err := m.AddObstacle(cell(4, 4))
	require.NoError(t, err)
	_, err = m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)

	var conflict *shared.PlacementConflictError

	_, err = m.AddRobot(cell(4, 4), cell(5, 5), robot.Config{})
	require.ErrorAs(t, err, &conflict, "start on obstacle")

	_, err = m.AddRobot(cell(0, 0), cell(5, 5), robot.Config{})
	require.ErrorAs(t, err, &conflict, "start already occupied")

	_, err = m.AddRobot(cell(1, 1), cell(4, 4), robot.Config{})
	require.ErrorAs(t, err, &conflict, "goal on obstacle")

	_, err = m.AddRobot(cell(1, 1), cell(20, 20), robot.Config{})
	require.ErrorAs(t, err, &conflict, "goal outside grid")

	assert.Len(t, m.Robots(), 1)
}

func TestAddStation_Validation(t *testing.T) {
	m := newModel(t, 10, 10)
	_, err := m.AddObstacle(cell(2, 2))
	require.NoError(t, err)

	st, err := m.AddStation(cell(5, 5), 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, st.ChargingRate(), "non-positive rate falls back to default")

	var conflict *shared.PlacementConflictError
	_, err = m.AddStation(cell(5, 5), 10)
	require.ErrorAs(t, err, &conflict, "duplicate station")
	_, err = m.AddStation(cell(2, 2), 10)
	require.ErrorAs(t, err, &conflict, "station on obstacle")

	var vErr *shared.ValidationError
	_, err = m.AddStation(cell(50, 50), 10)
	require.ErrorAs(t, err, &vErr)

	assert.Len(t, m.Stations(), 1)
}

func TestAddObstacle_RejectsReservedCells(t *testing.T) {
	m := newModel(t, 10, 10)
	_, err := m.AddRobot(cell(0, 0), cell(9, 0), robot.Config{})
	require.NoError(t, err)
	_, err = m.AddStation(cell(5, 5), 10)
	require.NoError(t, err)

	var conflict *shared.PlacementConflictError

	_, err = m.AddObstacle(cell(0, 0))
	require.ErrorAs(t, err, &conflict, "robot home")
	_, err = m.AddObstacle(cell(9, 0))
	require.ErrorAs(t, err, &conflict, "robot goal")
	_, err = m.AddObstacle(cell(5, 5))
	require.ErrorAs(t, err, &conflict, "station cell")

	_, err = m.AddObstacle(cell(3, 3))
	require.NoError(t, err)
	_, err = m.AddObstacle(cell(3, 3))
	require.ErrorAs(t, err, &conflict, "duplicate obstacle")

	var vErr *shared.ValidationError
	_, err = m.AddObstacle(cell(-1, 3))
	require.ErrorAs(t, err, &vErr)
}

func TestAddObstacle_RollsBackWhenRobotWouldBeStranded(t *testing.T) {
	// A single-file corridor: blocking any interior cell cuts the only
	// route to the goal.
	m := newModel(t, 4, 1)
	r, err := m.AddRobot(cell(0, 0), cell(3, 0), robot.Config{})
	require.NoError(t, err)
	original := r.Path()
	require.Len(t, original, 4)

	replanned, err := m.AddObstacle(cell(1, 0))

	var unreachable *shared.UnreachableGoalError
	require.ErrorAs(t, err, &unreachable)
	assert.Nil(t, replanned)
	assert.False(t, m.Grid().HasObstacle(cell(1, 0)), "placement rolled back")
	assert.Equal(t, original, r.Path(), "prior route restored")
}

func TestRemoveObstacle_RoundTrip(t *testing.T) {
	m := newModel(t, 10, 10)

	_, err := m.AddObstacle(cell(4, 4))
	require.NoError(t, err)
	require.True(t, m.Grid().HasObstacle(cell(4, 4)))

	require.NoError(t, m.RemoveObstacle(cell(4, 4)))
	assert.False(t, m.Grid().HasObstacle(cell(4, 4)))
	assert.Empty(t, m.Grid().Obstacles())

	var conflict *shared.PlacementConflictError
	assert.ErrorAs(t, m.RemoveObstacle(cell(4, 4)), &conflict, "nothing left to remove")

	var vErr *shared.ValidationError
	assert.ErrorAs(t, m.RemoveObstacle(cell(40, 4)), &vErr)
}

func TestChangeGoal_PlansRoute(t *testing.T) {
	m := newModel(t, 10, 10)
	r, err := m.AddRobot(cell(2, 2), cell(2, 2), robot.Config{Idle: true})
	require.NoError(t, err)

	path, err := m.ChangeGoal(r.ID(), cell(2, 6))

	require.NoError(t, err)
	assert.Len(t, path, 5)
	assert.Equal(t, cell(2, 6), r.Goal())
	assert.Equal(t, path, r.Path())
	assert.False(t, r.Idle())
}

func TestChangeGoal_UnreachableGoalLeavesRobotUntouched(t *testing.T) {
	m := newModel(t, 5, 5)
	// Wall off the rightmost column before the robot goes in.
	for y := 0; y < 5; y++ {
		_, err := m.AddObstacle(cell(3, y))
		require.NoError(t, err)
	}
	r, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)

	_, err = m.ChangeGoal(r.ID(), cell(4, 0))

	var unreachable *shared.UnreachableGoalError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, cell(0, 0), r.Goal())
	assert.True(t, r.Idle())
	assert.Empty(t, r.Path())

	var notFound *shared.NotFoundError
	_, err = m.ChangeGoal(42, cell(1, 1))
	require.ErrorAs(t, err, &notFound)

	var vErr *shared.ValidationError
	_, err = m.ChangeGoal(r.ID(), cell(9, 9))
	require.ErrorAs(t, err, &vErr)

	var conflict *shared.PlacementConflictError
	_, err = m.ChangeGoal(r.ID(), cell(3, 2))
	require.ErrorAs(t, err, &conflict)
}

func TestCreatePackage_Validation(t *testing.T) {
	m := newModel(t, 10, 10)

	p1, err := m.CreatePackage(cell(1, 1), cell(8, 8))
	require.NoError(t, err)
	p2, err := m.CreatePackage(cell(2, 2), cell(7, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, p1.ID())
	assert.Equal(t, 2, p2.ID())
	assert.Equal(t, parcel.StatusWaiting, p1.Status())

	var vErr *shared.ValidationError
	_, err = m.CreatePackage(cell(20, 1), cell(8, 8))
	require.ErrorAs(t, err, &vErr)
	_, err = m.CreatePackage(cell(1, 1), cell(1, 1))
	require.ErrorAs(t, err, &vErr, "pickup and delivery must differ")

	assert.Len(t, m.Packages(), 2)
	assert.Len(t, m.WaitingPackages(), 2)
}

func TestCreateRandomPackage_DrawsFromPools(t *testing.T) {
	m := newModel(t, 10, 10)

	_, err := m.CreateRandomPackage()
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr, "no pools configured")

	m.SetPools([]shared.Cell{cell(0, 0), cell(1, 0)}, []shared.Cell{cell(9, 9), cell(8, 9)})
	pkgs, err := m.CreatePackages(20)
	require.NoError(t, err)
	require.Len(t, pkgs, 20)
	for _, p := range pkgs {
		assert.Contains(t, m.PickupPool(), p.Pickup())
		assert.Contains(t, m.DeliveryPool(), p.Delivery())
		assert.NotEqual(t, p.Pickup(), p.Delivery())
	}

	_, err = m.CreatePackages(-1)
	require.ErrorAs(t, err, &vErr)
}

func TestCreateRandomPackage_AvoidsPickupDeliveryClash(t *testing.T) {
	m := newModel(t, 10, 10)
	bay := cell(4, 4)

	// Single-cell pools that overlap can never produce a distinct pair.
	m.SetPools([]shared.Cell{bay}, []shared.Cell{bay})
	_, err := m.CreateRandomPackage()
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)

	// With a second delivery cell the clash resolves to the distinct one.
	m.SetPools([]shared.Cell{bay}, []shared.Cell{bay, cell(5, 5)})
	for i := 0; i < 10; i++ {
		p, err := m.CreateRandomPackage()
		require.NoError(t, err)
		assert.Equal(t, cell(5, 5), p.Delivery())
	}
}

func TestAssignPackage_Validation(t *testing.T) {
	m := newModel(t, 10, 10)
	r1, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	r2, err := m.AddRobot(cell(9, 9), cell(9, 9), robot.Config{Idle: true})
	require.NoError(t, err)
	p1, err := m.CreatePackage(cell(3, 0), cell(3, 5))
	require.NoError(t, err)

	var notFound *shared.NotFoundError
	require.ErrorAs(t, m.AssignPackage(42, r1.ID()), &notFound)
	require.ErrorAs(t, m.AssignPackage(p1.ID(), 42), &notFound)

	require.NoError(t, m.AssignPackage(p1.ID(), r1.ID()))
	assert.Equal(t, parcel.StatusAssigned, p1.Status())
	assignee, ok := p1.AssignedRobot()
	require.True(t, ok)
	assert.Equal(t, r1.ID(), assignee)
	assert.Equal(t, cell(3, 0), r1.Goal())
	assert.False(t, r1.Idle())

	var invalid *shared.InvalidAssignmentError
	require.ErrorAs(t, m.AssignPackage(p1.ID(), r2.ID()), &invalid, "package no longer waiting")

	p2, err := m.CreatePackage(cell(5, 5), cell(6, 6))
	require.NoError(t, err)
	require.ErrorAs(t, m.AssignPackage(p2.ID(), r1.ID()), &invalid, "robot already tasked")
}

func TestAssignPackage_UnreachablePickupKeepsBothAvailable(t *testing.T) {
	m := newModel(t, 7, 3)
	// Seal off the rightmost column so its cells are unreachable.
	for y := 0; y < 3; y++ {
		_, err := m.AddObstacle(cell(5, y))
		require.NoError(t, err)
	}
	r, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	p, err := m.CreatePackage(cell(6, 1), cell(0, 2))
	require.NoError(t, err)

	err = m.AssignPackage(p.ID(), r.ID())

	var unreachable *shared.UnreachableGoalError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, parcel.StatusWaiting, p.Status())
	assert.True(t, r.IsAvailableForTask())
}

func TestAssignWaitingPackages_PairsInInsertionOrder(t *testing.T) {
	m := newModel(t, 7, 3)
	for y := 0; y < 3; y++ {
		_, err := m.AddObstacle(cell(5, y))
		require.NoError(t, err)
	}
	r1, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	r2, err := m.AddRobot(cell(0, 2), cell(0, 2), robot.Config{Idle: true})
	require.NoError(t, err)
	// First package is trapped behind the wall, second is in the open.
	p1, err := m.CreatePackage(cell(6, 1), cell(0, 1))
	require.NoError(t, err)
	p2, err := m.CreatePackage(cell(2, 0), cell(2, 2))
	require.NoError(t, err)

	made := m.AssignWaitingPackages()

	// Pairing is positional: the failed first pair is skipped this round
	// rather than sliding its package down to the next free robot.
	require.Equal(t, []warehouse.Assignment{{PackageID: p2.ID(), RobotID: r2.ID()}}, made)
	assert.Equal(t, parcel.StatusWaiting, p1.Status())
	assert.True(t, r1.IsAvailableForTask())
	assert.Equal(t, parcel.StatusAssigned, p2.Status())
}

func TestStep_PickupAndDelivery(t *testing.T) {
	// One robot, one package, an out-of-the-way station. The run is fully
	// deterministic: five moves to the pickup, nine more to the delivery.
	m := newModel(t, 10, 10)
	_, err := m.AddStation(cell(9, 9), 10)
	require.NoError(t, err)
	r, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	p, err := m.CreatePackage(cell(5, 0), cell(5, 9))
	require.NoError(t, err)
	require.NoError(t, m.AssignPackage(p.ID(), r.ID()))

	deliveries := 0
	for i := 0; i < 14; i++ {
		deliveries += m.Step().Deliveries
	}

	assert.Equal(t, 1, deliveries)
	assert.Equal(t, parcel.StatusDelivered, p.Status())
	assert.Equal(t, cell(5, 9), r.Position())
	assert.True(t, r.Idle())
	assert.Equal(t, 14, r.StepsTaken())
	assert.InDelta(t, 86.0, r.Battery().Level, 1e-9)
	assert.Equal(t, 1, r.TotalDelivered())
	assert.Equal(t, 1, m.TotalDelivered())
	assert.Empty(t, m.ActivePackages())
	assert.Equal(t, 14, m.CurrentTick())

	require.NotNil(t, p.PickedTick())
	require.NotNil(t, p.DeliveredTick())
	assert.Equal(t, 4, *p.PickedTick())
	assert.Equal(t, 13, *p.DeliveredTick())
	duration, ok := p.DeliveryDuration()
	require.True(t, ok)
	assert.Equal(t, 9, duration)

	stats, ok := m.DeliveredPackageStats()
	require.True(t, ok)
	assert.Equal(t, 9.0, stats.Average)
	assert.Equal(t, 9, stats.Min)
	assert.Equal(t, 9, stats.Max)

	samples := m.Stats().Samples()
	require.Len(t, samples, 14)
	assert.Equal(t, 0, samples[0].Tick)
	assert.InDelta(t, 100.0, samples[0].AverageBattery, 1e-9)
	assert.Equal(t, 13, samples[13].Tick)
	assert.InDelta(t, 87.0, samples[13].AverageBattery, 1e-9)
}

func TestStep_AutoAssignsWaitingPackages(t *testing.T) {
	m := newModel(t, 10, 10)
	r, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	p, err := m.CreatePackage(cell(5, 0), cell(5, 9))
	require.NoError(t, err)

	first := m.Step()

	// The pairing round runs at the end of the tick, so the very first
	// step hands the package over; movement starts on the next one.
	require.Equal(t, []warehouse.Assignment{{PackageID: p.ID(), RobotID: r.ID()}}, first.Assignments)
	assert.Equal(t, parcel.StatusAssigned, p.Status())
	assert.Equal(t, cell(0, 0), r.Position())

	var last warehouse.StepSummary
	for i := 0; i < 14; i++ {
		last = m.Step()
	}

	assert.Equal(t, 1, last.Deliveries)
	assert.Equal(t, parcel.StatusDelivered, p.Status())
	assert.True(t, r.Idle())
	assert.InDelta(t, 86.0, r.Battery().Level, 1e-9)
	duration, ok := p.DeliveryDuration()
	require.True(t, ok)
	assert.Equal(t, 9, duration)
}

func TestStep_ObstacleForcesReplan(t *testing.T) {
	m := newModel(t, 10, 10)
	r, err := m.AddRobot(cell(0, 5), cell(9, 5), robot.Config{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		m.Step()
	}
	require.Equal(t, cell(3, 5), r.Position())

	replanned, err := m.AddObstacle(cell(4, 5))
	require.NoError(t, err)

	detour := []shared.Cell{
		cell(3, 5), cell(3, 4), cell(4, 4), cell(5, 4),
		cell(5, 5), cell(6, 5), cell(7, 5), cell(8, 5), cell(9, 5),
	}
	assert.Equal(t, map[int][]shared.Cell{r.ID(): detour}, replanned)
	assert.Equal(t, detour, r.Path())

	for i := 0; i < 8; i++ {
		m.Step()
	}

	assert.Equal(t, cell(9, 5), r.Position())
	assert.True(t, r.ReachedGoal())
	assert.Equal(t, 11, r.StepsTaken())
	assert.InDelta(t, 89.0, r.Battery().Level, 1e-9)
	assert.Equal(t, 11, m.CurrentTick())
}

func TestStep_HeadOnRobotsNeverShareACell(t *testing.T) {
	// Two robots swap ends of the same row. The id tiebreak lets the
	// first one hold its line while the second detours around it.
	m := newModel(t, 5, 5)
	r1, err := m.AddRobot(cell(0, 2), cell(4, 2), robot.Config{})
	require.NoError(t, err)
	r2, err := m.AddRobot(cell(4, 2), cell(0, 2), robot.Config{})
	require.NoError(t, err)

	leftRow := false
	for i := 0; i < 8; i++ {
		m.Step()
		assert.NotEqual(t, r1.Position(), r2.Position(), "tick %d", i+1)
		if r2.Position().Y != 2 {
			leftRow = true
		}
	}

	assert.Equal(t, cell(4, 2), r1.Position())
	assert.Equal(t, cell(0, 2), r2.Position())
	assert.True(t, r1.ReachedGoal())
	assert.True(t, r2.ReachedGoal())
	assert.Equal(t, 4, r1.StepsTaken(), "winner keeps the straight line")
	assert.Equal(t, 6, r2.StepsTaken(), "loser pays for the detour")
	assert.True(t, leftRow, "the diverted robot leaves the contested row")
	assert.GreaterOrEqual(t, r2.RerouteCount(), 1)
	assert.GreaterOrEqual(t, r1.CollisionCount(), 1)
}

func TestStep_BatteryDetourRechargesAndResumes(t *testing.T) {
	// The committed route is far longer than the charge at hand, so the
	// first tick is spent diverting to the station. The robot crawls in
	// at 14.5%, charges to full, steps off and finishes the crossing.
	m := newModel(t, 20, 20)
	st, err := m.AddStation(cell(10, 10), 10)
	require.NoError(t, err)
	r, err := m.AddRobot(cell(0, 0), cell(19, 19), robot.Config{
		BatteryLevel:     floatPtr(30),
		BatteryDrainRate: 1,
	})
	require.NoError(t, err)
	require.Len(t, r.Path(), 39)

	m.Step()
	assert.True(t, r.WaitingForCharge())
	assert.True(t, r.HeadingToStation())
	assert.True(t, st.Contains(r.ID()))
	assert.Equal(t, cell(0, 0), r.Position(), "diversion consumes the tick")

	sawCharging := false
	ticks := 1
	for ; ticks < 60 && !r.ReachedGoal(); ticks++ {
		m.Step()
		if r.Charging() {
			sawCharging = true
		}
	}

	assert.True(t, sawCharging)
	assert.Equal(t, 47, ticks)
	assert.Equal(t, cell(19, 19), r.Position())
	assert.Equal(t, 38, r.StepsTaken())
	assert.InDelta(t, 83.0, r.Battery().Level, 1e-9)
	assert.False(t, r.Charging())
	assert.Equal(t, 0, st.Occupation())
}

func TestStep_ChargeQueueHandsOverInOrder(t *testing.T) {
	// Both robots hit the low-battery sweep on the first tick and queue
	// at the only station in id order. The first one takes the slot; the
	// second holds one cell out until the slot frees, then rolls on and
	// charges in the same tick.
	m := newModel(t, 11, 11)
	st, err := m.AddStation(cell(5, 5), 10)
	require.NoError(t, err)
	r1, err := m.AddRobot(cell(5, 4), cell(5, 4), robot.Config{
		BatteryLevel:     floatPtr(10),
		BatteryDrainRate: 1,
		Idle:             true,
	})
	require.NoError(t, err)
	r2, err := m.AddRobot(cell(5, 6), cell(5, 6), robot.Config{
		BatteryLevel:     floatPtr(10),
		BatteryDrainRate: 1,
		Idle:             true,
	})
	require.NoError(t, err)

	first := m.Step()
	assert.True(t, r1.Charging())
	assert.False(t, r2.Charging())
	assert.True(t, r2.WaitingForCharge())
	assert.Equal(t, 1, first.CollisionWaits)
	holder, ok := st.SlotHolder()
	require.True(t, ok)
	assert.Equal(t, r1.ID(), holder)

	handover := 0
	for tick := 2; tick <= 15; tick++ {
		m.Step()
		require.False(t, r1.Charging() && r2.Charging(), "slot is exclusive")
		if r2.Charging() {
			handover = tick
			break
		}
	}

	require.Equal(t, 10, handover, "second robot charges the tick the first finishes")
	assert.False(t, r1.Charging())
	assert.True(t, r1.ReachedGoal())
	assert.GreaterOrEqual(t, r1.Battery().Level, 95.0)

	for tick := handover + 1; tick <= handover+12 && !r2.ReachedGoal(); tick++ {
		m.Step()
	}

	assert.True(t, r2.ReachedGoal())
	assert.Equal(t, cell(5, 6), r2.Position())
	assert.GreaterOrEqual(t, r2.Battery().Level, 95.0)
	assert.Equal(t, 0, st.Occupation())
	assert.Equal(t, 0, st.QueueLength())
}

func TestStep_DeadlockResetRecovers(t *testing.T) {
	// Two obstacles squeeze the grid into one corridor, and the robots
	// are tasked straight at each other inside it. Nothing lighter can
	// move them, so the stall counter runs up to the hard reset.
	m := newModel(t, 3, 3)
	_, err := m.AddObstacle(cell(0, 1))
	require.NoError(t, err)
	_, err = m.AddObstacle(cell(1, 1))
	require.NoError(t, err)
	r1, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	r2, err := m.AddRobot(cell(2, 2), cell(2, 2), robot.Config{Idle: true})
	require.NoError(t, err)
	p1, err := m.CreatePackage(cell(2, 2), cell(0, 2))
	require.NoError(t, err)
	p2, err := m.CreatePackage(cell(1, 0), cell(0, 2))
	require.NoError(t, err)
	require.NoError(t, m.AssignPackage(p1.ID(), r1.ID()))
	require.NoError(t, m.AssignPackage(p2.ID(), r2.ID()))

	resets := 0
	for i := 0; i < 22; i++ {
		resets += m.Step().DeadlockResets
	}
	require.Equal(t, 0, resets, "no reset before the stall threshold")
	assert.Equal(t, cell(2, 0), r1.Position())
	assert.Equal(t, cell(2, 1), r2.Position())

	// The second robot lost one more tick to the face-off, so its stall
	// counter crosses the threshold first.
	summary := m.Step()
	require.Equal(t, 1, summary.DeadlockResets)
	assert.Equal(t, 1, r2.ResetCount())
	assert.True(t, r2.Idle())
	assert.Nil(t, r2.CarryingPackage())
	assert.Equal(t, parcel.StatusWaiting, p2.Status())
	assert.Equal(t, 0, r2.PositionUnchangedCount())

	summary = m.Step()
	require.Equal(t, 1, summary.DeadlockResets)
	assert.Equal(t, 1, r1.ResetCount())
	assert.Equal(t, 0, r1.PositionUnchangedCount())
	assert.Greater(t, r1.Priority(), robot.DefaultPriority, "duress raises are kept")

	// The pairing round inside the same tick re-issues the freed package
	// to the now idle robot, so recovery and re-dispatch are one motion.
	require.Equal(t, []warehouse.Assignment{{PackageID: p1.ID(), RobotID: r1.ID()}}, summary.Assignments)
	assert.Equal(t, parcel.StatusAssigned, p1.Status())
}

func TestStep_LowBatterySweepSendsIdleRobotToCharge(t *testing.T) {
	m := newModel(t, 7, 7)
	_, err := m.AddStation(cell(3, 3), 10)
	require.NoError(t, err)
	r, err := m.AddRobot(cell(3, 1), cell(3, 1), robot.Config{
		BatteryLevel: floatPtr(12),
		Idle:         true,
	})
	require.NoError(t, err)

	m.Step()
	assert.True(t, r.WaitingForCharge())
	assert.True(t, r.HeadingToStation())
	assert.False(t, r.Idle())

	m.Step()
	assert.True(t, r.Charging())
	assert.Equal(t, cell(3, 3), r.Position())

	for i := 0; i < 12 && !r.ReachedGoal(); i++ {
		m.Step()
	}

	assert.True(t, r.Idle())
	assert.True(t, r.ReachedGoal())
	assert.Equal(t, cell(3, 1), r.Position(), "returns to where it was parked")
	assert.GreaterOrEqual(t, r.Battery().Level, 99.0)
}

func TestStep_ReportsBatteryDepletion(t *testing.T) {
	m := newModel(t, 6, 1)
	r, err := m.AddRobot(cell(0, 0), cell(5, 0), robot.Config{
		BatteryLevel:     floatPtr(2),
		BatteryDrainRate: 1,
	})
	require.NoError(t, err)

	depletions := 0
	for i := 0; i < 4; i++ {
		depletions += m.Step().Depletions
	}

	assert.Equal(t, 1, depletions)
	assert.True(t, r.Halted())
	assert.Equal(t, cell(3, 0), r.Position())
	assert.Equal(t, 3, r.StepsTaken())
	assert.InDelta(t, 0.0, r.Battery().Level, 1e-9)

	// A drained robot is inert: stepping it again changes nothing.
	summary := m.Step()
	assert.Zero(t, summary.Depletions)
	assert.Equal(t, cell(3, 0), r.Position())
	assert.Equal(t, 3, r.StepsTaken())
}

func TestExportPaths_Format(t *testing.T) {
	m := newModel(t, 6, 6)
	_, err := m.AddRobot(cell(0, 0), cell(3, 0), robot.Config{})
	require.NoError(t, err)
	_, err = m.AddRobot(cell(5, 5), cell(5, 5), robot.Config{Idle: true})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, m.ExportPaths(&buf))

	// One x line and one y line per robot, blank line between robots.
	// Idle robots with no plan export empty lines.
	want := "0,1,2,3\n0,0,0,0\n\n\n\n"
	assert.Equal(t, want, buf.String())
}

func TestExportFilename_UsesClock(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC))
	m, err := warehouse.New(5, 5, warehouse.Config{Seed: 1, Clock: clock})
	require.NoError(t, err)

	assert.Equal(t, "TargetPositions_20250301_123456.txt", m.ExportFilename())
}

func TestStats_SamplesFleetAverages(t *testing.T) {
	m := newModel(t, 10, 10)
	_, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	_, err = m.AddRobot(cell(9, 9), cell(9, 9), robot.Config{
		BatteryLevel: floatPtr(50),
		Idle:         true,
	})
	require.NoError(t, err)
	_, err = m.CreatePackage(cell(1, 1), cell(2, 2))
	require.NoError(t, err)

	m.Step()

	sample, ok := m.Stats().Latest()
	require.True(t, ok)
	assert.Equal(t, 0, sample.Tick)
	assert.InDelta(t, 75.0, sample.AverageBattery, 1e-9)
	assert.InDelta(t, 0.0, sample.AverageSteps, 1e-9)
	assert.Equal(t, 0, sample.RobotsAtGoal)
	assert.Equal(t, 1, sample.WaitingPackages)
	assert.Equal(t, 1, sample.ActivePackages)

	_, ok = m.DeliveredPackageStats()
	assert.False(t, ok, "no deliveries yet")
}

func TestDefaultLayout_FloorPlan(t *testing.T) {
	l := warehouse.DefaultLayout()

	assert.Equal(t, 40, l.Width)
	assert.Equal(t, 22, l.Height)
	assert.Len(t, l.Stations, 6)
	assert.Len(t, l.Robots, 6)
	assert.Len(t, l.PickupPool, 6)
	assert.Len(t, l.DeliveryPool, 42)
	assert.Equal(t, 2000, l.InitialPackages)

	obstacles := make(map[shared.Cell]bool, len(l.Obstacles))
	for _, c := range l.Obstacles {
		require.False(t, obstacles[c], "duplicate obstacle %s", c)
		obstacles[c] = true
	}
	assert.Len(t, obstacles, 124)

	for _, st := range l.Stations {
		assert.Equal(t, 10.0, st.ChargingRate)
		assert.False(t, obstacles[st.Cell], "station %s on obstacle", st.Cell)
	}
	for _, r := range l.Robots {
		assert.True(t, r.Config.Idle)
		assert.Equal(t, 0.5, r.Config.BatteryDrainRate)
		assert.Equal(t, r.Start, r.Goal, "stock robots start parked")
		assert.False(t, obstacles[r.Start], "robot home %s on obstacle", r.Start)
		assert.NotEmpty(t, r.Config.Color)
	}
	for _, c := range l.PickupPool {
		assert.False(t, obstacles[c], "truck bay %s on obstacle", c)
	}
	for _, c := range l.DeliveryPool {
		assert.False(t, obstacles[c], "delivery cell %s on obstacle", c)
	}
}

func TestNewFromLayout_BuildsStockWarehouse(t *testing.T) {
	l := warehouse.DefaultLayout()
	m, err := warehouse.NewFromLayout(l, warehouse.Config{Seed: 7})
	require.NoError(t, err)

	assert.Len(t, m.Robots(), 6)
	assert.Len(t, m.Stations(), 6)
	assert.Len(t, m.Grid().Obstacles(), 124)
	for _, spec := range l.Robots {
		r, ok := m.RobotAt(spec.Start)
		require.True(t, ok, "robot missing at %s", spec.Start)
		assert.Equal(t, spec.Config.Color, r.Color())
	}

	pkgs, err := m.CreatePackages(l.InitialPackages)
	require.NoError(t, err)
	require.Len(t, pkgs, 2000)
	assert.Len(t, m.WaitingPackages(), 2000)

	for i := 0; i < 150; i++ {
		m.Step()
	}

	assert.Equal(t, 150, m.CurrentTick())
	assert.Len(t, m.Stats().Samples(), 150)
	moved := 0
	for _, r := range m.Robots() {
		assert.False(t, r.Halted(), "robot %d drained", r.ID())
		if r.StepsTaken() > 0 {
			moved++
		}
	}
	assert.Greater(t, moved, 0, "fleet is in motion")
	assert.Equal(t, 2000, m.TotalDelivered()+len(m.ActivePackages()))
}
