package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// maxScenarioTicks caps the run-until loops so a regression cannot hang
// the suite.
const maxScenarioTicks = 200

// floorContext drives the warehouse model directly, one floor per
// scenario. Every tick records the arbitration and charging invariants
// so the Then steps can assert over the whole run, not just the final
// state.
type floorContext struct {
	m *warehouse.Model

	deliveries int
	depletions int
	resets     int

	sharedCell bool
	slotShared bool
	charged    map[int]bool
	replans    map[int][]shared.Cell
}

func (fc *floorContext) reset() {
	fc.m = nil
	fc.deliveries = 0
	fc.depletions = 0
	fc.resets = 0
	fc.sharedCell = false
	fc.slotShared = false
	fc.charged = make(map[int]bool)
	fc.replans = nil
}

func (fc *floorContext) model() (*warehouse.Model, error) {
	if fc.m == nil {
		return nil, fmt.Errorf("no warehouse floor has been set up")
	}
	return fc.m, nil
}

func (fc *floorContext) robot(id int) (*robot.Robot, error) {
	m, err := fc.model()
	if err != nil {
		return nil, err
	}
	r, ok := m.RobotByID(id)
	if !ok {
		return nil, fmt.Errorf("robot %d does not exist", id)
	}
	return r, nil
}

func (fc *floorContext) pkg(id int) (*parcel.Package, error) {
	m, err := fc.model()
	if err != nil {
		return nil, err
	}
	p, ok := m.PackageByID(id)
	if !ok {
		return nil, fmt.Errorf("package %d does not exist", id)
	}
	return p, nil
}

func (fc *floorContext) station(x, y int) (*station.ChargingStation, error) {
	m, err := fc.model()
	if err != nil {
		return nil, err
	}
	cell := shared.NewCell(x, y)
	for _, st := range m.Stations() {
		if st.Cell() == cell {
			return st, nil
		}
	}
	return nil, fmt.Errorf("no charging station at %s", cell)
}

// stepOnce advances one tick and folds the summary into the running
// totals. The cross-tick invariants are checked here: no two robots on
// one cell, no station slot held by more than one robot.
func (fc *floorContext) stepOnce() error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	summary := m.Step()
	fc.deliveries += summary.Deliveries
	fc.depletions += summary.Depletions
	fc.resets += summary.DeadlockResets

	robots := m.Robots()
	for i := 0; i < len(robots); i++ {
		for j := i + 1; j < len(robots); j++ {
			if robots[i].Position() == robots[j].Position() {
				fc.sharedCell = true
			}
		}
	}
	chargingAt := make(map[shared.Cell]int)
	for _, r := range robots {
		if r.Charging() {
			fc.charged[r.ID()] = true
			chargingAt[r.Position()]++
		}
	}
	for _, n := range chargingAt {
		if n > 1 {
			fc.slotShared = true
		}
	}
	return nil
}

// Given steps

func (fc *floorContext) aWarehouseFloor(width, height int) error {
	m, err := warehouse.New(width, height, warehouse.Config{
		Seed:  1,
		Clock: shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		return err
	}
	fc.m = m
	return nil
}

func (fc *floorContext) aChargingStationAt(x, y int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	_, err = m.AddStation(shared.NewCell(x, y), station.DefaultChargingRate)
	return err
}

func (fc *floorContext) anObstacleAt(x, y int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	_, err = m.AddObstacle(shared.NewCell(x, y))
	return err
}

func (fc *floorContext) anIdleRobotAt(x, y int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	cell := shared.NewCell(x, y)
	_, err = m.AddRobot(cell, cell, robot.Config{Idle: true})
	return err
}

func (fc *floorContext) anIdleRobotAtWithBattery(x, y int, battery, drain float64) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	cell := shared.NewCell(x, y)
	_, err = m.AddRobot(cell, cell, robot.Config{
		BatteryLevel:     &battery,
		BatteryDrainRate: drain,
		Idle:             true,
	})
	return err
}

func (fc *floorContext) aRobotTaskedTo(x, y, goalX, goalY int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	_, err = m.AddRobot(shared.NewCell(x, y), shared.NewCell(goalX, goalY), robot.Config{})
	return err
}

func (fc *floorContext) aRobotTaskedToWithBattery(x, y, goalX, goalY int, battery, drain float64) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	_, err = m.AddRobot(shared.NewCell(x, y), shared.NewCell(goalX, goalY), robot.Config{
		BatteryLevel:     &battery,
		BatteryDrainRate: drain,
	})
	return err
}

func (fc *floorContext) aPackageWithPickupAndDelivery(px, py, dx, dy int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	_, err = m.CreatePackage(shared.NewCell(px, py), shared.NewCell(dx, dy))
	return err
}

func (fc *floorContext) packageIsAssignedToRobot(packageID, robotID int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	return m.AssignPackage(packageID, robotID)
}

// When steps

func (fc *floorContext) theSimulationAdvances(ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := fc.stepOnce(); err != nil {
			return err
		}
	}
	return nil
}

func (fc *floorContext) anObstacleIsPlacedAt(x, y int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	replans, err := m.AddObstacle(shared.NewCell(x, y))
	if err != nil {
		return err
	}
	fc.replans = replans
	return nil
}

func (fc *floorContext) theSimulationAdvancesUntilRobotReachesGoal(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	for i := 0; i < maxScenarioTicks; i++ {
		if r.ReachedGoal() {
			return nil
		}
		if err := fc.stepOnce(); err != nil {
			return err
		}
	}
	return fmt.Errorf("robot %d did not reach its goal within %d ticks", id, maxScenarioTicks)
}

func (fc *floorContext) theSimulationAdvancesUntilRobotIsCharging(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	for i := 0; i < maxScenarioTicks; i++ {
		if r.Charging() {
			return nil
		}
		if err := fc.stepOnce(); err != nil {
			return err
		}
	}
	return fmt.Errorf("robot %d did not start charging within %d ticks", id, maxScenarioTicks)
}

// Then steps

func (fc *floorContext) robotShouldBeAt(id, x, y int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	want := shared.NewCell(x, y)
	if r.Position() != want {
		return fmt.Errorf("expected robot %d at %s, got %s", id, want, r.Position())
	}
	return nil
}

func (fc *floorContext) robotShouldHaveTakenSteps(id, steps int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if r.StepsTaken() != steps {
		return fmt.Errorf("expected robot %d to have taken %d steps, got %d", id, steps, r.StepsTaken())
	}
	return nil
}

func (fc *floorContext) batteryShouldBe(id int, level float64) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if math.Abs(r.Battery().Level-level) > 1e-6 {
		return fmt.Errorf("expected robot %d battery %.2f, got %.2f", id, level, r.Battery().Level)
	}
	return nil
}

func (fc *floorContext) batteryShouldBeAtLeast(id int, level float64) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if r.Battery().Level < level {
		return fmt.Errorf("expected robot %d battery of at least %.2f, got %.2f", id, level, r.Battery().Level)
	}
	return nil
}

func (fc *floorContext) robotShouldBeIdleAgain(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if !r.Idle() {
		return fmt.Errorf("expected robot %d to be idle", id)
	}
	return nil
}

func (fc *floorContext) robotShouldBeCharging(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if !r.Charging() {
		return fmt.Errorf("expected robot %d to be charging", id)
	}
	return nil
}

func (fc *floorContext) robotShouldNotBeCharging(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if r.Charging() {
		return fmt.Errorf("expected robot %d not to be charging", id)
	}
	return nil
}

func (fc *floorContext) robotShouldBeWaitingForACharge(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if !r.WaitingForCharge() {
		return fmt.Errorf("expected robot %d to be waiting for a charge", id)
	}
	return nil
}

func (fc *floorContext) robotShouldBeHeadingToAStation(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if !r.HeadingToStation() {
		return fmt.Errorf("expected robot %d to be heading to a station", id)
	}
	return nil
}

func (fc *floorContext) robotShouldBeHalted(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if !r.Halted() {
		return fmt.Errorf("expected robot %d to be halted", id)
	}
	return nil
}

func (fc *floorContext) robotShouldHaveBeenReset(id int) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	if r.ResetCount() == 0 {
		return fmt.Errorf("expected robot %d to have been reset", id)
	}
	return nil
}

func (fc *floorContext) robotShouldHaveBeenRerouted(id int) error {
	if _, ok := fc.replans[id]; !ok {
		return fmt.Errorf("expected robot %d in the replanned set, got %v", id, fc.replans)
	}
	return nil
}

func (fc *floorContext) robotShouldHaveChargedAlongTheWay(id int) error {
	if !fc.charged[id] {
		return fmt.Errorf("expected robot %d to have charged at some point", id)
	}
	return nil
}

func (fc *floorContext) pathOfRobotShouldBe(id int, table *godog.Table) error {
	r, err := fc.robot(id)
	if err != nil {
		return err
	}
	want := make([]shared.Cell, 0, len(table.Rows)-1)
	for i, row := range table.Rows {
		if i == 0 {
			continue // Header
		}
		x, err := tableCellInt(table, row, "x")
		if err != nil {
			return fmt.Errorf("path table row %d: %w", i, err)
		}
		y, err := tableCellInt(table, row, "y")
		if err != nil {
			return fmt.Errorf("path table row %d: %w", i, err)
		}
		want = append(want, shared.NewCell(x, y))
	}
	got := r.Path()
	if len(got) != len(want) {
		return fmt.Errorf("expected a %d cell path, got %d cells: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("path diverges at index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	return nil
}

// tableCell reads one cell from a pickle row by column name, using the
// table's first row as the header.
func tableCell(table *godog.Table, row *messages.PickleTableRow, column string) (string, error) {
	if len(table.Rows) == 0 {
		return "", fmt.Errorf("empty table")
	}
	for i, header := range table.Rows[0].Cells {
		if header.Value != column {
			continue
		}
		if i >= len(row.Cells) {
			return "", fmt.Errorf("row is missing the %q cell", column)
		}
		return row.Cells[i].Value, nil
	}
	return "", fmt.Errorf("table has no %q column", column)
}

func tableCellInt(table *godog.Table, row *messages.PickleTableRow, column string) (int, error) {
	raw, err := tableCell(table, row, column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad %s value %q: %w", column, raw, err)
	}
	return n, nil
}

func (fc *floorContext) packageShouldBe(id int, status string) error {
	p, err := fc.pkg(id)
	if err != nil {
		return err
	}
	if string(p.Status()) != status {
		return fmt.Errorf("expected package %d to be %s, got %s", id, status, p.Status())
	}
	return nil
}

func (fc *floorContext) packageShouldBeAssignedToRobot(packageID, robotID int) error {
	p, err := fc.pkg(packageID)
	if err != nil {
		return err
	}
	if p.Status() != parcel.StatusAssigned {
		return fmt.Errorf("expected package %d to be assigned, got %s", packageID, p.Status())
	}
	assigned, ok := p.AssignedRobot()
	if !ok || assigned != robotID {
		return fmt.Errorf("expected package %d on robot %d, got robot %d", packageID, robotID, assigned)
	}
	return nil
}

func (fc *floorContext) packageShouldHaveBeenPickedAtTick(id, tick int) error {
	p, err := fc.pkg(id)
	if err != nil {
		return err
	}
	picked := p.PickedTick()
	if picked == nil {
		return fmt.Errorf("package %d has not been picked up", id)
	}
	if *picked != tick {
		return fmt.Errorf("expected package %d picked at tick %d, got %d", id, tick, *picked)
	}
	return nil
}

func (fc *floorContext) packageShouldHaveBeenDeliveredAtTick(id, tick int) error {
	p, err := fc.pkg(id)
	if err != nil {
		return err
	}
	delivered := p.DeliveredTick()
	if delivered == nil {
		return fmt.Errorf("package %d has not been delivered", id)
	}
	if *delivered != tick {
		return fmt.Errorf("expected package %d delivered at tick %d, got %d", id, tick, *delivered)
	}
	return nil
}

func (fc *floorContext) packagesShouldHaveBeenDeliveredInTotal(count int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	if m.TotalDelivered() != count {
		return fmt.Errorf("expected %d delivered packages, got %d", count, m.TotalDelivered())
	}
	if fc.deliveries != count {
		return fmt.Errorf("expected %d deliveries in the step summaries, got %d", count, fc.deliveries)
	}
	return nil
}

func (fc *floorContext) theSimulationTickShouldBe(tick int) error {
	m, err := fc.model()
	if err != nil {
		return err
	}
	if m.CurrentTick() != tick {
		return fmt.Errorf("expected tick %d, got %d", tick, m.CurrentTick())
	}
	return nil
}

func (fc *floorContext) noTwoRobotsShouldEverHaveSharedACell() error {
	if fc.sharedCell {
		return fmt.Errorf("two robots occupied the same cell during the run")
	}
	return nil
}

func (fc *floorContext) theChargingSlotShouldNeverHaveBeenShared() error {
	if fc.slotShared {
		return fmt.Errorf("a charging slot was held by more than one robot")
	}
	return nil
}

func (fc *floorContext) theStationAtShouldBeIdle(x, y int) error {
	st, err := fc.station(x, y)
	if err != nil {
		return err
	}
	if st.Occupation() != 0 {
		return fmt.Errorf("expected the station at %s to be empty, occupation is %d", st.Cell(), st.Occupation())
	}
	return nil
}

func (fc *floorContext) noDeadlockResetsShouldHaveHappened() error {
	if fc.resets != 0 {
		return fmt.Errorf("expected no deadlock resets, got %d", fc.resets)
	}
	return nil
}

func (fc *floorContext) deadlockResetsShouldHaveHappenedInTotal(count int) error {
	if fc.resets != count {
		return fmt.Errorf("expected %d deadlock resets in total, got %d", count, fc.resets)
	}
	return nil
}

func (fc *floorContext) batteryDepletionsShouldHaveBeenReported(count int) error {
	if fc.depletions != count {
		return fmt.Errorf("expected %d battery depletions, got %d", count, fc.depletions)
	}
	return nil
}

func InitializeFloorScenario(ctx *godog.ScenarioContext) {
	fc := &floorContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an? (\d+) by (\d+) warehouse floor$`, fc.aWarehouseFloor)
	ctx.Step(`^a charging station at \((\d+), (\d+)\)$`, fc.aChargingStationAt)
	ctx.Step(`^an obstacle at \((\d+), (\d+)\)$`, fc.anObstacleAt)
	ctx.Step(`^an idle robot at \((\d+), (\d+)\)$`, fc.anIdleRobotAt)
	ctx.Step(`^an idle robot at \((\d+), (\d+)\) with battery ([0-9.]+) and drain ([0-9.]+)$`, fc.anIdleRobotAtWithBattery)
	ctx.Step(`^a robot at \((\d+), (\d+)\) tasked to \((\d+), (\d+)\)$`, fc.aRobotTaskedTo)
	ctx.Step(`^a robot at \((\d+), (\d+)\) tasked to \((\d+), (\d+)\) with battery ([0-9.]+) and drain ([0-9.]+)$`, fc.aRobotTaskedToWithBattery)
	ctx.Step(`^a package with pickup \((\d+), (\d+)\) and delivery \((\d+), (\d+)\)$`, fc.aPackageWithPickupAndDelivery)
	ctx.Step(`^package (\d+) is assigned to robot (\d+)$`, fc.packageIsAssignedToRobot)

	// When steps
	ctx.Step(`^the simulation advances (\d+) ticks?$`, fc.theSimulationAdvances)
	ctx.Step(`^an obstacle is placed at \((\d+), (\d+)\)$`, fc.anObstacleIsPlacedAt)
	ctx.Step(`^the simulation advances until robot (\d+) reaches its goal$`, fc.theSimulationAdvancesUntilRobotReachesGoal)
	ctx.Step(`^the simulation advances until robot (\d+) is charging$`, fc.theSimulationAdvancesUntilRobotIsCharging)

	// Then steps
	ctx.Step(`^robot (\d+) should be at \((\d+), (\d+)\)$`, fc.robotShouldBeAt)
	ctx.Step(`^robot (\d+) should have taken (\d+) steps$`, fc.robotShouldHaveTakenSteps)
	ctx.Step(`^the battery of robot (\d+) should be ([0-9.]+)$`, fc.batteryShouldBe)
	ctx.Step(`^the battery of robot (\d+) should be at least ([0-9.]+)$`, fc.batteryShouldBeAtLeast)
	ctx.Step(`^robot (\d+) should be idle again$`, fc.robotShouldBeIdleAgain)
	ctx.Step(`^robot (\d+) should be charging$`, fc.robotShouldBeCharging)
	ctx.Step(`^robot (\d+) should not be charging$`, fc.robotShouldNotBeCharging)
	ctx.Step(`^robot (\d+) should be waiting for a charge$`, fc.robotShouldBeWaitingForACharge)
	ctx.Step(`^robot (\d+) should be heading to a station$`, fc.robotShouldBeHeadingToAStation)
	ctx.Step(`^robot (\d+) should be halted$`, fc.robotShouldBeHalted)
	ctx.Step(`^robot (\d+) should have been reset$`, fc.robotShouldHaveBeenReset)
	ctx.Step(`^robot (\d+) should have been rerouted$`, fc.robotShouldHaveBeenRerouted)
	ctx.Step(`^robot (\d+) should have charged along the way$`, fc.robotShouldHaveChargedAlongTheWay)
	ctx.Step(`^the path of robot (\d+) should be$`, fc.pathOfRobotShouldBe)
	ctx.Step(`^package (\d+) should be (waiting|assigned|picked|delivered)$`, fc.packageShouldBe)
	ctx.Step(`^package (\d+) should be assigned to robot (\d+)$`, fc.packageShouldBeAssignedToRobot)
	ctx.Step(`^package (\d+) should have been picked at tick (\d+)$`, fc.packageShouldHaveBeenPickedAtTick)
	ctx.Step(`^package (\d+) should have been delivered at tick (\d+)$`, fc.packageShouldHaveBeenDeliveredAtTick)
	ctx.Step(`^(\d+) packages? should have been delivered in total$`, fc.packagesShouldHaveBeenDeliveredInTotal)
	ctx.Step(`^the simulation tick should be (\d+)$`, fc.theSimulationTickShouldBe)
	ctx.Step(`^no two robots should ever have shared a cell$`, fc.noTwoRobotsShouldEverHaveSharedACell)
	ctx.Step(`^the charging slot should never have been shared$`, fc.theChargingSlotShouldNeverHaveBeenShared)
	ctx.Step(`^the station at \((\d+), (\d+)\) should be idle$`, fc.theStationAtShouldBeIdle)
	ctx.Step(`^no deadlock resets should have happened$`, fc.noDeadlockResetsShouldHaveHappened)
	ctx.Step(`^(\d+) deadlock resets? should have happened in total$`, fc.deadlockResetsShouldHaveHappenedInTotal)
	ctx.Step(`^(\d+) battery depletions? should have been reported$`, fc.batteryDepletionsShouldHaveBeenReported)
}
