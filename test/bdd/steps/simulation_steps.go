package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/setup"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/commands"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// simulationContext drives the full command surface the way the daemon
// wires it: a session, a runner and a mediator built by the handler
// registry, rebuilt fresh for every scenario. Commands record their
// error instead of failing the step so scenarios can assert on
// rejections.
type simulationContext struct {
	session    *sim.Session
	runner     *sim.Runner
	dispatcher *sim.Dispatcher
	cancel     context.CancelFunc

	plan commands.InitializeCommand

	lastErr     error
	initResp    *commands.InitializeResponse
	stepResp    *commands.StepResponse
	resetResp   *commands.ResetSimulationResponse
	startResp   *commands.StartSimulationResponse
	stopResp    *commands.StopSimulationResponse
	obstacles   []dtos.CellDTO
	reroutes    []dtos.RobotPathDTO
	stationResp *commands.AddStationResponse
	robotResp   *commands.AddRobotResponse
	goalResp    *commands.ChangeGoalResponse
	pkgResp     *commands.CreatePackageResponse
	batchResp   *commands.CreatePackagesResponse
	assignResp  *commands.AssignPackageResponse
}

func (sc *simulationContext) reset() error {
	if sc.cancel != nil {
		sc.cancel()
	}
	*sc = simulationContext{}

	ctx, cancel := context.WithCancel(context.Background())
	sc.cancel = cancel
	sc.session = sim.NewSession()
	sc.runner = sim.NewRunner(ctx, 0, nil)

	registry := setup.NewHandlerRegistry(sc.session, sc.runner, nil,
		shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return err
	}
	sc.dispatcher = sim.NewDispatcher(med)

	// The same late binding the daemon does: the auto-run tick is a
	// step command through the dispatcher.
	sc.runner.Bind(func(tickCtx context.Context) error {
		resp, err := sc.dispatcher.Send(tickCtx, &commands.StepCommand{})
		if err != nil {
			return err
		}
		if step, ok := resp.(*commands.StepResponse); ok && step.AllReachedGoal {
			return sim.ErrSimulationComplete
		}
		return nil
	})
	return nil
}

// send routes one command and records its outcome for the Then steps.
func (sc *simulationContext) send(req mediator.Request) (mediator.Response, error) {
	resp, err := sc.dispatcher.Send(context.Background(), req)
	sc.lastErr = err
	return resp, err
}

func (sc *simulationContext) initialize(cmd *commands.InitializeCommand) error {
	resp, err := sc.send(cmd)
	if err != nil {
		return err
	}
	sc.initResp = resp.(*commands.InitializeResponse)
	return nil
}

func (sc *simulationContext) state() (*queries.GetStateResponse, error) {
	resp, err := sc.dispatcher.Send(context.Background(), &queries.GetStateQuery{})
	if err != nil {
		return nil, err
	}
	return resp.(*queries.GetStateResponse), nil
}

func (sc *simulationContext) stateRobot(id int) (*dtos.RobotDTO, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	for i := range st.Robots {
		if st.Robots[i].ID == id {
			return &st.Robots[i], nil
		}
	}
	return nil, fmt.Errorf("robot %d is not in the state snapshot", id)
}

// Given steps

func (sc *simulationContext) anInitializedWarehouseWithARobotFromTo(w, h, sx, sy, gx, gy int) error {
	return sc.initialize(&commands.InitializeCommand{
		Width:  w,
		Height: h,
		Robots: []dtos.RobotSetupDTO{{
			Start: dtos.CellDTO{X: sx, Y: sy},
			Goal:  dtos.CellDTO{X: gx, Y: gy},
			Color: "blue",
		}},
	})
}

func (sc *simulationContext) anInitializedWarehouseWithAParkedRobotAt(w, h, x, y int) error {
	return sc.initialize(&commands.InitializeCommand{
		Width:  w,
		Height: h,
		Robots: []dtos.RobotSetupDTO{{
			Start: dtos.CellDTO{X: x, Y: y},
			Goal:  dtos.CellDTO{X: x, Y: y},
			Color: "blue",
			Idle:  true,
		}},
	})
}

func (sc *simulationContext) theFloorPlanIs(w, h int) error {
	sc.plan.Width = w
	sc.plan.Height = h
	return nil
}

func (sc *simulationContext) theFloorPlanHasAParkedRobotAt(x, y int) error {
	sc.plan.Robots = append(sc.plan.Robots, dtos.RobotSetupDTO{
		Start: dtos.CellDTO{X: x, Y: y},
		Goal:  dtos.CellDTO{X: x, Y: y},
		Color: "blue",
		Idle:  true,
	})
	return nil
}

func (sc *simulationContext) theFloorPlanHasARobotFromTo(sx, sy, gx, gy int) error {
	sc.plan.Robots = append(sc.plan.Robots, dtos.RobotSetupDTO{
		Start: dtos.CellDTO{X: sx, Y: sy},
		Goal:  dtos.CellDTO{X: gx, Y: gy},
		Color: "blue",
	})
	return nil
}

func (sc *simulationContext) theFloorPlanHasAChargingStationAt(x, y int) error {
	sc.plan.Stations = append(sc.plan.Stations, dtos.StationDTO{X: x, Y: y, ChargingRate: 10})
	return nil
}

func (sc *simulationContext) theFloorPlanHasAnObstacleAt(x, y int) error {
	sc.plan.Obstacles = append(sc.plan.Obstacles, dtos.CellDTO{X: x, Y: y})
	return nil
}

// When steps

func (sc *simulationContext) iInitializeTheCustomWarehouse() error {
	cmd := sc.plan
	return sc.initialize(&cmd)
}

func (sc *simulationContext) iInitializeTheDefaultWarehouse(packages int, seed int) error {
	return sc.initialize(&commands.InitializeCommand{
		UseDefaultLayout: true,
		InitialPackages:  packages,
		Seed:             int64(seed),
	})
}

func (sc *simulationContext) iSendAStepCommand() error {
	resp, err := sc.send(&commands.StepCommand{})
	if err != nil {
		return nil
	}
	sc.stepResp = resp.(*commands.StepResponse)
	return nil
}

func (sc *simulationContext) iSendStepCommands(count int) error {
	for i := 0; i < count; i++ {
		resp, err := sc.send(&commands.StepCommand{})
		if err != nil {
			return err
		}
		sc.stepResp = resp.(*commands.StepResponse)
	}
	return nil
}

func (sc *simulationContext) iSendAResetCommand() error {
	resp, err := sc.send(&commands.ResetSimulationCommand{})
	if err != nil {
		return nil
	}
	sc.resetResp = resp.(*commands.ResetSimulationResponse)
	return nil
}

func (sc *simulationContext) iSendAStartCommand() error {
	resp, err := sc.send(&commands.StartSimulationCommand{})
	if err != nil {
		return nil
	}
	sc.startResp = resp.(*commands.StartSimulationResponse)
	return nil
}

func (sc *simulationContext) iSendAStopCommand() error {
	resp, err := sc.send(&commands.StopSimulationCommand{})
	if err != nil {
		return nil
	}
	sc.stopResp = resp.(*commands.StopSimulationResponse)
	return nil
}

func (sc *simulationContext) iAddAnObstacleAt(x, y int) error {
	resp, err := sc.send(&commands.AddObstacleCommand{X: x, Y: y})
	if err != nil {
		return nil
	}
	added := resp.(*commands.AddObstacleResponse)
	sc.obstacles = added.Obstacles
	sc.reroutes = added.RobotsPaths
	return nil
}

func (sc *simulationContext) iRemoveTheObstacleAt(x, y int) error {
	resp, err := sc.send(&commands.RemoveObstacleCommand{X: x, Y: y})
	if err != nil {
		return nil
	}
	removed := resp.(*commands.RemoveObstacleResponse)
	sc.obstacles = removed.Obstacles
	sc.reroutes = nil
	return nil
}

func (sc *simulationContext) iAddAChargingStationAtCharging(x, y int, rate float64) error {
	resp, err := sc.send(&commands.AddStationCommand{X: x, Y: y, ChargingRate: rate})
	if err != nil {
		return nil
	}
	sc.stationResp = resp.(*commands.AddStationResponse)
	return nil
}

func (sc *simulationContext) iAddARobotFromTo(sx, sy, gx, gy int) error {
	resp, err := sc.send(&commands.AddRobotCommand{
		StartX: sx,
		StartY: sy,
		GoalX:  &gx,
		GoalY:  &gy,
		Color:  "green",
	})
	if err != nil {
		return nil
	}
	sc.robotResp = resp.(*commands.AddRobotResponse)
	return nil
}

func (sc *simulationContext) iChangeTheGoalOfRobotTo(id, x, y int) error {
	resp, err := sc.send(&commands.ChangeGoalCommand{RobotID: id, GoalX: x, GoalY: y})
	if err != nil {
		return nil
	}
	sc.goalResp = resp.(*commands.ChangeGoalResponse)
	return nil
}

func (sc *simulationContext) iCreateAPackageFromTo(px, py, dx, dy int) error {
	resp, err := sc.send(&commands.CreatePackageCommand{
		Pickup:   &dtos.CellDTO{X: px, Y: py},
		Delivery: &dtos.CellDTO{X: dx, Y: dy},
	})
	if err != nil {
		return nil
	}
	sc.pkgResp = resp.(*commands.CreatePackageResponse)
	return nil
}

func (sc *simulationContext) iCreateRandomPackages(count int) error {
	resp, err := sc.send(&commands.CreatePackagesCommand{Count: count})
	if err != nil {
		return nil
	}
	sc.batchResp = resp.(*commands.CreatePackagesResponse)
	return nil
}

func (sc *simulationContext) iAssignPackageToRobot(packageID, robotID int) error {
	resp, err := sc.send(&commands.AssignPackageCommand{PackageID: packageID, RobotID: robotID})
	if err != nil {
		return nil
	}
	sc.assignResp = resp.(*commands.AssignPackageResponse)
	return nil
}

// Then steps

func (sc *simulationContext) theCommandShouldFailWith(message string) error {
	if sc.lastErr == nil {
		return fmt.Errorf("expected the command to fail with %q, but it succeeded", message)
	}
	if !strings.Contains(sc.lastErr.Error(), message) {
		return fmt.Errorf("expected the error to mention %q, got %q", message, sc.lastErr.Error())
	}
	return nil
}

func (sc *simulationContext) theGridShouldBe(w, h int) error {
	if sc.initResp == nil {
		return fmt.Errorf("no initialize response recorded")
	}
	got := sc.initResp.GridSize
	if got.Width != w || got.Height != h {
		return fmt.Errorf("expected a %dx%d grid, got %dx%d", w, h, got.Width, got.Height)
	}
	return nil
}

func (sc *simulationContext) theInitializeResponseShouldListRobots(count int) error {
	if sc.initResp == nil {
		return fmt.Errorf("no initialize response recorded")
	}
	if len(sc.initResp.Robots) != count {
		return fmt.Errorf("expected %d robots, got %d", count, len(sc.initResp.Robots))
	}
	return nil
}

func (sc *simulationContext) theInitializeResponseShouldListStations(count int) error {
	if sc.initResp == nil {
		return fmt.Errorf("no initialize response recorded")
	}
	if len(sc.initResp.Stations) != count {
		return fmt.Errorf("expected %d charging stations, got %d", count, len(sc.initResp.Stations))
	}
	return nil
}

func (sc *simulationContext) everyRobotShouldSitOnItsStartCell() error {
	if sc.initResp == nil {
		return fmt.Errorf("no initialize response recorded")
	}
	for _, r := range sc.initResp.Robots {
		if r.Position != r.Start {
			return fmt.Errorf("robot %d sits at (%d, %d), start is (%d, %d)",
				r.ID, r.Position.X, r.Position.Y, r.Start.X, r.Start.Y)
		}
	}
	return nil
}

func (sc *simulationContext) theStepResponseShouldReportTick(tick int) error {
	if sc.stepResp == nil {
		return fmt.Errorf("no step response recorded")
	}
	if sc.stepResp.Tick != tick {
		return fmt.Errorf("expected tick %d, got %d", tick, sc.stepResp.Tick)
	}
	return nil
}

func (sc *simulationContext) theStepResponseShouldPairPackageWithRobot(packageID, robotID int) error {
	if sc.stepResp == nil {
		return fmt.Errorf("no step response recorded")
	}
	for _, a := range sc.stepResp.Assignments {
		if a.PackageID == packageID && a.Robot.ID == robotID {
			return nil
		}
	}
	return fmt.Errorf("no pairing of package %d with robot %d in %v", packageID, robotID, sc.stepResp.Assignments)
}

func (sc *simulationContext) theResetResponseShouldPutRobotAt(id, x, y int) error {
	if sc.resetResp == nil {
		return fmt.Errorf("no reset response recorded")
	}
	for _, r := range sc.resetResp.Robots {
		if r.ID == id {
			if r.Position.X != x || r.Position.Y != y {
				return fmt.Errorf("expected robot %d at (%d, %d), got (%d, %d)", id, x, y, r.Position.X, r.Position.Y)
			}
			return nil
		}
	}
	return fmt.Errorf("robot %d is not in the reset response", id)
}

func (sc *simulationContext) theStartResponseShouldSay(message string) error {
	if sc.startResp == nil {
		return fmt.Errorf("no start response recorded")
	}
	if sc.startResp.Message != message {
		return fmt.Errorf("expected %q, got %q", message, sc.startResp.Message)
	}
	return nil
}

func (sc *simulationContext) theStopResponseShouldCite(reason string) error {
	if sc.stopResp == nil {
		return fmt.Errorf("no stop response recorded")
	}
	if sc.stopResp.Reason != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, sc.stopResp.Reason)
	}
	return nil
}

func (sc *simulationContext) theObstacleResponseShouldList(count int) error {
	if len(sc.obstacles) != count {
		return fmt.Errorf("expected %d obstacles, got %d", count, len(sc.obstacles))
	}
	return nil
}

func (sc *simulationContext) theObstacleResponseShouldRerouteRobot(id int) error {
	for _, p := range sc.reroutes {
		if p.ID == id {
			return nil
		}
	}
	return fmt.Errorf("robot %d is not in the rerouted set", id)
}

func (sc *simulationContext) theStationResponseShouldList(count int) error {
	if sc.stationResp == nil {
		return fmt.Errorf("no station response recorded")
	}
	if len(sc.stationResp.Stations) != count {
		return fmt.Errorf("expected %d charging stations, got %d", count, len(sc.stationResp.Stations))
	}
	return nil
}

func (sc *simulationContext) theNewRobotShouldHaveID(id int) error {
	if sc.robotResp == nil {
		return fmt.Errorf("no add robot response recorded")
	}
	if sc.robotResp.Robot.ID != id {
		return fmt.Errorf("expected robot id %d, got %d", id, sc.robotResp.Robot.ID)
	}
	return nil
}

func (sc *simulationContext) theGoalResponsePathShouldEndAt(x, y int) error {
	if sc.goalResp == nil {
		return fmt.Errorf("no change goal response recorded")
	}
	path := sc.goalResp.Path
	if len(path) == 0 {
		return fmt.Errorf("the change goal response carries an empty path")
	}
	last := path[len(path)-1]
	if last.X != x || last.Y != y {
		return fmt.Errorf("expected the path to end at (%d, %d), got (%d, %d)", x, y, last.X, last.Y)
	}
	return nil
}

func (sc *simulationContext) theCreatedPackageShouldHaveID(id int) error {
	if sc.pkgResp == nil {
		return fmt.Errorf("no create package response recorded")
	}
	if sc.pkgResp.Package.ID != id {
		return fmt.Errorf("expected package id %d, got %d", id, sc.pkgResp.Package.ID)
	}
	return nil
}

func (sc *simulationContext) theCreatedPackageShouldBeWaiting() error {
	if sc.pkgResp == nil {
		return fmt.Errorf("no create package response recorded")
	}
	if sc.pkgResp.Package.Status != "waiting" {
		return fmt.Errorf("expected a waiting package, got %s", sc.pkgResp.Package.Status)
	}
	return nil
}

func (sc *simulationContext) thePackagesResponseShouldCount(count int) error {
	if sc.batchResp == nil {
		return fmt.Errorf("no create packages response recorded")
	}
	if sc.batchResp.TotalCreated != count {
		return fmt.Errorf("expected %d packages created, got %d", count, sc.batchResp.TotalCreated)
	}
	return nil
}

func (sc *simulationContext) theAssignmentShouldRouteRobotTo(id, x, y int) error {
	if sc.assignResp == nil {
		return fmt.Errorf("no assignment response recorded")
	}
	r := sc.assignResp.Robot
	if r.ID != id {
		return fmt.Errorf("expected robot %d in the assignment, got %d", id, r.ID)
	}
	if len(r.Path) == 0 {
		return fmt.Errorf("the assignment carries an empty path")
	}
	last := r.Path[len(r.Path)-1]
	if last.X != x || last.Y != y {
		return fmt.Errorf("expected the route to end at (%d, %d), got (%d, %d)", x, y, last.X, last.Y)
	}
	if r.Goal.X != x || r.Goal.Y != y {
		return fmt.Errorf("expected the robot goal at (%d, %d), got (%d, %d)", x, y, r.Goal.X, r.Goal.Y)
	}
	return nil
}

func (sc *simulationContext) theStateShouldShowActivePackages(count int) error {
	st, err := sc.state()
	if err != nil {
		return err
	}
	if len(st.ActivePackages) != count {
		return fmt.Errorf("expected %d active packages, got %d", count, len(st.ActivePackages))
	}
	return nil
}

func (sc *simulationContext) theStateShouldShowRobotAt(id, x, y int) error {
	r, err := sc.stateRobot(id)
	if err != nil {
		return err
	}
	if r.Position.X != x || r.Position.Y != y {
		return fmt.Errorf("expected robot %d at (%d, %d), got (%d, %d)", id, x, y, r.Position.X, r.Position.Y)
	}
	return nil
}

func (sc *simulationContext) theStateShouldShowRobotHeadingFor(id, x, y int) error {
	r, err := sc.stateRobot(id)
	if err != nil {
		return err
	}
	if r.Goal.X != x || r.Goal.Y != y {
		return fmt.Errorf("expected robot %d heading for (%d, %d), got (%d, %d)", id, x, y, r.Goal.X, r.Goal.Y)
	}
	return nil
}

func InitializeSimulationScenario(ctx *godog.ScenarioContext) {
	sc := &simulationContext{}

	ctx.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		return ctx, sc.reset()
	})
	ctx.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		if sc.cancel != nil {
			sc.cancel()
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an initialized (\d+) by (\d+) warehouse with a robot from \((\d+), (\d+)\) to \((\d+), (\d+)\)$`, sc.anInitializedWarehouseWithARobotFromTo)
	ctx.Step(`^an initialized (\d+) by (\d+) warehouse with a parked robot at \((\d+), (\d+)\)$`, sc.anInitializedWarehouseWithAParkedRobotAt)
	ctx.Step(`^the floor plan is (\d+) by (\d+)$`, sc.theFloorPlanIs)
	ctx.Step(`^the floor plan has a parked robot at \((\d+), (\d+)\)$`, sc.theFloorPlanHasAParkedRobotAt)
	ctx.Step(`^the floor plan has a robot from \((\d+), (\d+)\) to \((\d+), (\d+)\)$`, sc.theFloorPlanHasARobotFromTo)
	ctx.Step(`^the floor plan has a charging station at \((\d+), (\d+)\)$`, sc.theFloorPlanHasAChargingStationAt)
	ctx.Step(`^the floor plan has an obstacle at \((\d+), (\d+)\)$`, sc.theFloorPlanHasAnObstacleAt)

	// When steps
	ctx.Step(`^I initialize the custom warehouse$`, sc.iInitializeTheCustomWarehouse)
	ctx.Step(`^I initialize the default warehouse with (\d+) packages and seed (\d+)$`, sc.iInitializeTheDefaultWarehouse)
	ctx.Step(`^I send a step command$`, sc.iSendAStepCommand)
	ctx.Step(`^I send (\d+) step commands$`, sc.iSendStepCommands)
	ctx.Step(`^I send a reset command$`, sc.iSendAResetCommand)
	ctx.Step(`^I send a start command$`, sc.iSendAStartCommand)
	ctx.Step(`^I send a stop command$`, sc.iSendAStopCommand)
	ctx.Step(`^I add an obstacle at \((\d+), (\d+)\)$`, sc.iAddAnObstacleAt)
	ctx.Step(`^I remove the obstacle at \((\d+), (\d+)\)$`, sc.iRemoveTheObstacleAt)
	ctx.Step(`^I add a charging station at \((\d+), (\d+)\) charging ([0-9.]+) per tick$`, sc.iAddAChargingStationAtCharging)
	ctx.Step(`^I add a robot from \((\d+), (\d+)\) to \((\d+), (\d+)\)$`, sc.iAddARobotFromTo)
	ctx.Step(`^I change the goal of robot (\d+) to \((\d+), (\d+)\)$`, sc.iChangeTheGoalOfRobotTo)
	ctx.Step(`^I create a package from \((\d+), (\d+)\) to \((\d+), (\d+)\)$`, sc.iCreateAPackageFromTo)
	ctx.Step(`^I create (\d+) random packages$`, sc.iCreateRandomPackages)
	ctx.Step(`^I assign package (\d+) to robot (\d+)$`, sc.iAssignPackageToRobot)

	// Then steps
	ctx.Step(`^the command should fail with "([^"]*)"$`, sc.theCommandShouldFailWith)
	ctx.Step(`^the grid should be (\d+) by (\d+)$`, sc.theGridShouldBe)
	ctx.Step(`^the initialize response should list (\d+) robots?$`, sc.theInitializeResponseShouldListRobots)
	ctx.Step(`^the initialize response should list (\d+) charging stations?$`, sc.theInitializeResponseShouldListStations)
	ctx.Step(`^every robot should sit on its start cell$`, sc.everyRobotShouldSitOnItsStartCell)
	ctx.Step(`^the step response should report tick (\d+)$`, sc.theStepResponseShouldReportTick)
	ctx.Step(`^the step response should pair package (\d+) with robot (\d+)$`, sc.theStepResponseShouldPairPackageWithRobot)
	ctx.Step(`^the reset response should put robot (\d+) at \((\d+), (\d+)\)$`, sc.theResetResponseShouldPutRobotAt)
	ctx.Step(`^the start response should say "([^"]*)"$`, sc.theStartResponseShouldSay)
	ctx.Step(`^the stop response should cite "([^"]*)"$`, sc.theStopResponseShouldCite)
	ctx.Step(`^the obstacle response should list (\d+) obstacles?$`, sc.theObstacleResponseShouldList)
	ctx.Step(`^the obstacle response should reroute robot (\d+)$`, sc.theObstacleResponseShouldRerouteRobot)
	ctx.Step(`^the station response should list (\d+) charging stations?$`, sc.theStationResponseShouldList)
	ctx.Step(`^the new robot should have id (\d+)$`, sc.theNewRobotShouldHaveID)
	ctx.Step(`^the goal response path should end at \((\d+), (\d+)\)$`, sc.theGoalResponsePathShouldEndAt)
	ctx.Step(`^the created package should have id (\d+)$`, sc.theCreatedPackageShouldHaveID)
	ctx.Step(`^the created package should be waiting$`, sc.theCreatedPackageShouldBeWaiting)
	ctx.Step(`^the packages response should count (\d+)$`, sc.thePackagesResponseShouldCount)
	ctx.Step(`^the assignment should route robot (\d+) to \((\d+), (\d+)\)$`, sc.theAssignmentShouldRouteRobotTo)
	ctx.Step(`^the state should show (\d+) active packages?$`, sc.theStateShouldShowActivePackages)
	ctx.Step(`^the state should show robot (\d+) at \((\d+), (\d+)\)$`, sc.theStateShouldShowRobotAt)
	ctx.Step(`^the state should show robot (\d+) heading for \((\d+), (\d+)\)$`, sc.theStateShouldShowRobotHeadingFor)
}
