package setup

import (
	"reflect"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	simCommands "github.com/andrescamacho/gridfleet-go/internal/application/sim/commands"
	simQueries "github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	session *sim.Session
	runner  *sim.Runner
	metrics common.MetricsRecorder
	clock   shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	session *sim.Session,
	runner *sim.Runner,
	metrics common.MetricsRecorder,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if metrics == nil {
		metrics = common.NoopMetricsRecorder{}
	}

	return &HandlerRegistry{
		session: session,
		runner:  runner,
		metrics: metrics,
		clock:   clock,
	}
}

// RegisterCommandHandlers registers every mutating simulation handler with the mediator
//
// This method registers:
//   - InitializeCommand → InitializeHandler (builds a fresh simulation)
//   - StepCommand → StepHandler (advances the simulation one tick)
//   - AddObstacleCommand / RemoveObstacleCommand → floor editing
//   - AddStationCommand → charging infrastructure
//   - AddRobotCommand / ChangeGoalCommand → fleet editing
//   - CreatePackageCommand / CreatePackagesCommand / AssignPackageCommand → package lifecycle
//   - StartSimulationCommand / StopSimulationCommand → auto-run control
//   - ResetSimulationCommand → rebuild from the last initialize
func (r *HandlerRegistry) RegisterCommandHandlers(m mediator.Mediator) error {
	// Register InitializeCommand handler
	initializeHandler := simCommands.NewInitializeHandler(r.session, r.runner, r.clock)
	if err := m.Register(
		reflect.TypeOf(&simCommands.InitializeCommand{}),
		initializeHandler,
	); err != nil {
		return err
	}

	// Register StepCommand handler
	stepHandler := simCommands.NewStepHandler(r.session, r.metrics, r.clock)
	if err := m.Register(
		reflect.TypeOf(&simCommands.StepCommand{}),
		stepHandler,
	); err != nil {
		return err
	}

	// Register AddObstacleCommand handler
	addObstacleHandler := simCommands.NewAddObstacleHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.AddObstacleCommand{}),
		addObstacleHandler,
	); err != nil {
		return err
	}

	// Register RemoveObstacleCommand handler
	removeObstacleHandler := simCommands.NewRemoveObstacleHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.RemoveObstacleCommand{}),
		removeObstacleHandler,
	); err != nil {
		return err
	}

	// Register AddStationCommand handler
	addStationHandler := simCommands.NewAddStationHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.AddStationCommand{}),
		addStationHandler,
	); err != nil {
		return err
	}

	// Register AddRobotCommand handler
	addRobotHandler := simCommands.NewAddRobotHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.AddRobotCommand{}),
		addRobotHandler,
	); err != nil {
		return err
	}

	// Register ChangeGoalCommand handler
	changeGoalHandler := simCommands.NewChangeGoalHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.ChangeGoalCommand{}),
		changeGoalHandler,
	); err != nil {
		return err
	}

	// Register CreatePackageCommand handler
	createPackageHandler := simCommands.NewCreatePackageHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.CreatePackageCommand{}),
		createPackageHandler,
	); err != nil {
		return err
	}

	// Register CreatePackagesCommand handler
	createPackagesHandler := simCommands.NewCreatePackagesHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.CreatePackagesCommand{}),
		createPackagesHandler,
	); err != nil {
		return err
	}

	// Register AssignPackageCommand handler
	assignPackageHandler := simCommands.NewAssignPackageHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simCommands.AssignPackageCommand{}),
		assignPackageHandler,
	); err != nil {
		return err
	}

	// Register StartSimulationCommand handler
	startHandler := simCommands.NewStartSimulationHandler(r.session, r.runner)
	if err := m.Register(
		reflect.TypeOf(&simCommands.StartSimulationCommand{}),
		startHandler,
	); err != nil {
		return err
	}

	// Register StopSimulationCommand handler
	stopHandler := simCommands.NewStopSimulationHandler(r.runner)
	if err := m.Register(
		reflect.TypeOf(&simCommands.StopSimulationCommand{}),
		stopHandler,
	); err != nil {
		return err
	}

	// Register ResetSimulationCommand handler
	resetHandler := simCommands.NewResetSimulationHandler(r.session, r.runner)
	if err := m.Register(
		reflect.TypeOf(&simCommands.ResetSimulationCommand{}),
		resetHandler,
	); err != nil {
		return err
	}

	return nil
}

// RegisterQueryHandlers registers the read-only simulation handlers
//
// This method registers:
//   - GetStateQuery → GetStateHandler (full snapshot, also feeds state_update)
//   - GetRobotsQuery → GetRobotsHandler (fleet delta, feeds robots_update)
//   - GetPackagesQuery → GetPackagesHandler (package ledger, feeds packages_update)
//   - ExportPathsQuery → ExportPathsHandler (plain-text route dump)
func (r *HandlerRegistry) RegisterQueryHandlers(m mediator.Mediator) error {
	// Register GetStateQuery handler
	getStateHandler := simQueries.NewGetStateHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simQueries.GetStateQuery{}),
		getStateHandler,
	); err != nil {
		return err
	}

	// Register GetRobotsQuery handler
	getRobotsHandler := simQueries.NewGetRobotsHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simQueries.GetRobotsQuery{}),
		getRobotsHandler,
	); err != nil {
		return err
	}

	// Register GetPackagesQuery handler
	getPackagesHandler := simQueries.NewGetPackagesHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simQueries.GetPackagesQuery{}),
		getPackagesHandler,
	); err != nil {
		return err
	}

	// Register ExportPathsQuery handler
	exportPathsHandler := simQueries.NewExportPathsHandler(r.session)
	if err := m.Register(
		reflect.TypeOf(&simQueries.ExportPathsQuery{}),
		exportPathsHandler,
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a new mediator with every simulation handler registered
//
// This is a convenience method that creates a mediator and registers all command and
// query handlers. Use this when you need a fully configured mediator for application use.
// Middlewares are passed through to the mediator and run outermost first.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator(middlewares...)

	if err := r.RegisterCommandHandlers(m); err != nil {
		return nil, err
	}

	if err := r.RegisterQueryHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
