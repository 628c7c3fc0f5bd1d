package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/commands"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
)

// Dispatcher is the slice of the application the transport needs
type Dispatcher interface {
	Send(ctx context.Context, request mediator.Request) (mediator.Response, error)
}

// Router decodes inbound envelopes into commands and choreographs the
// resulting events: some reply to the requesting client, the rest fan
// out to everyone. The event flow mirrors what the dashboard expects
// after each command.
type Router struct {
	dispatcher Dispatcher
	hub        *Hub
	logger     common.Logger
}

// NewRouter creates a router
func NewRouter(dispatcher Dispatcher, hub *Hub, logger common.Logger) *Router {
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	return &Router{dispatcher: dispatcher, hub: hub, logger: logger}
}

// Route handles one inbound frame from a client
func (rt *Router) Route(ctx context.Context, c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.emitError("malformed message: expected {\"event\", \"data\"}")
		return
	}
	data := []byte(env.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	ctx = common.WithLogger(ctx, rt.logger)
	rt.logger.Log("debug", "websocket event received", map[string]interface{}{
		"client_id": c.id,
		"event":     env.Event,
	})

	switch env.Event {
	case EventInitialize:
		rt.handleInitialize(ctx, c, data)
	case EventStep:
		rt.handleStep(ctx, c)
	case EventAddObstacle:
		rt.handleAddObstacle(ctx, c, data)
	case EventRemoveObstacle:
		rt.handleRemoveObstacle(ctx, c, data)
	case EventAddStation:
		rt.handleAddStation(ctx, c, data)
	case EventAddRobot:
		rt.handleAddRobot(ctx, c, data)
	case EventChangeGoal:
		rt.handleChangeGoal(ctx, c, data)
	case EventCreatePackage:
		rt.handleCreatePackage(ctx, c, data)
	case EventCreatePackages:
		rt.handleCreatePackages(ctx, c, data)
	case EventAssignPackage:
		rt.handleAssignPackage(ctx, c, data)
	case EventGetState:
		rt.handleGetState(ctx, c)
	case EventGetPackages:
		rt.handleGetPackages(ctx, c)
	case EventStartSimulation:
		rt.handleStartSimulation(ctx, c)
	case EventStopSimulation:
		rt.handleStopSimulation(ctx, c)
	case EventResetSimulation:
		rt.handleResetSimulation(ctx, c)
	default:
		c.emitError(fmt.Sprintf("unknown event: %s", env.Event))
	}
}

func (rt *Router) handleInitialize(ctx context.Context, c *Client, data []byte) {
	var cmd commands.InitializeCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid initialize payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	init := resp.(*commands.InitializeResponse)

	if len(init.Packages) > 0 {
		preview := init.Packages
		if len(preview) > 10 {
			preview = preview[:10]
		}
		rt.hub.Broadcast(EventPackagesCreated, &commands.CreatePackagesResponse{
			Packages:     preview,
			TotalCreated: len(init.Packages),
		})
	}
	for _, a := range init.Assignments {
		rt.hub.Broadcast(EventPackageAssigned, a)
	}
	if len(init.Assignments) > 0 {
		rt.broadcastRobots(ctx)
		rt.broadcastPackages(ctx)
	}
	c.emit(EventInitializationComplete, init)
}

func (rt *Router) handleStep(ctx context.Context, c *Client) {
	if _, err := rt.stepOnce(ctx); err != nil {
		c.emitError(err.Error())
	}
}

// stepOnce advances the simulation one tick and fans out the resulting
// events. Shared by the step event and the auto-run loop.
func (rt *Router) stepOnce(ctx context.Context) (*commands.StepResponse, error) {
	resp, err := rt.dispatcher.Send(ctx, &commands.StepCommand{})
	if err != nil {
		return nil, err
	}
	step := resp.(*commands.StepResponse)

	for _, a := range step.Assignments {
		rt.hub.Broadcast(EventPackageAssigned, a)
	}
	rt.broadcastRobots(ctx)
	rt.broadcastPackages(ctx)
	return step, nil
}

func (rt *Router) handleAddObstacle(ctx context.Context, c *Client, data []byte) {
	var cmd commands.AddObstacleCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid add_obstacle payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventObstacleAdded, resp)
}

func (rt *Router) handleRemoveObstacle(ctx context.Context, c *Client, data []byte) {
	var cmd commands.RemoveObstacleCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid remove_obstacle payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventObstacleRemoved, resp)
}

func (rt *Router) handleAddStation(ctx context.Context, c *Client, data []byte) {
	var cmd commands.AddStationCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid add_charging_station payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventStationAdded, resp)
}

func (rt *Router) handleAddRobot(ctx context.Context, c *Client, data []byte) {
	var cmd commands.AddRobotCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid add_robot payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventRobotAdded, resp)
}

func (rt *Router) handleChangeGoal(ctx context.Context, c *Client, data []byte) {
	var cmd commands.ChangeGoalCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid change_goal payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventGoalChanged, resp)
	rt.broadcastRobots(ctx)
}

func (rt *Router) handleCreatePackage(ctx context.Context, c *Client, data []byte) {
	var cmd commands.CreatePackageCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid create_package payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventPackageCreated, resp)
	rt.broadcastPackages(ctx)
}

func (rt *Router) handleCreatePackages(ctx context.Context, c *Client, data []byte) {
	var cmd commands.CreatePackagesCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid create_packages payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventPackagesCreated, resp)
	rt.broadcastPackages(ctx)
}

func (rt *Router) handleAssignPackage(ctx context.Context, c *Client, data []byte) {
	var cmd commands.AssignPackageCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.emitError("invalid assign_package payload")
		return
	}
	resp, err := rt.dispatcher.Send(ctx, &cmd)
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventPackageAssigned, resp)
	rt.broadcastRobots(ctx)
	rt.broadcastPackages(ctx)
}

func (rt *Router) handleGetState(ctx context.Context, c *Client) {
	resp, err := rt.dispatcher.Send(ctx, &queries.GetStateQuery{})
	if err != nil {
		c.emitError(err.Error())
		return
	}
	state := resp.(*queries.GetStateResponse)
	rt.hub.Broadcast(EventStateUpdate, state.Update())
}

func (rt *Router) handleGetPackages(ctx context.Context, c *Client) {
	resp, err := rt.dispatcher.Send(ctx, &queries.GetPackagesQuery{})
	if err != nil {
		c.emitError(err.Error())
		return
	}
	rt.hub.Broadcast(EventPackagesUpdate, resp)
}

func (rt *Router) handleStartSimulation(ctx context.Context, c *Client) {
	resp, err := rt.dispatcher.Send(ctx, &commands.StartSimulationCommand{})
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventSimulationStarted, resp)
}

func (rt *Router) handleStopSimulation(ctx context.Context, c *Client) {
	resp, err := rt.dispatcher.Send(ctx, &commands.StopSimulationCommand{})
	if err != nil {
		c.emitError(err.Error())
		return
	}
	c.emit(EventSimulationStopped, resp)
}

func (rt *Router) handleResetSimulation(ctx context.Context, c *Client) {
	resp, err := rt.dispatcher.Send(ctx, &commands.ResetSimulationCommand{})
	if err != nil {
		c.emitError(err.Error())
		return
	}
	// Everyone resyncs against the rebuilt floor
	rt.hub.Broadcast(EventSimulationReset, resp)
}

// pushState sends the current snapshot to one client, so late joiners
// render the live floor immediately. Quiet when nothing is initialized.
func (rt *Router) pushState(ctx context.Context, c *Client) {
	resp, err := rt.dispatcher.Send(ctx, &queries.GetStateQuery{})
	if err != nil {
		return
	}
	state := resp.(*queries.GetStateResponse)
	c.emit(EventStateUpdate, state.Update())
}

func (rt *Router) broadcastRobots(ctx context.Context) {
	resp, err := rt.dispatcher.Send(ctx, &queries.GetRobotsQuery{})
	if err != nil {
		return
	}
	rt.hub.Broadcast(EventRobotsUpdate, resp)
}

func (rt *Router) broadcastPackages(ctx context.Context) {
	resp, err := rt.dispatcher.Send(ctx, &queries.GetPackagesQuery{})
	if err != nil {
		return
	}
	rt.hub.Broadcast(EventPackagesUpdate, resp)
}

// TickFunc composes one auto-run tick: advance, fan out updates and
// report completion so the loop stops itself.
func (rt *Router) TickFunc() sim.TickFunc {
	return func(ctx context.Context) error {
		ctx = common.WithLogger(ctx, rt.logger)
		step, err := rt.stepOnce(ctx)
		if err != nil {
			rt.logger.Log("error", "auto-run tick failed", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		if step.AllReachedGoal {
			rt.hub.Broadcast(EventSimulationStopped, StoppedDTO{Reason: StopReasonCompleted})
			rt.logger.Log("info", "auto-run complete: all robots reached their goals", map[string]interface{}{
				"tick": step.Tick,
			})
			return sim.ErrSimulationComplete
		}
		return nil
	}
}
