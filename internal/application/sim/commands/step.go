package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// StepCommand advances the simulation one tick
type StepCommand struct{}

// StepResponse is the robots_update payload: the fleet after the tick.
// The pairing round and the raw summary ride along unserialized for the
// transport and the auto-run loop.
type StepResponse struct {
	Robots         []dtos.RobotDeltaDTO `json:"robots"`
	AllReachedGoal bool                 `json:"all_reached_goal"`
	Tick           int                  `json:"tick"`

	Assignments []dtos.PackageAssignedDTO `json:"-"`
	Summary     warehouse.StepSummary     `json:"-"`
}

// StepHandler handles the Step command
type StepHandler struct {
	session *sim.Session
	metrics common.MetricsRecorder
	clock   shared.Clock
}

// NewStepHandler creates a new StepHandler
func NewStepHandler(session *sim.Session, metrics common.MetricsRecorder, clock shared.Clock) *StepHandler {
	if metrics == nil {
		metrics = common.NoopMetricsRecorder{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StepHandler{session: session, metrics: metrics, clock: clock}
}

// Handle executes the Step command
func (h *StepHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*StepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StepCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	started := h.clock.Now()
	summary := m.Step()
	h.metrics.ObserveTick(h.clock.Now().Sub(started), summary)
	if sample, ok := m.Stats().Latest(); ok {
		h.metrics.RecordFleet(sample, fleetStates(m.Robots()))
	}
	h.logNotable(ctx, summary)

	return &StepResponse{
		Robots:         dtos.RobotsToDeltas(m.Robots()),
		AllReachedGoal: summary.AllAtGoal,
		Tick:           summary.Tick,
		Assignments:    dtos.AssignmentsToDTO(m, summary.Assignments),
		Summary:        summary,
	}, nil
}

// logNotable reports the tick's notable events through the context
// logger. Quiet ticks stay quiet.
func (h *StepHandler) logNotable(ctx context.Context, s warehouse.StepSummary) {
	logger := common.LoggerFromContext(ctx)
	if s.Deliveries > 0 {
		logger.Log("info", "packages delivered", map[string]interface{}{
			"tick": s.Tick, "count": s.Deliveries,
		})
	}
	if s.Depletions > 0 {
		logger.Log("warn", "robot battery depleted", map[string]interface{}{
			"tick": s.Tick, "count": s.Depletions,
		})
	}
	if s.DeadlockResets > 0 {
		logger.Log("warn", "deadlock recovery reset", map[string]interface{}{
			"tick": s.Tick, "count": s.DeadlockResets,
		})
	}
	if s.Reroutes > 0 {
		logger.Log("debug", "robots rerouted", map[string]interface{}{
			"tick": s.Tick, "count": s.Reroutes,
		})
	}
}

// fleetStates buckets the fleet for the robots-by-state gauge
func fleetStates(robots []*robot.Robot) map[string]int {
	states := map[string]int{
		"moving": 0, "charging": 0, "goal_reached": 0, "idle": 0, "halted": 0,
	}
	for _, r := range robots {
		switch {
		case r.Halted():
			states["halted"]++
		case r.Charging():
			states["charging"]++
		case r.ReachedGoal():
			states["goal_reached"]++
		case r.Idle():
			states["idle"]++
		default:
			states["moving"]++
		}
	}
	return states
}
