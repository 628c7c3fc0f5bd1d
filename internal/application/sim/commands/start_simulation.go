package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
)

// StartSimulationCommand launches the auto-run loop
type StartSimulationCommand struct{}

// StartSimulationResponse is the simulation_started payload
type StartSimulationResponse struct {
	Message string `json:"message"`

	Started bool `json:"-"`
}

// StartSimulationHandler handles the StartSimulation command
type StartSimulationHandler struct {
	session *sim.Session
	runner  *sim.Runner
}

// NewStartSimulationHandler creates a new StartSimulationHandler
func NewStartSimulationHandler(session *sim.Session, runner *sim.Runner) *StartSimulationHandler {
	return &StartSimulationHandler{session: session, runner: runner}
}

// Handle executes the StartSimulation command
func (h *StartSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*StartSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartSimulationCommand")
	}
	if _, err := h.session.Model(); err != nil {
		return nil, err
	}

	started := h.runner.Start()
	if started {
		common.LoggerFromContext(ctx).Log("info", "auto-run started", nil)
		return &StartSimulationResponse{Message: "simulation started", Started: true}, nil
	}
	return &StartSimulationResponse{Message: "simulation already running"}, nil
}
