package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
)

// StopSimulationCommand halts the auto-run loop
type StopSimulationCommand struct{}

// StopSimulationResponse is the simulation_stopped payload
type StopSimulationResponse struct {
	Reason string `json:"reason"`

	Stopped bool `json:"-"`
}

// StopSimulationHandler handles the StopSimulation command
type StopSimulationHandler struct {
	runner *sim.Runner
}

// NewStopSimulationHandler creates a new StopSimulationHandler
func NewStopSimulationHandler(runner *sim.Runner) *StopSimulationHandler {
	return &StopSimulationHandler{runner: runner}
}

// Handle executes the StopSimulation command
func (h *StopSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*StopSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StopSimulationCommand")
	}

	stopped := h.runner.Stop()
	if stopped {
		common.LoggerFromContext(ctx).Log("info", "auto-run stopped", nil)
	}
	return &StopSimulationResponse{Reason: "user_request", Stopped: stopped}, nil
}
