package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
)

// ResetSimulationCommand stops the auto-run loop and rebuilds a fresh
// model from the configuration initialize last ran with
type ResetSimulationCommand struct{}

// ResetSimulationResponse mirrors the initialization_complete payload,
// since a reset looks like a fresh initialize to clients
type ResetSimulationResponse struct {
	GridSize  dtos.GridSizeDTO  `json:"grid_size"`
	Robots    []dtos.RobotDTO   `json:"robots"`
	Obstacles []dtos.CellDTO    `json:"obstacles"`
	Stations  []dtos.StationDTO `json:"charging_stations"`
}

// ResetSimulationHandler handles the ResetSimulation command
type ResetSimulationHandler struct {
	session *sim.Session
	runner  *sim.Runner
}

// NewResetSimulationHandler creates a new ResetSimulationHandler
func NewResetSimulationHandler(session *sim.Session, runner *sim.Runner) *ResetSimulationHandler {
	return &ResetSimulationHandler{session: session, runner: runner}
}

// Handle executes the ResetSimulation command
func (h *ResetSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*ResetSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResetSimulationCommand")
	}

	h.runner.Stop()
	m, err := h.session.Reset()
	if err != nil {
		return nil, err
	}
	common.LoggerFromContext(ctx).Log("info", "simulation reset", nil)

	return &ResetSimulationResponse{
		GridSize:  dtos.GridSizeDTO{Width: m.Grid().Width(), Height: m.Grid().Height()},
		Robots:    dtos.RobotsToDTO(m.Robots()),
		Obstacles: dtos.CellsToDTO(m.Grid().Obstacles()),
		Stations:  dtos.StationsToDTO(m.Stations()),
	}, nil
}
