package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// AddStationCommand places a charging station. A zero rate falls back
// to the station default.
type AddStationCommand struct {
	X            int     `json:"x"`
	Y            int     `json:"y"`
	ChargingRate float64 `json:"charging_rate"`
}

// AddStationResponse is the charging_station_added payload
type AddStationResponse struct {
	Station     dtos.StationDTO     `json:"charging_station"`
	Stations    []dtos.StationDTO   `json:"charging_stations"`
	RobotsPaths []dtos.RobotPathDTO `json:"robots_paths"`
}

// AddStationHandler handles the AddStation command
type AddStationHandler struct {
	session *sim.Session
}

// NewAddStationHandler creates a new AddStationHandler
func NewAddStationHandler(session *sim.Session) *AddStationHandler {
	return &AddStationHandler{session: session}
}

// Handle executes the AddStation command
func (h *AddStationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddStationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddStationCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	st, err := m.AddStation(shared.NewCell(cmd.X, cmd.Y), cmd.ChargingRate)
	if err != nil {
		return nil, err
	}

	return &AddStationResponse{
		Station:     dtos.StationToDTO(st),
		Stations:    dtos.StationsToDTO(m.Stations()),
		RobotsPaths: dtos.RobotPathsToDTO(m.Robots()),
	}, nil
}
