// Package queries holds the read-only half of the simulation's command
// surface: full state snapshots, package listings and the route export.
package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
)

// GetStateQuery asks for the complete simulation snapshot
type GetStateQuery struct{}

// GetStateResponse is the full snapshot: the floor, the fleet and both
// package lists
type GetStateResponse struct {
	GridSize               dtos.GridSizeDTO      `json:"grid_size"`
	Robots                 []dtos.RobotDTO       `json:"robots"`
	Obstacles              []dtos.CellDTO        `json:"obstacles"`
	ChargingStations       []dtos.StationDTO     `json:"charging_stations"`
	AllReachedGoal         bool                  `json:"all_reached_goal"`
	TotalPackagesDelivered int                   `json:"total_packages_delivered"`
	ActivePackages         []dtos.PackageDTO     `json:"active_packages"`
	DeliveredPackages      []dtos.PackageDTO     `json:"delivered_packages"`
	DeliveredPackagesStats dtos.DeliveryStatsDTO `json:"delivered_packages_stats"`
}

// StateUpdateDTO is the lighter state_update broadcast: same snapshot
// with the active packages collapsed to a count and the delivered list
// dropped, so 2000-package floors do not flood every client
type StateUpdateDTO struct {
	GridSize               dtos.GridSizeDTO      `json:"grid_size"`
	Robots                 []dtos.RobotDTO       `json:"robots"`
	Obstacles              []dtos.CellDTO        `json:"obstacles"`
	ChargingStations       []dtos.StationDTO     `json:"charging_stations"`
	AllReachedGoal         bool                  `json:"all_reached_goal"`
	TotalPackagesDelivered int                   `json:"total_packages_delivered"`
	ActivePackages         int                   `json:"active_packages"`
	DeliveredPackagesStats dtos.DeliveryStatsDTO `json:"delivered_packages_stats"`
}

// Update derives the broadcast shape from the full snapshot
func (r *GetStateResponse) Update() StateUpdateDTO {
	return StateUpdateDTO{
		GridSize:               r.GridSize,
		Robots:                 r.Robots,
		Obstacles:              r.Obstacles,
		ChargingStations:       r.ChargingStations,
		AllReachedGoal:         r.AllReachedGoal,
		TotalPackagesDelivered: r.TotalPackagesDelivered,
		ActivePackages:         len(r.ActivePackages),
		DeliveredPackagesStats: r.DeliveredPackagesStats,
	}
}

// GetStateHandler handles the GetState query
type GetStateHandler struct {
	session *sim.Session
}

// NewGetStateHandler creates a new GetStateHandler
func NewGetStateHandler(session *sim.Session) *GetStateHandler {
	return &GetStateHandler{session: session}
}

// Handle executes the GetState query
func (h *GetStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*GetStateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStateQuery")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	return &GetStateResponse{
		GridSize:               dtos.GridSizeDTO{Width: m.Grid().Width(), Height: m.Grid().Height()},
		Robots:                 dtos.RobotsToDTO(m.Robots()),
		Obstacles:              dtos.CellsToDTO(m.Grid().Obstacles()),
		ChargingStations:       dtos.StationsToDTO(m.Stations()),
		AllReachedGoal:         m.AllRobotsReachedGoal(),
		TotalPackagesDelivered: m.TotalDelivered(),
		ActivePackages:         dtos.PackagesToDTO(m.ActivePackages()),
		DeliveredPackages:      dtos.PackagesToDTO(m.DeliveredPackages()),
		DeliveredPackagesStats: dtos.DeliveryStatsToDTO(m),
	}, nil
}
