// Package commands holds the mutating half of the simulation's command
// surface. Every command is a mediator request carrying the wire shape
// the websocket transport decodes into; handlers run under the
// dispatcher lock and talk to the model directly.
package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// ThresholdsDTO is the fleet-wide battery threshold block accepted at
// initialize. Zero values keep the robot defaults.
type ThresholdsDTO struct {
	LowBattery float64 `json:"low_battery"`
	Critical   float64 `json:"critical"`
	Emergency  float64 `json:"emergency"`
}

// InitializeCommand builds a fresh warehouse. Either a custom floor
// (width, height and explicit robots, stations and obstacles) or the
// stock layout when use_default_layout is set.
type InitializeCommand struct {
	Width            int                  `json:"width"`
	Height           int                  `json:"height"`
	Robots           []dtos.RobotSetupDTO `json:"robots"`
	Stations         []dtos.StationDTO    `json:"charging_stations"`
	Obstacles        []dtos.CellDTO       `json:"obstacles"`
	UseDefaultLayout bool                 `json:"use_default_layout"`
	InitialPackages  int                  `json:"initial_packages"`
	Thresholds       *ThresholdsDTO       `json:"thresholds"`
	Seed             int64                `json:"seed"`
	TickRate         float64              `json:"tick_rate"`
}

// InitializeResponse is the initialization_complete payload. The created
// packages and the first pairing round ride along unserialized so the
// transport can emit their own events.
type InitializeResponse struct {
	GridSize  dtos.GridSizeDTO  `json:"grid_size"`
	Robots    []dtos.RobotDTO   `json:"robots"`
	Obstacles []dtos.CellDTO    `json:"obstacles"`
	Stations  []dtos.StationDTO `json:"charging_stations"`

	Packages    []dtos.PackageDTO         `json:"-"`
	Assignments []dtos.PackageAssignedDTO `json:"-"`
}

// InitializeHandler handles the Initialize command
type InitializeHandler struct {
	session *sim.Session
	runner  *sim.Runner
	clock   shared.Clock
}

// NewInitializeHandler creates a new InitializeHandler
func NewInitializeHandler(session *sim.Session, runner *sim.Runner, clock shared.Clock) *InitializeHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &InitializeHandler{session: session, runner: runner, clock: clock}
}

// Handle executes the Initialize command
func (h *InitializeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*InitializeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *InitializeCommand")
	}

	// A fresh floor starts paused even when the previous one was auto-running
	if h.runner != nil {
		h.runner.Stop()
	}

	m, assignments, err := h.build(cmd)
	if err != nil {
		return nil, err
	}

	blueprint := *cmd
	h.session.Install(m, func() (*warehouse.Model, error) {
		fresh, _, err := h.build(&blueprint)
		return fresh, err
	})
	if h.runner != nil && cmd.TickRate > 0 {
		h.runner.SetRate(cmd.TickRate)
	}

	return &InitializeResponse{
		GridSize:    dtos.GridSizeDTO{Width: m.Grid().Width(), Height: m.Grid().Height()},
		Robots:      dtos.RobotsToDTO(m.Robots()),
		Obstacles:   dtos.CellsToDTO(m.Grid().Obstacles()),
		Stations:    dtos.StationsToDTO(m.Stations()),
		Packages:    dtos.PackagesToDTO(m.Packages()),
		Assignments: dtos.AssignmentsToDTO(m, assignments),
	}, nil
}

// build constructs a model from the command, creates the initial
// package pool and runs the first pairing round
func (h *InitializeHandler) build(cmd *InitializeCommand) (*warehouse.Model, []warehouse.Assignment, error) {
	cfg := warehouse.Config{Seed: cmd.Seed, Clock: h.clock}

	var m *warehouse.Model
	var err error
	count := cmd.InitialPackages

	if cmd.UseDefaultLayout {
		layout := warehouse.DefaultLayout()
		m, err = warehouse.NewFromLayout(layout, cfg)
		if err != nil {
			return nil, nil, err
		}
		if count == 0 {
			count = layout.InitialPackages
		}
	} else {
		m, err = warehouse.New(cmd.Width, cmd.Height, cfg)
		if err != nil {
			return nil, nil, err
		}
		for _, st := range cmd.Stations {
			if _, err := m.AddStation(shared.NewCell(st.X, st.Y), st.ChargingRate); err != nil {
				return nil, nil, err
			}
		}
		for _, spec := range cmd.Robots {
			rcfg := h.robotConfig(spec, cmd.Thresholds)
			start := shared.NewCell(spec.Start.X, spec.Start.Y)
			goal := shared.NewCell(spec.Goal.X, spec.Goal.Y)
			if _, err := m.AddRobot(start, goal, rcfg); err != nil {
				return nil, nil, err
			}
		}
		for _, c := range cmd.Obstacles {
			if _, err := m.AddObstacle(shared.NewCell(c.X, c.Y)); err != nil {
				return nil, nil, err
			}
		}
	}

	if count > 0 {
		if _, err := m.CreatePackages(count); err != nil {
			return nil, nil, err
		}
	}
	assignments := m.AssignWaitingPackages()
	return m, assignments, nil
}

func (h *InitializeHandler) robotConfig(spec dtos.RobotSetupDTO, t *ThresholdsDTO) robot.Config {
	cfg := robot.Config{
		MaxBattery:            spec.MaxBattery,
		BatteryLevel:          spec.BatteryLevel,
		BatteryDrainRate:      spec.BatteryDrainRate,
		EnergySavingDrainRate: spec.EnergySavingDrainRate,
		Color:                 spec.Color,
		Idle:                  spec.Idle,
	}
	if t != nil {
		cfg.LowBatteryThreshold = t.LowBattery
		cfg.CriticalBatteryThreshold = t.Critical
		cfg.EmergencyBatteryThreshold = t.Emergency
	}
	return cfg
}
