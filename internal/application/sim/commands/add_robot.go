package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// AddRobotCommand places a new robot mid-run. The goal defaults to the
// start cell and idle defaults to true, matching the frontend's "drop a
// parked robot" gesture.
type AddRobotCommand struct {
	StartX           int      `json:"start_x"`
	StartY           int      `json:"start_y"`
	GoalX            *int     `json:"goal_x"`
	GoalY            *int     `json:"goal_y"`
	Color            string   `json:"color"`
	Idle             *bool    `json:"idle"`
	MaxBattery       float64  `json:"max_battery"`
	BatteryLevel     *float64 `json:"battery_level"`
	BatteryDrainRate float64  `json:"battery_drain_rate"`
}

// AddRobotResponse is the robot_added payload
type AddRobotResponse struct {
	Robot dtos.RobotDTO `json:"robot"`
}

// AddRobotHandler handles the AddRobot command
type AddRobotHandler struct {
	session *sim.Session
}

// NewAddRobotHandler creates a new AddRobotHandler
func NewAddRobotHandler(session *sim.Session) *AddRobotHandler {
	return &AddRobotHandler{session: session}
}

// Handle executes the AddRobot command
func (h *AddRobotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddRobotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddRobotCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	start := shared.NewCell(cmd.StartX, cmd.StartY)
	goal := start
	if cmd.GoalX != nil && cmd.GoalY != nil {
		goal = shared.NewCell(*cmd.GoalX, *cmd.GoalY)
	}
	idle := true
	if cmd.Idle != nil {
		idle = *cmd.Idle
	}
	color := cmd.Color
	if color == "" {
		color = "blue"
	}

	r, err := m.AddRobot(start, goal, robot.Config{
		MaxBattery:       cmd.MaxBattery,
		BatteryLevel:     cmd.BatteryLevel,
		BatteryDrainRate: cmd.BatteryDrainRate,
		Color:            color,
		Idle:             idle,
	})
	if err != nil {
		return nil, err
	}

	return &AddRobotResponse{Robot: dtos.RobotToDTO(r)}, nil
}
