package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// ChangeGoalCommand points a robot at a new goal. The route is planned
// before anything mutates, so an unreachable goal is a clean failure.
type ChangeGoalCommand struct {
	RobotID int `json:"robot_id"`
	GoalX   int `json:"goal_x"`
	GoalY   int `json:"goal_y"`
}

// ChangeGoalResponse is the goal_changed payload
type ChangeGoalResponse struct {
	RobotID int            `json:"robot_id"`
	Goal    dtos.CellDTO   `json:"goal"`
	Path    []dtos.CellDTO `json:"path"`
}

// ChangeGoalHandler handles the ChangeGoal command
type ChangeGoalHandler struct {
	session *sim.Session
}

// NewChangeGoalHandler creates a new ChangeGoalHandler
func NewChangeGoalHandler(session *sim.Session) *ChangeGoalHandler {
	return &ChangeGoalHandler{session: session}
}

// Handle executes the ChangeGoal command
func (h *ChangeGoalHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ChangeGoalCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ChangeGoalCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	goal := shared.NewCell(cmd.GoalX, cmd.GoalY)
	path, err := m.ChangeGoal(cmd.RobotID, goal)
	if err != nil {
		return nil, err
	}

	return &ChangeGoalResponse{
		RobotID: cmd.RobotID,
		Goal:    dtos.CellToDTO(goal),
		Path:    dtos.CellsToDTO(path),
	}, nil
}
