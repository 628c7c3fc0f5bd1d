package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// AddObstacleCommand blocks one cell. Placement fails when a robot
// would be stranded, leaving the floor untouched.
type AddObstacleCommand struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AddObstacleResponse is the obstacle_added payload: the new obstacle,
// the full list and every robot's route after replanning
type AddObstacleResponse struct {
	Obstacle    dtos.CellDTO        `json:"obstacle"`
	Obstacles   []dtos.CellDTO      `json:"obstacles"`
	RobotsPaths []dtos.RobotPathDTO `json:"robots_paths"`
}

// AddObstacleHandler handles the AddObstacle command
type AddObstacleHandler struct {
	session *sim.Session
}

// NewAddObstacleHandler creates a new AddObstacleHandler
func NewAddObstacleHandler(session *sim.Session) *AddObstacleHandler {
	return &AddObstacleHandler{session: session}
}

// Handle executes the AddObstacle command
func (h *AddObstacleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddObstacleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddObstacleCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	cell := shared.NewCell(cmd.X, cmd.Y)
	if _, err := m.AddObstacle(cell); err != nil {
		return nil, err
	}

	return &AddObstacleResponse{
		Obstacle:    dtos.CellToDTO(cell),
		Obstacles:   dtos.CellsToDTO(m.Grid().Obstacles()),
		RobotsPaths: dtos.RobotPathsToDTO(m.Robots()),
	}, nil
}
