package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// RemoveObstacleCommand frees a blocked cell. Robots keep their current
// routes; later replans shorten them naturally.
type RemoveObstacleCommand struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RemoveObstacleResponse is the obstacle_removed payload
type RemoveObstacleResponse struct {
	Obstacle  dtos.CellDTO   `json:"obstacle"`
	Obstacles []dtos.CellDTO `json:"obstacles"`
}

// RemoveObstacleHandler handles the RemoveObstacle command
type RemoveObstacleHandler struct {
	session *sim.Session
}

// NewRemoveObstacleHandler creates a new RemoveObstacleHandler
func NewRemoveObstacleHandler(session *sim.Session) *RemoveObstacleHandler {
	return &RemoveObstacleHandler{session: session}
}

// Handle executes the RemoveObstacle command
func (h *RemoveObstacleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveObstacleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveObstacleCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	cell := shared.NewCell(cmd.X, cmd.Y)
	if err := m.RemoveObstacle(cell); err != nil {
		return nil, err
	}

	return &RemoveObstacleResponse{
		Obstacle:  dtos.CellToDTO(cell),
		Obstacles: dtos.CellsToDTO(m.Grid().Obstacles()),
	}, nil
}
