package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
)

// GetRobotsQuery asks for the per-robot delta the dashboard consumes
// between full snapshots
type GetRobotsQuery struct{}

// GetRobotsResponse doubles as the robots_update payload
type GetRobotsResponse struct {
	Robots         []dtos.RobotDeltaDTO `json:"robots"`
	AllReachedGoal bool                 `json:"all_reached_goal"`
}

// GetRobotsHandler handles the GetRobots query
type GetRobotsHandler struct {
	session *sim.Session
}

// NewGetRobotsHandler creates a new GetRobotsHandler
func NewGetRobotsHandler(session *sim.Session) *GetRobotsHandler {
	return &GetRobotsHandler{session: session}
}

// Handle executes the GetRobots query
func (h *GetRobotsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*GetRobotsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRobotsQuery")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	return &GetRobotsResponse{
		Robots:         dtos.RobotsToDeltas(m.Robots()),
		AllReachedGoal: m.AllRobotsReachedGoal(),
	}, nil
}
