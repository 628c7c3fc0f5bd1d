package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// AssignPackageCommand hands a waiting package to a specific robot
type AssignPackageCommand struct {
	PackageID int `json:"package_id"`
	RobotID   int `json:"robot_id"`
}

// AssignPackageResponse is the package_assigned payload
type AssignPackageResponse struct {
	PackageID int                   `json:"package_id"`
	Robot     dtos.AssignedRobotDTO `json:"robot"`
}

// AssignPackageHandler handles the AssignPackage command
type AssignPackageHandler struct {
	session *sim.Session
}

// NewAssignPackageHandler creates a new AssignPackageHandler
func NewAssignPackageHandler(session *sim.Session) *AssignPackageHandler {
	return &AssignPackageHandler{session: session}
}

// Handle executes the AssignPackage command
func (h *AssignPackageHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AssignPackageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AssignPackageCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	if err := m.AssignPackage(cmd.PackageID, cmd.RobotID); err != nil {
		return nil, err
	}

	assigned := dtos.AssignmentToDTO(m, warehouse.Assignment{
		PackageID: cmd.PackageID,
		RobotID:   cmd.RobotID,
	})
	return &AssignPackageResponse{PackageID: assigned.PackageID, Robot: assigned.Robot}, nil
}
