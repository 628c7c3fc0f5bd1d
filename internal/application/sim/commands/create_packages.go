package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
)

// CreatePackagesCommand registers a batch of random packages
type CreatePackagesCommand struct {
	Count int `json:"count"`
}

// CreatePackagesResponse is the packages_created payload
type CreatePackagesResponse struct {
	Packages     []dtos.PackageDTO `json:"packages"`
	TotalCreated int               `json:"total_created"`
}

// CreatePackagesHandler handles the CreatePackages command
type CreatePackagesHandler struct {
	session *sim.Session
}

// NewCreatePackagesHandler creates a new CreatePackagesHandler
func NewCreatePackagesHandler(session *sim.Session) *CreatePackagesHandler {
	return &CreatePackagesHandler{session: session}
}

// Handle executes the CreatePackages command
func (h *CreatePackagesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreatePackagesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreatePackagesCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	created, err := m.CreatePackages(cmd.Count)
	if err != nil {
		return nil, err
	}

	return &CreatePackagesResponse{
		Packages:     dtos.PackagesToDTO(created),
		TotalCreated: len(created),
	}, nil
}
