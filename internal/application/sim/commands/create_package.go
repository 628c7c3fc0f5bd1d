package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// CreatePackageCommand registers one delivery job. With no cells given
// the pickup and delivery are drawn from the configured pools.
type CreatePackageCommand struct {
	Pickup   *dtos.CellDTO `json:"pickup"`
	Delivery *dtos.CellDTO `json:"delivery"`
}

// CreatePackageResponse is the package_created payload
type CreatePackageResponse struct {
	Package dtos.PackageDTO `json:"package"`
}

// CreatePackageHandler handles the CreatePackage command
type CreatePackageHandler struct {
	session *sim.Session
}

// NewCreatePackageHandler creates a new CreatePackageHandler
func NewCreatePackageHandler(session *sim.Session) *CreatePackageHandler {
	return &CreatePackageHandler{session: session}
}

// Handle executes the CreatePackage command
func (h *CreatePackageHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreatePackageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreatePackageCommand")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	var pkg *parcel.Package
	switch {
	case cmd.Pickup == nil && cmd.Delivery == nil:
		pkg, err = m.CreateRandomPackage()
	case cmd.Pickup != nil && cmd.Delivery != nil:
		pickup := shared.NewCell(cmd.Pickup.X, cmd.Pickup.Y)
		delivery := shared.NewCell(cmd.Delivery.X, cmd.Delivery.Y)
		pkg, err = m.CreatePackage(pickup, delivery)
	default:
		return nil, shared.NewValidationError("pickup", "pickup and delivery must be given together")
	}
	if err != nil {
		return nil, err
	}

	return &CreatePackageResponse{Package: dtos.PackageToDTO(pkg)}, nil
}
