package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/dtos"
)

// GetPackagesQuery asks for the current package ledger
type GetPackagesQuery struct{}

// GetPackagesResponse doubles as the packages_update payload
type GetPackagesResponse struct {
	ActivePackages    []dtos.PackageDTO `json:"active_packages"`
	DeliveredPackages []dtos.PackageDTO `json:"delivered_packages"`
	TotalDelivered    int               `json:"total_delivered"`
}

// GetPackagesHandler handles the GetPackages query
type GetPackagesHandler struct {
	session *sim.Session
}

// NewGetPackagesHandler creates a new GetPackagesHandler
func NewGetPackagesHandler(session *sim.Session) *GetPackagesHandler {
	return &GetPackagesHandler{session: session}
}

// Handle executes the GetPackages query
func (h *GetPackagesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*GetPackagesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetPackagesQuery")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	return &GetPackagesResponse{
		ActivePackages:    dtos.PackagesToDTO(m.ActivePackages()),
		DeliveredPackages: dtos.PackagesToDTO(m.DeliveredPackages()),
		TotalDelivered:    m.TotalDelivered(),
	}, nil
}
