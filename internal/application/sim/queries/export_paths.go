package queries

import (
	"bytes"
	"context"
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
)

// ExportPathsQuery asks for a plain-text dump of every robot's
// remaining route
type ExportPathsQuery struct{}

// ExportPathsResponse carries the suggested attachment name and the
// rendered file body
type ExportPathsResponse struct {
	Filename string
	Content  []byte
}

// ExportPathsHandler handles the ExportPaths query
type ExportPathsHandler struct {
	session *sim.Session
}

// NewExportPathsHandler creates a new ExportPathsHandler
func NewExportPathsHandler(session *sim.Session) *ExportPathsHandler {
	return &ExportPathsHandler{session: session}
}

// Handle executes the ExportPaths query
func (h *ExportPathsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	_, ok := request.(*ExportPathsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExportPathsQuery")
	}
	m, err := h.session.Model()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := m.ExportPaths(&buf); err != nil {
		return nil, err
	}

	return &ExportPathsResponse{
		Filename: m.ExportFilename(),
		Content:  buf.Bytes(),
	}, nil
}
