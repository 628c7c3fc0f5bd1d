// Package sim owns the live simulation shared by every handler: the
// current warehouse model, the dispatcher that serializes access to it
// and the auto-run loop that steps it on a timer.
package sim

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// Session holds the model handlers operate on. Initialize installs a
// model together with a rebuild function that reproduces it from the
// same configuration, which is what reset replays. Access runs under
// the Dispatcher's lock; Session itself does no locking.
type Session struct {
	model   *warehouse.Model
	rebuild func() (*warehouse.Model, error)
}

// NewSession creates a session with no model installed
func NewSession() *Session {
	return &Session{}
}

// Model returns the live model, or an error when initialize has not
// run yet
func (s *Session) Model() (*warehouse.Model, error) {
	if s.model == nil {
		return nil, shared.NewDomainError("simulation has not been initialized")
	}
	return s.model, nil
}

// Initialized reports whether a model is installed
func (s *Session) Initialized() bool {
	return s.model != nil
}

// Install replaces the live model and remembers how to rebuild it
func (s *Session) Install(m *warehouse.Model, rebuild func() (*warehouse.Model, error)) {
	s.model = m
	s.rebuild = rebuild
}

// Reset rebuilds a fresh model from the last installed configuration
// and makes it the live one
func (s *Session) Reset() (*warehouse.Model, error) {
	if s.rebuild == nil {
		return nil, shared.NewDomainError("nothing to reset: simulation has not been initialized")
	}
	m, err := s.rebuild()
	if err != nil {
		return nil, err
	}
	s.model = m
	return m, nil
}
