package sim_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

func newFloor(t *testing.T) *warehouse.Model {
	t.Helper()
	m, err := warehouse.New(5, 5, warehouse.Config{Seed: 1})
	require.NoError(t, err)
	return m
}

func TestSession_ModelBeforeInitialize(t *testing.T) {
	s := sim.NewSession()

	_, err := s.Model()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation has not been initialized")
	assert.False(t, s.Initialized())
}

func TestSession_InstallMakesTheModelLive(t *testing.T) {
	s := sim.NewSession()
	m := newFloor(t)

	s.Install(m, func() (*warehouse.Model, error) { return newFloor(t), nil })

	got, err := s.Model()
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.True(t, s.Initialized())
}

func TestSession_ResetRebuildsAFreshModel(t *testing.T) {
	s := sim.NewSession()
	first := newFloor(t)
	s.Install(first, func() (*warehouse.Model, error) { return newFloor(t), nil })

	fresh, err := s.Reset()

	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	got, err := s.Model()
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestSession_ResetBeforeInitialize(t *testing.T) {
	s := sim.NewSession()

	_, err := s.Reset()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to reset")
}

func TestSession_ResetKeepsTheOldModelOnRebuildFailure(t *testing.T) {
	s := sim.NewSession()
	m := newFloor(t)
	rebuildErr := errors.New("blueprint went missing")
	s.Install(m, func() (*warehouse.Model, error) { return nil, rebuildErr })

	_, err := s.Reset()

	require.ErrorIs(t, err, rebuildErr)
	got, err := s.Model()
	require.NoError(t, err)
	assert.Same(t, m, got, "a failed reset must not drop the live model")
}
