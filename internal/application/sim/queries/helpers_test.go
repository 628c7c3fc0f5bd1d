package queries_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

func cell(x, y int) shared.Cell { return shared.NewCell(x, y) }

// newSession wraps a hand-built floor in a session
func newSession(t *testing.T, width, height int) (*sim.Session, *warehouse.Model) {
	t.Helper()
	m, err := warehouse.New(width, height, warehouse.Config{Seed: 1})
	require.NoError(t, err)
	s := sim.NewSession()
	s.Install(m, nil)
	return s, m
}

// newDeliveredFixture builds a corridor floor and runs one package all
// the way to delivery: picked at tick 0, dropped at tick 2
func newDeliveredFixture(t *testing.T) (*sim.Session, *warehouse.Model) {
	t.Helper()
	session, m := newSession(t, 4, 1)
	_, err := m.AddRobot(cell(0, 0), cell(0, 0), robot.Config{Idle: true})
	require.NoError(t, err)
	_, err = m.CreatePackage(cell(1, 0), cell(3, 0))
	require.NoError(t, err)
	require.NoError(t, m.AssignPackage(1, 1))

	for i := 0; i < 5 && m.TotalDelivered() == 0; i++ {
		m.Step()
	}
	require.Equal(t, 1, m.TotalDelivered())
	return session, m
}
