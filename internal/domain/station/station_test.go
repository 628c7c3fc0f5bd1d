package station_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

func newStation(t *testing.T) *station.ChargingStation {
	t.Helper()
	s, err := station.New(shared.NewCell(5, 5), station.DefaultChargingRate)
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	_, err := station.New(shared.NewCell(0, 0), 0)
	assert.Error(t, err)

	_, err = station.New(shared.NewCell(0, 0), -1)
	assert.Error(t, err)
}

func TestChargingStation_FIFOOrder(t *testing.T) {
	// Arrange
	s := newStation(t)
	s.Enqueue(1)
	s.Enqueue(2)

	// Assert: only the head may start
	assert.True(t, s.IsNextInQueue(1))
	assert.False(t, s.IsNextInQueue(2))

	// Act: head takes the slot
	require.NoError(t, s.StartCharging(1))

	// Assert: slot busy blocks the next robot until release
	assert.False(t, s.IsNextInQueue(2))
	require.NoError(t, s.FinishCharging(1))
	assert.True(t, s.IsNextInQueue(2))
}

func TestChargingStation_DuplicateEnqueueIsNoOp(t *testing.T) {
	s := newStation(t)
	s.Enqueue(1)
	s.Enqueue(1)

	assert.Equal(t, 1, s.QueueLength())

	// A charging robot cannot re-enter the queue either
	require.NoError(t, s.StartCharging(1))
	s.Enqueue(1)
	assert.Equal(t, 0, s.QueueLength())
}

func TestChargingStation_StartCharging_RequiresHeadAndFreeSlot(t *testing.T) {
	s := newStation(t)
	s.Enqueue(1)
	s.Enqueue(2)

	// Not the head
	assert.Error(t, s.StartCharging(2))

	require.NoError(t, s.StartCharging(1))

	// Slot already held
	assert.Error(t, s.StartCharging(2))
}

func TestChargingStation_FinishCharging_WrongRobot(t *testing.T) {
	s := newStation(t)
	s.Enqueue(1)
	require.NoError(t, s.StartCharging(1))

	err := s.FinishCharging(2)

	var inconsistency *shared.InternalInconsistencyError
	assert.ErrorAs(t, err, &inconsistency)
}

func TestChargingStation_Dequeue(t *testing.T) {
	// Arrange
	s := newStation(t)
	s.Enqueue(1)
	s.Enqueue(2)
	s.Enqueue(3)

	// Act: remove from the middle
	s.Dequeue(2)

	// Assert
	assert.Equal(t, 2, s.QueueLength())
	assert.False(t, s.Contains(2))
	require.NoError(t, s.StartCharging(1))
	assert.True(t, s.IsNextInQueue(3))
}

func TestChargingStation_DequeueReleasesSlot(t *testing.T) {
	// A deadlock reset must free the slot, not just the queue
	s := newStation(t)
	s.Enqueue(1)
	s.Enqueue(2)
	require.NoError(t, s.StartCharging(1))

	s.Dequeue(1)

	holder, busy := s.SlotHolder()
	assert.False(t, busy)
	assert.Zero(t, holder)
	assert.True(t, s.IsNextInQueue(2))
}

func TestChargingStation_Occupation(t *testing.T) {
	s := newStation(t)
	assert.Equal(t, 0, s.Occupation())

	s.Enqueue(1)
	s.Enqueue(2)
	assert.Equal(t, 2, s.Occupation())

	require.NoError(t, s.StartCharging(1))
	assert.Equal(t, 2, s.Occupation())

	require.NoError(t, s.FinishCharging(1))
	assert.Equal(t, 1, s.Occupation())
}

func TestChargingStation_Contains(t *testing.T) {
	s := newStation(t)
	s.Enqueue(7)

	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(8))

	require.NoError(t, s.StartCharging(7))
	assert.True(t, s.Contains(7))
}
