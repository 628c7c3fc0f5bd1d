package parcel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

func newPackage(t *testing.T) *parcel.Package {
	t.Helper()
	p, err := parcel.New(1, shared.NewCell(5, 0), shared.NewCell(5, 9), 0)
	require.NoError(t, err)
	return p
}

func TestNew_Validation(t *testing.T) {
	_, err := parcel.New(0, shared.NewCell(0, 0), shared.NewCell(1, 1), 0)
	assert.Error(t, err)

	_, err = parcel.New(1, shared.NewCell(3, 3), shared.NewCell(3, 3), 0)
	assert.Error(t, err)
}

func TestPackage_FullLifecycle(t *testing.T) {
	// Arrange
	p := newPackage(t)
	assert.Equal(t, parcel.StatusWaiting, p.Status())
	assert.Equal(t, p.Pickup(), p.Destination())

	// Act & Assert: waiting → assigned
	require.NoError(t, p.Assign(3, 2))
	assert.Equal(t, parcel.StatusAssigned, p.Status())
	robotID, ok := p.AssignedRobot()
	assert.True(t, ok)
	assert.Equal(t, 3, robotID)
	require.NotNil(t, p.AssignedTick())
	assert.Equal(t, 2, *p.AssignedTick())
	// Destination is still the pickup cell
	assert.Equal(t, p.Pickup(), p.Destination())

	// assigned → picked switches the destination
	require.NoError(t, p.Pick(3, 7))
	assert.Equal(t, parcel.StatusPicked, p.Status())
	assert.Equal(t, p.Delivery(), p.Destination())

	// picked → delivered
	require.NoError(t, p.Deliver(3, 16))
	assert.Equal(t, parcel.StatusDelivered, p.Status())
	assert.False(t, p.IsActive())

	duration, ok := p.DeliveryDuration()
	assert.True(t, ok)
	assert.Equal(t, 9, duration)
}

func TestPackage_Assign_RejectsNonWaiting(t *testing.T) {
	p := newPackage(t)
	require.NoError(t, p.Assign(1, 0))

	err := p.Assign(2, 1)

	var invalid *shared.InvalidAssignmentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, p.ID(), invalid.PackageID)
}

func TestPackage_Pick_RequiresAssignedRobot(t *testing.T) {
	p := newPackage(t)

	// Picking while waiting is an inconsistency
	err := p.Pick(1, 0)
	var inconsistency *shared.InternalInconsistencyError
	assert.ErrorAs(t, err, &inconsistency)

	// Picking by the wrong robot too
	require.NoError(t, p.Assign(1, 0))
	assert.Error(t, p.Pick(2, 1))
	require.NoError(t, p.Pick(1, 1))
}

func TestPackage_Revert(t *testing.T) {
	// Arrange: a picked package whose robot gives up
	p := newPackage(t)
	require.NoError(t, p.Assign(1, 0))
	require.NoError(t, p.Pick(1, 3))

	// Act
	require.NoError(t, p.Revert())

	// Assert: back in the waiting pool with progress wiped
	assert.Equal(t, parcel.StatusWaiting, p.Status())
	_, assigned := p.AssignedRobot()
	assert.False(t, assigned)
	assert.Nil(t, p.PickedTick())
	assert.Equal(t, p.Pickup(), p.Destination())

	// The package can go through a fresh lifecycle afterwards
	require.NoError(t, p.Assign(2, 10))
}

func TestPackage_Revert_RejectedAfterDelivery(t *testing.T) {
	p := newPackage(t)
	require.NoError(t, p.Assign(1, 0))
	require.NoError(t, p.Pick(1, 1))
	require.NoError(t, p.Deliver(1, 2))

	assert.Error(t, p.Revert())
}

func TestPackage_DeliveryDuration_UnsetUntilDelivered(t *testing.T) {
	p := newPackage(t)

	_, ok := p.DeliveryDuration()

	assert.False(t, ok)
}
