// Package parcel models warehouse packages and their delivery lifecycle:
// waiting → assigned → picked → delivered, with reverts back to waiting
// when the carrying robot gives up.
package parcel

import (
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// Package is a delivery job: fetch from the pickup cell, drop at the
// delivery cell. Tick counters record lifecycle progress for stats.
type Package struct {
	id            int
	pickup        shared.Cell
	delivery      shared.Cell
	status        Status
	assignedRobot int
	createdTick   int
	assignedTick  *int
	pickedTick    *int
	deliveredTick *int
}

// New creates a waiting package
func New(id int, pickup, delivery shared.Cell, createdTick int) (*Package, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "must be positive")
	}
	if pickup == delivery {
		return nil, shared.NewValidationError("delivery", "must differ from pickup")
	}

	return &Package{
		id:          id,
		pickup:      pickup,
		delivery:    delivery,
		status:      StatusWaiting,
		createdTick: createdTick,
	}, nil
}

// ID returns the package identifier
func (p *Package) ID() int {
	return p.id
}

// Pickup returns the cell where the package waits
func (p *Package) Pickup() shared.Cell {
	return p.pickup
}

// Delivery returns the destination cell
func (p *Package) Delivery() shared.Cell {
	return p.delivery
}

// Status returns the current lifecycle status
func (p *Package) Status() Status {
	return p.status
}

// AssignedRobot returns the robot working this package, if any
func (p *Package) AssignedRobot() (int, bool) {
	return p.assignedRobot, p.assignedRobot != 0
}

// Destination returns where a robot working this package should head:
// the pickup cell until the package is on board, the delivery cell after.
func (p *Package) Destination() shared.Cell {
	if p.status == StatusPicked {
		return p.delivery
	}
	return p.pickup
}

// CreatedTick returns the tick the package entered the system
func (p *Package) CreatedTick() int {
	return p.createdTick
}

// AssignedTick returns when the package was assigned (nil if never)
func (p *Package) AssignedTick() *int {
	return p.assignedTick
}

// PickedTick returns when the package was picked up (nil if never)
func (p *Package) PickedTick() *int {
	return p.pickedTick
}

// DeliveredTick returns when the package was delivered (nil if never)
func (p *Package) DeliveredTick() *int {
	return p.deliveredTick
}

// DeliveryDuration returns ticks between pickup and delivery.
// Returns false until the package is delivered.
func (p *Package) DeliveryDuration() (int, bool) {
	if p.pickedTick == nil || p.deliveredTick == nil {
		return 0, false
	}
	return *p.deliveredTick - *p.pickedTick, true
}

// Assign hands the package to a robot
func (p *Package) Assign(robotID, tick int) error {
	if !p.status.CanAdvanceTo(StatusAssigned) {
		return shared.NewInvalidAssignmentError(
			fmt.Sprintf("package %d is %s, not waiting", p.id, p.status), robotID, p.id)
	}
	if robotID <= 0 {
		return shared.NewValidationError("robotId", "must be positive")
	}

	p.status = StatusAssigned
	p.assignedRobot = robotID
	p.assignedTick = &tick
	return nil
}

// Pick puts the package on board its assigned robot
func (p *Package) Pick(robotID, tick int) error {
	if !p.status.CanAdvanceTo(StatusPicked) {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("package %d picked while %s", p.id, p.status))
	}
	if p.assignedRobot != robotID {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("package %d picked by robot %d but assigned to %d", p.id, robotID, p.assignedRobot))
	}

	p.status = StatusPicked
	p.pickedTick = &tick
	return nil
}

// Deliver completes the lifecycle at the delivery cell
func (p *Package) Deliver(robotID, tick int) error {
	if !p.status.CanAdvanceTo(StatusDelivered) {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("package %d delivered while %s", p.id, p.status))
	}
	if p.assignedRobot != robotID {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("package %d delivered by robot %d but assigned to %d", p.id, robotID, p.assignedRobot))
	}

	p.status = StatusDelivered
	p.deliveredTick = &tick
	return nil
}

// Revert returns the package to the waiting pool, abandoning any progress.
// Used when the working robot resets, runs out of options after charging,
// or halts. Delivered packages cannot revert.
func (p *Package) Revert() error {
	if p.status == StatusDelivered {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("package %d cannot revert after delivery", p.id))
	}

	p.status = StatusWaiting
	p.assignedRobot = 0
	p.assignedTick = nil
	p.pickedTick = nil
	return nil
}

// IsActive reports whether the package still needs work
func (p *Package) IsActive() bool {
	return !p.status.IsTerminal()
}

func (p *Package) String() string {
	return fmt.Sprintf("Package(%d, %s, %s→%s)", p.id, p.status, p.pickup, p.delivery)
}
