// Package station models charging stations: a single charging slot fronted
// by a FIFO wait queue. Robots reserve their place when they pick a station
// and advance through the queue on arrival.
package station

import (
	"fmt"

	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
)

// DefaultChargingRate is the battery gain per tick while in the slot
const DefaultChargingRate = 10.0

// ChargingStation holds one charging slot and its wait queue
type ChargingStation struct {
	cell         shared.Cell
	chargingRate float64
	queue        []int
	members      map[int]bool
	slotRobot    int
	slotBusy     bool
}

// New creates a charging station at the given cell
func New(cell shared.Cell, chargingRate float64) (*ChargingStation, error) {
	if chargingRate <= 0 {
		return nil, shared.NewValidationError("chargingRate", "must be positive")
	}

	return &ChargingStation{
		cell:         cell,
		chargingRate: chargingRate,
		members:      make(map[int]bool),
	}, nil
}

// Cell returns the station's grid position
func (s *ChargingStation) Cell() shared.Cell {
	return s.cell
}

// ChargingRate returns the battery gain applied per tick in the slot
func (s *ChargingStation) ChargingRate() float64 {
	return s.chargingRate
}

// Enqueue reserves a FIFO position for the robot. Re-enqueueing a robot
// already queued or charging is a no-op.
func (s *ChargingStation) Enqueue(robotID int) {
	if s.members[robotID] || (s.slotBusy && s.slotRobot == robotID) {
		return
	}
	s.queue = append(s.queue, robotID)
	s.members[robotID] = true
}

// Dequeue removes the robot from the station entirely, whether it is
// waiting in the queue or holding the slot.
func (s *ChargingStation) Dequeue(robotID int) {
	if s.slotBusy && s.slotRobot == robotID {
		s.slotBusy = false
		s.slotRobot = 0
		return
	}
	if !s.members[robotID] {
		return
	}
	delete(s.members, robotID)
	for i, id := range s.queue {
		if id == robotID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
}

// IsNextInQueue reports whether the robot would acquire the slot now:
// the slot is free and the robot heads the queue.
func (s *ChargingStation) IsNextInQueue(robotID int) bool {
	return !s.slotBusy && len(s.queue) > 0 && s.queue[0] == robotID
}

// StartCharging moves the robot from the queue head into the slot
func (s *ChargingStation) StartCharging(robotID int) error {
	if !s.IsNextInQueue(robotID) {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("robot %d cannot start charging at %s: not next in queue", robotID, s.cell))
	}
	s.queue = s.queue[1:]
	delete(s.members, robotID)
	s.slotRobot = robotID
	s.slotBusy = true
	return nil
}

// FinishCharging releases the slot held by the robot
func (s *ChargingStation) FinishCharging(robotID int) error {
	if !s.slotBusy || s.slotRobot != robotID {
		return shared.NewInternalInconsistencyError(
			fmt.Sprintf("robot %d is not charging at %s", robotID, s.cell))
	}
	s.slotBusy = false
	s.slotRobot = 0
	return nil
}

// Occupation counts robots waiting plus the slot holder, used to rank
// stations by expected wait.
func (s *ChargingStation) Occupation() int {
	occupation := len(s.queue)
	if s.slotBusy {
		occupation++
	}
	return occupation
}

// Contains reports whether the robot is queued or charging here
func (s *ChargingStation) Contains(robotID int) bool {
	return s.members[robotID] || (s.slotBusy && s.slotRobot == robotID)
}

// QueueLength returns the number of robots waiting (slot excluded)
func (s *ChargingStation) QueueLength() int {
	return len(s.queue)
}

// SlotHolder returns the robot currently charging, if any
func (s *ChargingStation) SlotHolder() (int, bool) {
	return s.slotRobot, s.slotBusy
}

func (s *ChargingStation) String() string {
	return fmt.Sprintf("ChargingStation(%s, queue=%d, busy=%t)", s.cell, len(s.queue), s.slotBusy)
}
