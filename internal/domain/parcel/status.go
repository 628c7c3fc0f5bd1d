package parcel

// Status represents where a package is in its delivery lifecycle
type Status string

const (
	// StatusWaiting indicates the package has no robot yet
	StatusWaiting Status = "waiting"

	// StatusAssigned indicates a robot is en route to the pickup cell
	StatusAssigned Status = "assigned"

	// StatusPicked indicates the package is on board a robot
	StatusPicked Status = "picked"

	// StatusDelivered indicates the package reached its delivery cell
	StatusDelivered Status = "delivered"
)

// validTransitions is the forward delivery flow; reverting to waiting is
// handled separately because it abandons progress rather than advancing it.
var validTransitions = map[Status]Status{
	StatusWaiting:  StatusAssigned,
	StatusAssigned: StatusPicked,
	StatusPicked:   StatusDelivered,
}

// CanAdvanceTo reports whether next is the legal forward step from s
func (s Status) CanAdvanceTo(next Status) bool {
	return validTransitions[s] == next
}

// IsTerminal reports whether the package has finished its lifecycle
func (s Status) IsTerminal() bool {
	return s == StatusDelivered
}
