package ws

import "encoding/json"

// Client-sent event names
const (
	EventInitialize      = "initialize"
	EventStep            = "step"
	EventAddObstacle     = "add_obstacle"
	EventRemoveObstacle  = "remove_obstacle"
	EventAddStation      = "add_charging_station"
	EventAddRobot        = "add_robot"
	EventChangeGoal      = "change_goal"
	EventCreatePackage   = "create_package"
	EventCreatePackages  = "create_packages"
	EventAssignPackage   = "assign_package"
	EventGetState        = "get_state"
	EventGetPackages     = "get_packages"
	EventStartSimulation = "start_simulation"
	EventStopSimulation  = "stop_simulation"
	EventResetSimulation = "reset_simulation"
)

// Server-sent event names
const (
	EventInitializationComplete = "initialization_complete"
	EventRobotsUpdate           = "robots_update"
	EventPackagesUpdate         = "packages_update"
	EventStateUpdate            = "state_update"
	EventPackageCreated         = "package_created"
	EventPackagesCreated        = "packages_created"
	EventPackageAssigned        = "package_assigned"
	EventObstacleAdded          = "obstacle_added"
	EventObstacleRemoved        = "obstacle_removed"
	EventStationAdded           = "charging_station_added"
	EventRobotAdded             = "robot_added"
	EventGoalChanged            = "goal_changed"
	EventSimulationStarted      = "simulation_started"
	EventSimulationStopped      = "simulation_stopped"
	EventSimulationReset        = "simulation_reset"
	EventError                  = "error"
)

// Envelope is the frame every websocket message travels in, both
// directions: an event name plus its payload
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ErrorDTO is the error event payload
type ErrorDTO struct {
	Message string `json:"message"`
}

// StoppedDTO is the simulation_stopped payload
type StoppedDTO struct {
	Reason string `json:"reason"`
}

// Stop reasons carried by simulation_stopped
const (
	StopReasonUserRequest = "user_request"
	StopReasonCompleted   = "completed"
)

// marshalEvent wraps a payload in the wire envelope
func marshalEvent(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
