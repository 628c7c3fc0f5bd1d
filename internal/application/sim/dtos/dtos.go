// Package dtos holds the wire shapes the websocket transport and the
// CLI serialize, plus the converters from domain entities. Field names
// follow the snake_case JSON the frontend already speaks.
package dtos

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// Robot status values on the wire
const (
	StatusMoving      = "moving"
	StatusCharging    = "charging"
	StatusGoalReached = "goal_reached"
)

// CellDTO is a grid coordinate
type CellDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GridSizeDTO reports the floor dimensions
type GridSizeDTO struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StationDTO describes one charging station
type StationDTO struct {
	X            int     `json:"x"`
	Y            int     `json:"y"`
	ChargingRate float64 `json:"charging_rate"`
}

// PackageDTO describes one package. The time fields only appear once the
// package has moved through pickup and delivery.
type PackageDTO struct {
	ID              int     `json:"id"`
	Pickup          CellDTO `json:"pickup"`
	Delivery        CellDTO `json:"delivery"`
	Status          string  `json:"status"`
	AssignedRobotID *int    `json:"assigned_robot_id"`
	PickupTime      *int    `json:"pickup_time,omitempty"`
	DeliveryTime    *int    `json:"delivery_time,omitempty"`
}

// RobotSetupDTO is the per-robot configuration accepted at initialize.
// Zero values fall back to the robot defaults; a nil battery_level means
// a full battery.
type RobotSetupDTO struct {
	Start                 CellDTO  `json:"start"`
	Goal                  CellDTO  `json:"goal"`
	Color                 string   `json:"color"`
	MaxBattery            float64  `json:"max_battery"`
	BatteryLevel          *float64 `json:"battery_level"`
	BatteryDrainRate      float64  `json:"battery_drain_rate"`
	EnergySavingDrainRate float64  `json:"energy_saving_drain_rate"`
	Idle                  bool     `json:"idle"`
}

// RobotDTO is the full robot snapshot used by state queries and the
// initialize and add_robot responses
type RobotDTO struct {
	ID                     int         `json:"id"`
	Start                  CellDTO     `json:"start"`
	Goal                   CellDTO     `json:"goal"`
	Position               CellDTO     `json:"position"`
	Path                   []CellDTO   `json:"path"`
	ReachedGoal            bool        `json:"reached_goal"`
	StepsLeft              int         `json:"steps_left"`
	StepsTaken             int         `json:"steps_taken"`
	Color                  string      `json:"color"`
	BatteryLevel           float64     `json:"battery_level"`
	MaxBattery             float64     `json:"max_battery"`
	Charging               bool        `json:"charging"`
	BatteryPercentage      float64     `json:"battery_percentage"`
	TotalPackagesDelivered int         `json:"total_packages_delivered"`
	Idle                   bool        `json:"idle"`
	IsCarrying             bool        `json:"is_carrying"`
	Status                 string      `json:"status"`
	CarryingPackage        *PackageDTO `json:"carrying_package,omitempty"`
}

// RobotDeltaDTO is the lighter per-tick robot shape carried by step
// responses and robots_update broadcasts
type RobotDeltaDTO struct {
	ID                int       `json:"id"`
	Position          CellDTO   `json:"position"`
	ReachedGoal       bool      `json:"reached_goal"`
	StepsLeft         int       `json:"steps_left"`
	StepsTaken        int       `json:"steps_taken"`
	BatteryLevel      float64   `json:"battery_level"`
	MaxBattery        float64   `json:"max_battery"`
	Charging          bool      `json:"charging"`
	Status            string    `json:"status"`
	BatteryPercentage float64   `json:"battery_percentage"`
	Path              []CellDTO `json:"path"`
	Idle              bool      `json:"idle"`
	IsCarrying        bool      `json:"is_carrying"`
}

// RobotPathDTO pairs a robot with its current route, for the replan
// lists obstacle and station placements report
type RobotPathDTO struct {
	ID   int       `json:"id"`
	Path []CellDTO `json:"path"`
}

// AssignedRobotDTO is the robot fragment inside a package_assigned event
type AssignedRobotDTO struct {
	ID   int       `json:"id"`
	Goal CellDTO   `json:"goal"`
	Path []CellDTO `json:"path"`
}

// PackageAssignedDTO reports one package handed to one robot
type PackageAssignedDTO struct {
	PackageID int              `json:"package_id"`
	Robot     AssignedRobotDTO `json:"robot"`
}

// DeliveryStatsDTO aggregates completed delivery durations in ticks.
// Serializes to an empty object until the first delivery lands.
type DeliveryStatsDTO struct {
	AvgDeliveryTime float64 `json:"avg_delivery_time,omitempty"`
	MinDeliveryTime int     `json:"min_delivery_time,omitempty"`
	MaxDeliveryTime int     `json:"max_delivery_time,omitempty"`
}

// StatusOf maps a robot to its wire status
func StatusOf(r *robot.Robot) string {
	switch {
	case r.Charging():
		return StatusCharging
	case r.ReachedGoal():
		return StatusGoalReached
	default:
		return StatusMoving
	}
}

// CellToDTO converts one coordinate
func CellToDTO(c shared.Cell) CellDTO {
	return CellDTO{X: c.X, Y: c.Y}
}

// CellsToDTO converts a route or cell list, never returning nil so the
// wire always carries an array
func CellsToDTO(cells []shared.Cell) []CellDTO {
	out := make([]CellDTO, len(cells))
	for i, c := range cells {
		out[i] = CellToDTO(c)
	}
	return out
}

// StationToDTO converts one charging station
func StationToDTO(st *station.ChargingStation) StationDTO {
	return StationDTO{X: st.Cell().X, Y: st.Cell().Y, ChargingRate: st.ChargingRate()}
}

// StationsToDTO converts the station list in placement order
func StationsToDTO(stations []*station.ChargingStation) []StationDTO {
	out := make([]StationDTO, len(stations))
	for i, st := range stations {
		out[i] = StationToDTO(st)
	}
	return out
}

// PackageToDTO converts one package, time fields included once set
func PackageToDTO(p *parcel.Package) PackageDTO {
	dto := PackageDTO{
		ID:           p.ID(),
		Pickup:       CellToDTO(p.Pickup()),
		Delivery:     CellToDTO(p.Delivery()),
		Status:       string(p.Status()),
		PickupTime:   p.PickedTick(),
		DeliveryTime: p.DeliveredTick(),
	}
	if id, ok := p.AssignedRobot(); ok {
		dto.AssignedRobotID = &id
	}
	return dto
}

// PackagesToDTO converts a package list in id order
func PackagesToDTO(packages []*parcel.Package) []PackageDTO {
	out := make([]PackageDTO, len(packages))
	for i, p := range packages {
		out[i] = PackageToDTO(p)
	}
	return out
}

// RobotToDTO converts one robot to its full snapshot
func RobotToDTO(r *robot.Robot) RobotDTO {
	dto := RobotDTO{
		ID:                     r.ID(),
		Start:                  CellToDTO(r.Home()),
		Goal:                   CellToDTO(r.Goal()),
		Position:               CellToDTO(r.Position()),
		Path:                   CellsToDTO(r.Path()),
		ReachedGoal:            r.ReachedGoal(),
		StepsLeft:              r.StepsLeft(),
		StepsTaken:             r.StepsTaken(),
		Color:                  r.Color(),
		BatteryLevel:           r.Battery().Level,
		MaxBattery:             r.Battery().Capacity,
		Charging:               r.Charging(),
		BatteryPercentage:      r.BatteryPercentage(),
		TotalPackagesDelivered: r.TotalDelivered(),
		Idle:                   r.Idle(),
		IsCarrying:             r.IsCarrying(),
		Status:                 StatusOf(r),
	}
	if pkg := r.CarryingPackage(); pkg != nil {
		carried := PackageToDTO(pkg)
		dto.CarryingPackage = &carried
	}
	return dto
}

// RobotsToDTO converts the fleet in insertion order
func RobotsToDTO(robots []*robot.Robot) []RobotDTO {
	out := make([]RobotDTO, len(robots))
	for i, r := range robots {
		out[i] = RobotToDTO(r)
	}
	return out
}

// RobotToDelta converts one robot to its per-tick shape
func RobotToDelta(r *robot.Robot) RobotDeltaDTO {
	return RobotDeltaDTO{
		ID:                r.ID(),
		Position:          CellToDTO(r.Position()),
		ReachedGoal:       r.ReachedGoal(),
		StepsLeft:         r.StepsLeft(),
		StepsTaken:        r.StepsTaken(),
		BatteryLevel:      r.Battery().Level,
		MaxBattery:        r.Battery().Capacity,
		Charging:          r.Charging(),
		Status:            StatusOf(r),
		BatteryPercentage: r.BatteryPercentage(),
		Path:              CellsToDTO(r.Path()),
		Idle:              r.Idle(),
		IsCarrying:        r.IsCarrying(),
	}
}

// RobotsToDeltas converts the fleet to per-tick shapes
func RobotsToDeltas(robots []*robot.Robot) []RobotDeltaDTO {
	out := make([]RobotDeltaDTO, len(robots))
	for i, r := range robots {
		out[i] = RobotToDelta(r)
	}
	return out
}

// RobotPathsToDTO captures every robot's current route
func RobotPathsToDTO(robots []*robot.Robot) []RobotPathDTO {
	out := make([]RobotPathDTO, len(robots))
	for i, r := range robots {
		out[i] = RobotPathDTO{ID: r.ID(), Path: CellsToDTO(r.Path())}
	}
	return out
}

// AssignmentToDTO expands a pairing into the package_assigned shape
func AssignmentToDTO(m *warehouse.Model, a warehouse.Assignment) PackageAssignedDTO {
	dto := PackageAssignedDTO{PackageID: a.PackageID}
	if r, ok := m.RobotByID(a.RobotID); ok {
		dto.Robot = AssignedRobotDTO{
			ID:   r.ID(),
			Goal: CellToDTO(r.Goal()),
			Path: CellsToDTO(r.Path()),
		}
	}
	return dto
}

// AssignmentsToDTO expands a pairing round
func AssignmentsToDTO(m *warehouse.Model, assignments []warehouse.Assignment) []PackageAssignedDTO {
	out := make([]PackageAssignedDTO, len(assignments))
	for i, a := range assignments {
		out[i] = AssignmentToDTO(m, a)
	}
	return out
}

// DeliveryStatsToDTO converts the delivered-package aggregate; the zero
// value stands in until the first delivery
func DeliveryStatsToDTO(m *warehouse.Model) DeliveryStatsDTO {
	stats, ok := m.DeliveredPackageStats()
	if !ok {
		return DeliveryStatsDTO{}
	}
	return DeliveryStatsDTO{
		AvgDeliveryTime: stats.Average,
		MinDeliveryTime: stats.Min,
		MaxDeliveryTime: stats.Max,
	}
}
