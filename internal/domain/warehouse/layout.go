package warehouse

import (
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/station"
)

// StationSpec places one charging station on a layout.
type StationSpec struct {
	Cell         shared.Cell
	ChargingRate float64
}

// RobotSpec places one robot on a layout.
type RobotSpec struct {
	Start  shared.Cell
	Goal   shared.Cell
	Config robot.Config
}

// Layout is a complete floor plan: grid dimensions, shelving obstacles,
// chargers, the starting fleet and the two cell pools packages are drawn
// from. A Layout is plain data; NewFromLayout turns it into a live Model.
type Layout struct {
	Width  int
	Height int

	Obstacles []shared.Cell
	Stations  []StationSpec
	Robots    []RobotSpec

	PickupPool   []shared.Cell
	DeliveryPool []shared.Cell

	InitialPackages int
}

// DefaultLayout reproduces the stock warehouse floor: a 40x22 grid with
// paired shelving racks and slotted storage bays, six chargers in the
// north-east corner, truck docks along the south wall, delivery slots
// beside the racks and a fleet of six idle robots.
func DefaultLayout() Layout {
	var obstacles []shared.Cell
	for _, x := range []int{2, 3, 5, 6} {
		obstacles = append(obstacles, cellRun(x, 2, 7)...)
		obstacles = append(obstacles, cellsAt(x, 13, 15, 17, 19)...)
	}
	for _, x := range []int{11, 12, 14, 15, 20, 21, 23, 24} {
		obstacles = append(obstacles, cellRun(x, 2, 7)...)
	}
	for _, x := range []int{18, 19, 21, 22} {
		obstacles = append(obstacles, cellsAt(x, 11, 13, 15, 17, 19)...)
	}
	for _, x := range []int{32, 33, 35, 36} {
		obstacles = append(obstacles, cellsAt(x, 13, 15, 17, 19)...)
	}

	var delivery []shared.Cell
	for _, x := range []int{2, 3, 5, 6} {
		delivery = append(delivery, cellsAt(x, 14, 16, 18)...)
	}
	for _, x := range []int{10, 13, 16} {
		delivery = append(delivery, cellRun(x, 2, 7)...)
	}
	for _, x := range []int{32, 33, 35, 36} {
		delivery = append(delivery, cellsAt(x, 14, 16, 18)...)
	}

	stations := []StationSpec{
		{Cell: shared.NewCell(34, 1), ChargingRate: station.DefaultChargingRate},
		{Cell: shared.NewCell(34, 3), ChargingRate: station.DefaultChargingRate},
		{Cell: shared.NewCell(36, 1), ChargingRate: station.DefaultChargingRate},
		{Cell: shared.NewCell(36, 3), ChargingRate: station.DefaultChargingRate},
		{Cell: shared.NewCell(38, 1), ChargingRate: station.DefaultChargingRate},
		{Cell: shared.NewCell(38, 3), ChargingRate: station.DefaultChargingRate},
	}

	robots := []RobotSpec{
		idleRobotSpec(33, 2, "blue"),
		idleRobotSpec(37, 4, "green"),
		idleRobotSpec(10, 20, "red"),
		idleRobotSpec(26, 20, "purple"),
		idleRobotSpec(39, 1, "orange"),
		idleRobotSpec(38, 10, "cyan"),
	}

	pickup := []shared.Cell{
		shared.NewCell(11, 21), shared.NewCell(12, 21), shared.NewCell(13, 21),
		shared.NewCell(26, 21), shared.NewCell(27, 21), shared.NewCell(28, 21),
	}

	return Layout{
		Width:           40,
		Height:          22,
		Obstacles:       obstacles,
		Stations:        stations,
		Robots:          robots,
		PickupPool:      pickup,
		DeliveryPool:    delivery,
		InitialPackages: 2000,
	}
}

func idleRobotSpec(x, y int, color string) RobotSpec {
	cell := shared.NewCell(x, y)
	return RobotSpec{
		Start: cell,
		Goal:  cell,
		Config: robot.Config{
			BatteryDrainRate: 0.5,
			Color:            color,
			Idle:             true,
		},
	}
}

// cellRun lists the cells of a vertical run, both ends inclusive.
func cellRun(x, yFrom, yTo int) []shared.Cell {
	cells := make([]shared.Cell, 0, yTo-yFrom+1)
	for y := yFrom; y <= yTo; y++ {
		cells = append(cells, shared.NewCell(x, y))
	}
	return cells
}

func cellsAt(x int, ys ...int) []shared.Cell {
	cells := make([]shared.Cell, 0, len(ys))
	for _, y := range ys {
		cells = append(cells, shared.NewCell(x, y))
	}
	return cells
}
