package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// swapRegistry isolates a test from the package-level registry
func swapRegistry(t *testing.T) {
	t.Helper()
	prev := Registry
	t.Cleanup(func() { Registry = prev })
}

func TestRegister_IsANoOpWhenMetricsAreDisabled(t *testing.T) {
	swapRegistry(t)
	Registry = nil

	require.NoError(t, NewSimulationMetricsCollector().Register())
	require.NoError(t, NewCommandMetricsCollector().Register())
	assert.False(t, IsEnabled())
	assert.Nil(t, Handler())
}

func TestRegister_BindsTheMetricsToTheRegistry(t *testing.T) {
	swapRegistry(t)
	InitRegistry()

	require.NoError(t, NewSimulationMetricsCollector().Register())
	require.NoError(t, NewCommandMetricsCollector().Register())
	assert.True(t, IsEnabled())
	assert.NotNil(t, Handler())

	families, err := Registry.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["gridfleet_simulation_ticks_total"])
	assert.True(t, names["gridfleet_simulation_tick_duration_seconds"])
	assert.True(t, names["gridfleet_simulation_deliveries_total"])
	assert.True(t, names["gridfleet_simulation_waiting_packages"])

	// The same names cannot be claimed twice
	require.Error(t, NewSimulationMetricsCollector().Register())
}

func TestObserveTick_AccumulatesTheTickCounters(t *testing.T) {
	c := NewSimulationMetricsCollector()

	c.ObserveTick(3*time.Millisecond, warehouse.StepSummary{
		Tick:           1,
		Deliveries:     2,
		Depletions:     1,
		DeadlockResets: 1,
		CollisionWaits: 3,
		Reroutes:       2,
		Assignments:    []warehouse.Assignment{{PackageID: 1, RobotID: 1}},
	})
	c.ObserveTick(time.Millisecond, warehouse.StepSummary{Tick: 2})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticksTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.deliveriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.assignmentsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.collisionWaitsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.reroutesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.deadlockResetsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batteryDepletionsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(c.tickDuration))
}

func TestRecordFleet_TracksTheLatestSampleOnly(t *testing.T) {
	c := NewSimulationMetricsCollector()

	c.RecordFleet(warehouse.StatsSample{
		WaitingPackages: 4,
		ActivePackages:  9,
		AverageBattery:  72.5,
	}, map[string]int{"moving": 3, "idle": 2})

	assert.Equal(t, 4.0, testutil.ToFloat64(c.waitingPackages))
	assert.Equal(t, 9.0, testutil.ToFloat64(c.activePackages))
	assert.Equal(t, 72.5, testutil.ToFloat64(c.averageBattery))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.robotsByState.WithLabelValues("moving")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.robotsByState.WithLabelValues("idle")))

	// The next sample replaces the state breakdown outright
	c.RecordFleet(warehouse.StatsSample{}, map[string]int{"idle": 5})

	assert.Equal(t, 5.0, testutil.ToFloat64(c.robotsByState.WithLabelValues("idle")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.robotsByState.WithLabelValues("moving")))
}
