package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// SimulationMetricsCollector exposes tick timings, event counters and
// fleet gauges to Prometheus.
type SimulationMetricsCollector struct {
	// Tick metrics
	ticksTotal   prometheus.Counter
	tickDuration prometheus.Histogram

	// Event counters fed from tick summaries
	deliveriesTotal        prometheus.Counter
	assignmentsTotal       prometheus.Counter
	collisionWaitsTotal    prometheus.Counter
	reroutesTotal          prometheus.Counter
	deadlockResetsTotal    prometheus.Counter
	batteryDepletionsTotal prometheus.Counter

	// Fleet gauges
	robotsByState   *prometheus.GaugeVec
	waitingPackages prometheus.Gauge
	activePackages  prometheus.Gauge
	averageBattery  prometheus.Gauge
}

var _ common.MetricsRecorder = (*SimulationMetricsCollector)(nil)

// NewSimulationMetricsCollector builds the collector; call Register
// before recording.
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of simulation ticks executed",
			},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Tick execution duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),

		deliveriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "deliveries_total",
				Help:      "Total number of packages delivered",
			},
		),

		assignmentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "assignments_total",
				Help:      "Total number of package to robot assignments",
			},
		),

		collisionWaitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "collision_waits_total",
				Help:      "Total number of ticks a robot yielded to a peer",
			},
		),

		reroutesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reroutes_total",
				Help:      "Total number of path recalculations forced by blocking",
			},
		),

		deadlockResetsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "deadlock_resets_total",
				Help:      "Total number of deadlock recovery resets",
			},
		),

		batteryDepletionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "battery_depletions_total",
				Help:      "Total number of robots halted with an empty battery",
			},
		),

		robotsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "robots",
				Help:      "Number of robots by state",
			},
			[]string{"state"},
		),

		waitingPackages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "waiting_packages",
				Help:      "Packages waiting for a robot",
			},
		),

		activePackages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_packages",
				Help:      "Packages not yet delivered",
			},
		),

		averageBattery: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "average_battery_percent",
				Help:      "Mean battery level across the fleet",
			},
		),
	}
}

// Register binds every metric to the package registry. With metrics
// disabled (nil registry) it does nothing.
func (c *SimulationMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}

	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.tickDuration,
		c.deliveriesTotal,
		c.assignmentsTotal,
		c.collisionWaitsTotal,
		c.reroutesTotal,
		c.deadlockResetsTotal,
		c.batteryDepletionsTotal,
		c.robotsByState,
		c.waitingPackages,
		c.activePackages,
		c.averageBattery,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// ObserveTick records one tick's duration and event counts
func (c *SimulationMetricsCollector) ObserveTick(duration time.Duration, summary warehouse.StepSummary) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(duration.Seconds())

	c.deliveriesTotal.Add(float64(summary.Deliveries))
	c.assignmentsTotal.Add(float64(len(summary.Assignments)))
	c.collisionWaitsTotal.Add(float64(summary.CollisionWaits))
	c.reroutesTotal.Add(float64(summary.Reroutes))
	c.deadlockResetsTotal.Add(float64(summary.DeadlockResets))
	c.batteryDepletionsTotal.Add(float64(summary.Depletions))
}

// RecordFleet updates the fleet gauges from the latest stats sample
func (c *SimulationMetricsCollector) RecordFleet(sample warehouse.StatsSample, robotsByState map[string]int) {
	c.waitingPackages.Set(float64(sample.WaitingPackages))
	c.activePackages.Set(float64(sample.ActivePackages))
	c.averageBattery.Set(sample.AverageBattery)

	c.robotsByState.Reset()
	for state, count := range robotsByState {
		c.robotsByState.WithLabelValues(state).Set(float64(count))
	}
}
