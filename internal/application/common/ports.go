package common

import (
	"time"

	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

// MetricsRecorder receives the step pipeline's observations. The
// prometheus implementation lives in adapters/metrics; tests and the
// headless simulate command use the noop.
type MetricsRecorder interface {
	// ObserveTick records one completed tick: how long it took and what
	// it changed
	ObserveTick(duration time.Duration, summary warehouse.StepSummary)

	// RecordFleet updates the point-in-time fleet gauges
	RecordFleet(sample warehouse.StatsSample, robotsByState map[string]int)
}

// NoopMetricsRecorder discards every observation
type NoopMetricsRecorder struct{}

func (NoopMetricsRecorder) ObserveTick(time.Duration, warehouse.StepSummary) {}

func (NoopMetricsRecorder) RecordFleet(warehouse.StatsSample, map[string]int) {}

var _ MetricsRecorder = NoopMetricsRecorder{}
