package warehouse

import (
	"slices"

	"github.com/andrescamacho/gridfleet-go/internal/domain/parcel"
)

// StatsSample is one tick's aggregate view of the fleet and the package
// pool, taken before the robots move.
type StatsSample struct {
	Tick            int
	AverageBattery  float64
	AverageSteps    float64
	RobotsAtGoal    int
	WaitingPackages int
	ActivePackages  int
}

// StatsCollector accumulates per-tick samples, newest last
type StatsCollector struct {
	samples []StatsSample
}

// NewStatsCollector creates an empty collector
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// Samples returns a copy of the full history
func (c *StatsCollector) Samples() []StatsSample {
	return slices.Clone(c.samples)
}

// Latest returns the most recent sample, if any has been taken
func (c *StatsCollector) Latest() (StatsSample, bool) {
	if len(c.samples) == 0 {
		return StatsSample{}, false
	}
	return c.samples[len(c.samples)-1], true
}

func (c *StatsCollector) record(s StatsSample) {
	c.samples = append(c.samples, s)
}

func (m *Model) collectStats() {
	s := StatsSample{Tick: m.tick}
	if len(m.robots) > 0 {
		var battery, steps float64
		for _, r := range m.robots {
			battery += r.Battery().Level
			steps += float64(r.StepsTaken())
			if r.ReachedGoal() {
				s.RobotsAtGoal++
			}
		}
		s.AverageBattery = battery / float64(len(m.robots))
		s.AverageSteps = steps / float64(len(m.robots))
	}
	for _, p := range m.packages {
		switch p.Status() {
		case parcel.StatusWaiting:
			s.WaitingPackages++
			s.ActivePackages++
		case parcel.StatusAssigned, parcel.StatusPicked:
			s.ActivePackages++
		}
	}
	m.stats.record(s)
}

// DeliveryStats summarizes completed deliveries, in ticks from pickup
// to drop-off.
type DeliveryStats struct {
	Average float64
	Min     int
	Max     int
}

// DeliveredPackageStats aggregates delivery durations across every
// completed package. Reports false until the first delivery lands.
func (m *Model) DeliveredPackageStats() (DeliveryStats, bool) {
	var stats DeliveryStats
	count := 0
	for _, p := range m.packages {
		d, ok := p.DeliveryDuration()
		if !ok {
			continue
		}
		if count == 0 || d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
		stats.Average += float64(d)
		count++
	}
	if count == 0 {
		return DeliveryStats{}, false
	}
	stats.Average /= float64(count)
	return stats, true
}
