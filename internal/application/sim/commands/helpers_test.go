package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/application/sim"
	"github.com/andrescamacho/gridfleet-go/internal/domain/robot"
	"github.com/andrescamacho/gridfleet-go/internal/domain/shared"
	"github.com/andrescamacho/gridfleet-go/internal/domain/warehouse"
)

func cell(x, y int) shared.Cell { return shared.NewCell(x, y) }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

// newSession wraps a hand-built floor in a session, for handler tests
// that do not go through initialize
func newSession(t *testing.T, width, height int) (*sim.Session, *warehouse.Model) {
	t.Helper()
	m, err := warehouse.New(width, height, warehouse.Config{Seed: 1})
	require.NoError(t, err)
	s := sim.NewSession()
	s.Install(m, nil)
	return s, m
}

func addTaskedRobot(t *testing.T, m *warehouse.Model, start, goal shared.Cell) *robot.Robot {
	t.Helper()
	r, err := m.AddRobot(start, goal, robot.Config{})
	require.NoError(t, err)
	return r
}

func addIdleRobot(t *testing.T, m *warehouse.Model, at shared.Cell) *robot.Robot {
	t.Helper()
	r, err := m.AddRobot(at, at, robot.Config{Idle: true})
	require.NoError(t, err)
	return r
}

// captureRecorder keeps every observation the step pipeline reports
type captureRecorder struct {
	durations []time.Duration
	summaries []warehouse.StepSummary
	samples   []warehouse.StatsSample
	fleets    []map[string]int
}

func (c *captureRecorder) ObserveTick(d time.Duration, s warehouse.StepSummary) {
	c.durations = append(c.durations, d)
	c.summaries = append(c.summaries, s)
}

func (c *captureRecorder) RecordFleet(sample warehouse.StatsSample, byState map[string]int) {
	c.samples = append(c.samples, sample)
	c.fleets = append(c.fleets, byState)
}

// stepClock advances a fixed interval on every Now call, making the
// tick duration the handler observes deterministic
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *stepClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// logEntry is one captured log line
type logEntry struct {
	level   string
	message string
	meta    map[string]interface{}
}

// recordingLogger collects what handlers log through the context
type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.entries = append(l.entries, logEntry{level: level, message: message, meta: metadata})
}

func (l *recordingLogger) messages(level string) []string {
	var out []string
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e.message)
		}
	}
	return out
}
