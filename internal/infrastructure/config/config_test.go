package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_ReadsTheFileAndFillsTheGaps(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: "127.0.0.1:9000"
simulation:
  tick_rate: 12.5
  seed: 42
  initial_packages: 50
daemon:
  shutdown_timeout: 45s
logging:
  level: debug
  format: text
  output: stderr
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 12.5, cfg.Simulation.TickRate)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 50, cfg.Simulation.InitialPackages)
	assert.Equal(t, 45*time.Second, cfg.Daemon.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)

	// Everything the file left out comes from the defaults
	assert.Equal(t, "/tmp/gridfleet-daemon.pid", cfg.Daemon.PIDFile)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 100, cfg.Logging.Rotation.MaxSize)
}

func TestLoadConfig_EnvironmentOverridesTheFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: "127.0.0.1:9000"
simulation:
  tick_rate: 5
`)
	t.Setenv("GF_SERVER_ADDRESS", "0.0.0.0:9999")
	t.Setenv("GF_SIMULATION_TICK_RATE", "3")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Address)
	assert.Equal(t, 3.0, cfg.Simulation.TickRate)
}

func TestLoadConfig_RejectsAnUnreadableExplicitFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_RejectsAnInvalidLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: verbose
`)

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "Level")
}

func TestLoadConfigOrDefault_FallsBackToTheDefaults(t *testing.T) {
	cfg := config.LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NotNil(t, cfg)
	assert.Equal(t, "localhost:8765", cfg.Server.Address)
	assert.Equal(t, 5.0, cfg.Simulation.TickRate)
	assert.Equal(t, 2000, cfg.Simulation.InitialPackages)
}

func TestMustLoadConfig_PanicsOnABrokenFile(t *testing.T) {
	assert.Panics(t, func() {
		_ = config.MustLoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}

func TestSetDefaults_FillsEveryGap(t *testing.T) {
	cfg := &config.Config{}

	config.SetDefaults(cfg)

	assert.Equal(t, "localhost:8765", cfg.Server.Address)
	assert.Equal(t, 5.0, cfg.Simulation.TickRate)
	assert.Equal(t, 2000, cfg.Simulation.InitialPackages)
	assert.Equal(t, "/tmp/gridfleet-daemon.pid", cfg.Daemon.PIDFile)
	assert.Equal(t, 30*time.Second, cfg.Daemon.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, 100, cfg.Logging.Rotation.MaxSize)
	assert.Equal(t, 3, cfg.Logging.Rotation.MaxBackups)
	assert.Equal(t, 28, cfg.Logging.Rotation.MaxAge)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Address = "0.0.0.0:9000"
	cfg.Simulation.TickRate = 20
	cfg.Logging.Level = "warn"

	config.SetDefaults(cfg)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address)
	assert.Equal(t, 20.0, cfg.Simulation.TickRate)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidateConfig_FlagsOutOfRangeValues(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Simulation.InitialPackages = -1

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "InitialPackages")
	assert.Contains(t, err.Error(), "min")
}

func TestValidateConfig_AcceptsTheDefaults(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)

	require.NoError(t, config.ValidateConfig(cfg))
}
