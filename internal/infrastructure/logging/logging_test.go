package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/config"
	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/logging"
)

func fileConfig(t *testing.T, format string) (*config.LoggingConfig, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	return &config.LoggingConfig{
		Level:    "debug",
		Format:   format,
		Output:   "file",
		FilePath: path,
	}, path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNew_WritesStructuredJSON(t *testing.T) {
	cfg, path := fileConfig(t, "json")
	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Log("info", "server listening", map[string]interface{}{"addr": "localhost:8765"})
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "server listening", entry["msg"])
	assert.Equal(t, "localhost:8765", entry["addr"])
	assert.Contains(t, entry, "ts")
}

func TestLog_MapsTheLevelStrings(t *testing.T) {
	cfg, path := fileConfig(t, "json")
	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Log("debug", "one", nil)
	logger.Log("warn", "two", nil)
	logger.Log("error", "three", nil)
	logger.Log("anything-else", "four", nil)
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 4)

	var levels []string
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		levels = append(levels, entry["level"].(string))
	}
	// Unknown level strings land on info
	assert.Equal(t, []string{"debug", "warn", "error", "info"}, levels)
}

func TestNew_HonorsTheConfiguredLevel(t *testing.T) {
	cfg, path := fileConfig(t, "json")
	cfg.Level = "warn"
	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Log("info", "quiet", nil)
	logger.Log("error", "loud", nil)
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "loud")
}

func TestNew_TextFormatWritesConsoleLines(t *testing.T) {
	cfg, path := fileConfig(t, "text")
	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Log("warn", "robot battery depleted", map[string]interface{}{"robot_id": 3})
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "WARN")
	assert.Contains(t, lines[0], "robot battery depleted")
}

func TestNew_IncludesTheCallerWhenAsked(t *testing.T) {
	cfg, path := fileConfig(t, "json")
	cfg.IncludeCaller = true
	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Log("info", "located", nil)
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readLines(t, path)[0]), &entry))
	assert.Contains(t, entry["caller"], "logging_test.go")
}

func TestNew_RotationKeepsWriting(t *testing.T) {
	cfg, path := fileConfig(t, "json")
	cfg.Rotation = config.RotationConfig{Enabled: true, MaxSize: 1, MaxBackups: 1, MaxAge: 1}
	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Log("info", "rotated sink", nil)

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "rotated sink")
}

func TestNew_RejectsABadLevel(t *testing.T) {
	cfg, _ := fileConfig(t, "json")
	cfg.Level = "verbose"

	_, err := logging.New(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNew_RequiresAFilePathForFileOutput(t *testing.T) {
	cfg, _ := fileConfig(t, "json")
	cfg.FilePath = ""

	_, err := logging.New(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_path")
}

func TestNop_DiscardsEverything(t *testing.T) {
	logger := logging.Nop()

	logger.Log("error", "nobody hears this", map[string]interface{}{"x": 1})

	assert.NoError(t, logger.Sync())
}
