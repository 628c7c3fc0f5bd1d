package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/infrastructure/pidfile"
)

// A PID above the kernel's pid_max ceiling, so it can never be alive
const deadPID = 99999999

func pidPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "daemon.pid")
}

func TestAcquire_RecordsTheCurrentProcess(t *testing.T) {
	path := pidPath(t)

	require.NoError(t, pidfile.New(path).Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquire_RefusesWhileTheOwnerLives(t *testing.T) {
	path := pidPath(t)
	require.NoError(t, pidfile.New(path).Acquire())

	err := pidfile.New(path).Acquire()

	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("already running (PID %d)", os.Getpid()))
}

func TestAcquire_ReplacesAStaleFile(t *testing.T) {
	path := pidPath(t)
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", deadPID)), 0o644))

	require.NoError(t, pidfile.New(path).Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", os.Getpid()), string(data))
}

func TestAcquire_TreatsGarbageAsAbsent(t *testing.T) {
	path := pidPath(t)
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	require.NoError(t, pidfile.New(path).Acquire())
}

func TestRelease_RemovesTheFileAndToleratesAbsence(t *testing.T) {
	path := pidPath(t)
	p := pidfile.New(path)
	require.NoError(t, p.Acquire())

	require.NoError(t, p.Release())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Releasing again is not an error
	require.NoError(t, p.Release())
}

func TestKillExisting_ReportsWhenNothingRuns(t *testing.T) {
	path := pidPath(t)

	err := pidfile.New(path).KillExisting()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no running daemon found")
}

func TestKillExisting_CleansUpADeadEntry(t *testing.T) {
	path := pidPath(t)
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", deadPID)), 0o644))

	require.NoError(t, pidfile.New(path).KillExisting())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
