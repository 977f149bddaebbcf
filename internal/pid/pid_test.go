package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutiepi.pid")
	f := pid.NewAt(path)

	require.NoError(t, f.Write())
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(got))

	require.NoError(t, f.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Remove(), "removing twice is fine")
}

func TestWriteRejectsLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutiepi.pid")
	// PID 1 is always alive.
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o600))

	err := pid.NewAt(path).Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutiepi.pid")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	require.NoError(t, pid.NewAt(path).Write())
}
