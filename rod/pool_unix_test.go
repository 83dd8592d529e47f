//go:build integration && !windows

package rod_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/pagefetch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPool_Shutdown_KillsLauncherProcess(t *testing.T) {
	t.Parallel()

	pool := rod.NewSessionPool(rod.WithNoSandbox(true))
	page, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, page.Close())

	pid := pool.LauncherPID()
	require.NotZero(t, pid, "launcher PID should be set")

	err = syscall.Kill(pid, syscall.Signal(0))
	require.NoError(t, err, "launcher process should be running before Shutdown()")

	require.NoError(t, pool.Shutdown())

	time.Sleep(100 * time.Millisecond)

	err = syscall.Kill(pid, syscall.Signal(0))
	assert.Error(t, err, "launcher process should be terminated after Shutdown()")
}
