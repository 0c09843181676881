package process

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAlive(t *testing.T) {
	assert.True(t, IsAlive(os.Getpid()), "our own process is alive")
	assert.False(t, IsAlive(0))
	assert.False(t, IsAlive(-5))
}

func TestIsAliveExitedProcess(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())
	require.NoError(t, cmd.Wait())

	// The child has been reaped, so its PID must probe dead.
	assert.False(t, IsAlive(cmd.Process.Pid))
}

func TestTerminateInvalidPID(t *testing.T) {
	assert.Error(t, Terminate(0))
	assert.Error(t, Terminate(-1))
}
