//go:build unix

package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunner(t *testing.T) {
	r := &LocalRunner{}

	res, err := r.Run("sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.False(t, res.OK())

	res, err = r.Run("hostverify-no-such-command-12345")
	require.NoError(t, err)
	assert.Equal(t, exitNotFound, res.ExitCode)

	require.NoError(t, r.Close())
}

func TestDockerRunner(t *testing.T) {
	exec := &mockRunner{results: map[string]CommandResult{
		"docker exec node-1 stat -L /data": {Stdout: "ok"},
		"docker exec node-1 cat /missing":  {ExitCode: 1},
		"docker exec gone cat /etc/passwd": {ExitCode: dockerDaemonError, Stderr: "Error: No such container: gone\n"},
	}}

	res, err := (&DockerRunner{Container: "node-1", Exec: exec}).Run("stat", "-L", "/data")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Stdout)

	res, err = (&DockerRunner{Container: "node-1", Exec: exec}).Run("cat", "/missing")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)

	_, err = (&DockerRunner{Container: "gone", Exec: exec}).Run("cat", "/etc/passwd")
	assert.ErrorContains(t, err, "No such container")
}

func TestTracingRunner(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, format)
	}
	inner := &mockRunner{
		results: map[string]CommandResult{"stat -c %F|%a /data": {}},
		errs:    map[string]error{"cat /proc/net/tcp": errors.New("broken pipe")},
	}
	r := &TracingRunner{Runner: inner, Logf: logf}

	_, err := r.Run("stat", "-c", "%F|%a", "/data")
	require.NoError(t, err)
	_, err = r.Run("cat", "/proc/net/tcp")
	require.Error(t, err)

	assert.Equal(t, []string{"run %s: exit %d", "run %s: %v"}, lines)
	require.NoError(t, r.Close())
	assert.True(t, inner.closed)
}

func TestShellJoin(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"cat", ""}, "cat ''"},
		{[]string{"/usr/local/bin/polkadot", "--version"}, "/usr/local/bin/polkadot --version"},
		{[]string{"stat", "-L", "-c", "%F|%a", "--", "/my dir"}, "stat -L -c '%F|%a' -- '/my dir'"},
		{[]string{"cat", "it's"}, `cat 'it'"'"'s'`},
		{[]string{"getent", "passwd", "$(id)"}, "getent passwd '$(id)'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shellJoin(tt.in))
	}
}
