package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	for _, target := range []string{"", "local", "local://"} {
		h, err := Open(target, TargetOptions{})
		require.NoError(t, err, target)
		assert.IsType(t, &Local{}, h)
	}

	h, err := Open("docker://polkadot-node", TargetOptions{})
	require.NoError(t, err)
	remote, ok := h.(*Remote)
	require.True(t, ok)
	assert.Equal(t, &DockerRunner{Container: "polkadot-node"}, remote.Runner)
}

func TestOpen_Tracing(t *testing.T) {
	h, err := Open("docker://node", TargetOptions{Logf: func(string, ...any) {}})
	require.NoError(t, err)
	remote, ok := h.(*Remote)
	require.True(t, ok)
	assert.IsType(t, &TracingRunner{}, remote.Runner)
}

func TestOpen_Invalid(t *testing.T) {
	tests := []struct {
		target  string
		wantErr string
	}{
		{"docker://", "missing container name"},
		{"ssh://", "missing host"},
		{"ssh://user@host:port", "invalid target"},
		{"ftp://host", "unsupported scheme"},
		{"::", "invalid target"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			_, err := Open(tt.target, TargetOptions{})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSSHConfig_MissingKey(t *testing.T) {
	cfg := SSHConfig{Host: "node.example", KeyFile: t.TempDir() + "/nope"}
	_, _, err := cfg.clientConfig()
	assert.ErrorContains(t, err, "no usable ssh private key")
}
