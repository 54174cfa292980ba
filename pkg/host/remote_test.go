package host

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner answers commands from a table keyed by the space-joined line.
type mockRunner struct {
	results map[string]CommandResult
	errs    map[string]error
	calls   []string
	closed  bool
}

func (m *mockRunner) Run(name string, args ...string) (CommandResult, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	m.calls = append(m.calls, line)
	if err := m.errs[line]; err != nil {
		return CommandResult{}, err
	}
	if res, ok := m.results[line]; ok {
		return res, nil
	}
	return CommandResult{ExitCode: 1, Stderr: "unexpected command"}, nil
}

func (m *mockRunner) Close() error {
	m.closed = true
	return nil
}

func statCmd(path string) string {
	return "env LC_ALL=C stat -L -c " + statFormat + " -- " + path
}

func TestRemote_File(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		statCmd("/usr/local/bin/polkadot"): {Stdout: "regular file|755|root|root|104857600\n"},
		statCmd("/data/polkadot"):          {Stdout: "directory|750|polkadot|polkadot|4096\n"},
		statCmd("/usr/bin/sudo"):           {Stdout: "regular file|4755|root|root|1\n"},
		statCmd("/missing"):                {ExitCode: 1, Stderr: "stat: cannot statx '/missing': No such file or directory\n"},
		statCmd("/secret"):                 {ExitCode: 1, Stderr: "stat: cannot statx '/secret': Permission denied\n"},
		statCmd("/garbage"):                {Stdout: "what\n"},
	}}
	h := NewRemote(r)

	info, err := h.File("/usr/local/bin/polkadot")
	require.NoError(t, err)
	assert.True(t, info.IsFile())
	assert.False(t, info.IsDirectory())
	assert.Equal(t, fs.FileMode(0o755), info.Mode)
	assert.Equal(t, "root", info.User)
	assert.Equal(t, int64(104857600), info.Size)

	info, err = h.File("/data/polkadot")
	require.NoError(t, err)
	assert.True(t, info.IsDirectory())
	assert.Equal(t, "polkadot", info.Group)
	assert.Equal(t, "0750", FormatMode(info.Mode))

	info, err = h.File("/usr/bin/sudo")
	require.NoError(t, err)
	assert.Equal(t, "4755", FormatMode(info.Mode))

	info, err = h.File("/missing")
	require.NoError(t, err)
	assert.False(t, info.Exists)
	assert.False(t, info.IsFile())

	_, err = h.File("/secret")
	assert.ErrorContains(t, err, "Permission denied")

	_, err = h.File("/garbage")
	assert.ErrorContains(t, err, "unexpected output")
}

func TestRemote_FileTransportError(t *testing.T) {
	transportErr := errors.New("connection reset")
	h := NewRemote(&mockRunner{errs: map[string]error{statCmd("/x"): transportErr}})

	_, err := h.File("/x")
	assert.ErrorIs(t, err, transportErr)
}

func TestRemote_Service(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		"systemctl is-enabled polkadot": {Stdout: "enabled\n"},
		"systemctl is-active polkadot":  {Stdout: "active\n"},
		"systemctl is-enabled stopped":  {Stdout: "disabled\n", ExitCode: 1},
		"systemctl is-active stopped":   {Stdout: "inactive\n", ExitCode: 3},
		"systemctl is-enabled static":   {Stdout: "static\n"},
		"systemctl is-active static":    {Stdout: "inactive\n", ExitCode: 3},
		"systemctl is-enabled nosd":     {ExitCode: 127},
	}}
	h := NewRemote(r)

	svc, err := h.Service("polkadot")
	require.NoError(t, err)
	assert.Equal(t, ServiceInfo{Name: "polkadot", State: "enabled", Enabled: true, Running: true}, svc)

	svc, err = h.Service("stopped")
	require.NoError(t, err)
	assert.False(t, svc.Enabled)
	assert.False(t, svc.Running)
	assert.Equal(t, "disabled", svc.State)

	svc, err = h.Service("static")
	require.NoError(t, err)
	assert.False(t, svc.Enabled)

	_, err = h.Service("nosd")
	assert.ErrorContains(t, err, "systemctl not available")
}

func TestRemote_User(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		"getent passwd polkadot": {Stdout: "polkadot:x:998:998::/home/polkadot:/sbin/nologin\n"},
		"getent passwd alice":    {Stdout: "alice:x:600:600::/home/alice:/bin/bash\n"},
		"getent passwd ghost":    {ExitCode: 2},
		"getent passwd weird":    {Stdout: "nonsense\n"},
		"cat /etc/login.defs":    {Stdout: "UID_MIN 500\n"},
	}}
	h := NewRemote(r)

	u, err := h.User("polkadot")
	require.NoError(t, err)
	assert.True(t, u.Exists)
	assert.True(t, u.System)
	assert.Equal(t, "/sbin/nologin", u.Shell)

	u, err = h.User("alice")
	require.NoError(t, err)
	assert.False(t, u.System, "uid 600 is above UID_MIN 500")

	u, err = h.User("ghost")
	require.NoError(t, err)
	assert.False(t, u.Exists)

	_, err = h.User("weird")
	assert.Error(t, err)
}

func TestRemote_UserDefaultUIDMin(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		"getent passwd alice": {Stdout: "alice:x:600:600::/home/alice:/bin/bash\n"},
	}}

	u, err := NewRemote(r).User("alice")
	require.NoError(t, err)
	assert.True(t, u.System, "uid 600 is below the default UID_MIN")
}

func TestRemote_Socket(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		"cat /proc/net/tcp":  {Stdout: procNetTCP},
		"cat /proc/net/tcp6": {ExitCode: 1},
		"cat /proc/net/udp":  {Stdout: procNetUDP},
		"cat /proc/net/unix": {Stdout: procNetUnix},
	}}
	h := NewRemote(r)

	sock, err := h.Socket("tcp://0.0.0.0:30333")
	require.NoError(t, err)
	assert.True(t, sock.Listening)

	sock, err = h.Socket("tcp://0.0.0.0:9944")
	require.NoError(t, err)
	assert.False(t, sock.Listening)

	sock, err = h.Socket("udp://9933")
	require.NoError(t, err)
	assert.True(t, sock.Listening)

	sock, err = h.Socket("unix:///run/polkadot/rpc.sock")
	require.NoError(t, err)
	assert.True(t, sock.Listening)

	_, err = h.Socket("bogus")
	assert.Error(t, err)
}

func TestRemote_SocketNoTables(t *testing.T) {
	h := NewRemote(&mockRunner{})

	_, err := h.Socket("tcp://0.0.0.0:30333")
	assert.ErrorContains(t, err, "no tcp socket tables")
}

func TestRemote_RunAndClose(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		"polkadot --version": {Stdout: "polkadot 1.15.2-1a2b3c4\n"},
	}}
	h := NewRemote(r)

	res, err := h.Run("polkadot", "--version")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, res.Stdout, "1.15.2")

	require.NoError(t, h.Close())
	assert.True(t, r.closed)
}

func TestRemote_FileProbesInCLocale(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		statCmd("/data/polkadot"): {ExitCode: 1, Stderr: "stat: cannot statx '/data/polkadot': No such file or directory\n"},
	}}
	h := NewRemote(r)

	info, err := h.File("/data/polkadot")
	require.NoError(t, err)
	assert.False(t, info.Exists)
	_, err = h.Open("/data/polkadot/chain.json")
	require.Error(t, err)

	require.Len(t, r.calls, 2)
	for _, call := range r.calls {
		assert.True(t, strings.HasPrefix(call, "env LC_ALL=C "), call)
	}
}

func TestStatType(t *testing.T) {
	assert.Equal(t, TypeFile, statType("regular empty file"))
	assert.Equal(t, TypeSocket, statType("socket"))
	assert.Equal(t, TypeSymlink, statType("symbolic link"))
	assert.Equal(t, TypeOther, statType("character special file"))
}

func TestRemote_Open(t *testing.T) {
	r := &mockRunner{results: map[string]CommandResult{
		"env LC_ALL=C cat -- /etc/polkadot/node.key": {Stdout: "0xdeadbeef\n"},
		"env LC_ALL=C cat -- /missing":               {ExitCode: 1, Stderr: "cat: /missing: No such file or directory\n"},
		"env LC_ALL=C cat -- /secret":                {ExitCode: 1, Stderr: "cat: /secret: Permission denied\n"},
	}}
	h := NewRemote(r)

	rc, err := h.Open("/etc/polkadot/node.key")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "0xdeadbeef\n", string(data))

	_, err = h.Open("/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = h.Open("/secret")
	assert.ErrorContains(t, err, "Permission denied")
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}
