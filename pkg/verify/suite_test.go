package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/profile"
	"github.com/vertti/hostverify/pkg/testutil"
)

func resultNames(rep check.Report) []string {
	names := make([]string, len(rep.Results))
	for i, r := range rep.Results {
		names[i] = r.Name
	}
	return names
}

func TestRunSuite_Provisioned(t *testing.T) {
	rep := RunSuite(provisioned(), profile.Polkadot(), Options{Running: true})

	assert.True(t, rep.OK(), "failures: %v", rep.Failures())
	assert.Equal(t, 10, rep.Passed)
	assert.Equal(t, []string{
		"file: /usr/local/bin/polkadot",
		"service: polkadot",
		"user: polkadot",
		"directory: /data/polkadot",
		"directory: /var/run/polkadot",
		"directory: /var/log/polkadot",
		"socket: tcp://0.0.0.0:30333",
		"socket: tcp://0.0.0.0:9933",
		"socket: tcp://0.0.0.0:9944",
		"socket: tcp://0.0.0.0:9615",
	}, resultNames(rep))
}

func TestRunSuite_ReportsEveryFailure(t *testing.T) {
	h := provisioned()
	delete(h.Files, "/usr/local/bin/polkadot")
	h.AddService("polkadot", false, false)
	h.AddDir("/var/log/polkadot", 0o755, "root", "root")
	h.Listeners = h.Listeners[:2]

	rep := RunSuite(h, profile.Polkadot(), Options{})

	assert.Len(t, rep.Results, 10, "no check is skipped after a failure")
	assert.Equal(t, 5, rep.Failed)
	assert.Equal(t, 5, rep.Passed)
	for _, err := range rep.Failures() {
		assert.ErrorIs(t, err, check.ErrAssertion)
	}
}

func TestRunSuite_Idempotent(t *testing.T) {
	h := provisioned()
	h.AddUser("polkadot", 998, "/bin/sh", true)

	first := RunSuite(h, profile.Polkadot(), Options{})
	second := RunSuite(h, profile.Polkadot(), Options{})

	assert.Equal(t, first, second)
}

func TestRunSuite_EmptyHost(t *testing.T) {
	h := &hostWithoutState{}

	rep := RunSuite(h, profile.Polkadot(), Options{})

	assert.Equal(t, 10, rep.Failed)
	assert.Zero(t, rep.Passed)
}

func TestSuite_OptionalChecks(t *testing.T) {
	p := profile.Polkadot()
	p.Binary.MinVersion = "1.9.0"
	p.MinPeers = 2

	h := provisioned().AddCommand("/usr/local/bin/polkadot --version", host.CommandResult{Stdout: "polkadot 1.15.2\n"})
	client := testutil.StaticClient(http.StatusOK, testutil.RPCResult(`{"peers":8,"isSyncing":false,"shouldHavePeers":true}`))

	rep := RunSuite(h, p, Options{RPC: true, RPCClient: client})

	require.True(t, rep.OK(), "failures: %v", rep.Failures())
	names := resultNames(rep)
	assert.Equal(t, "version: /usr/local/bin/polkadot", names[1])
	assert.Equal(t, "rpc: http://127.0.0.1:9933", names[len(names)-1])
	assert.Len(t, names, 12)
}

func TestSuite_RPCWithoutURL(t *testing.T) {
	p := profile.Polkadot()
	p.RPCURL = ""

	checks := Suite(provisioned(), p, Options{RPC: true})

	assert.Len(t, checks, 10)
}

// hostWithoutState answers every probe with "absent".
type hostWithoutState struct{ host.Host }

func (hostWithoutState) File(path string) (host.FileInfo, error) {
	return host.FileInfo{Path: path}, nil
}

func (hostWithoutState) Service(name string) (host.ServiceInfo, error) {
	return host.ServiceInfo{Name: name}, nil
}

func (hostWithoutState) User(name string) (host.UserInfo, error) {
	return host.UserInfo{Name: name}, nil
}

func (hostWithoutState) Socket(address string) (host.SocketInfo, error) {
	addr, err := host.ParseSocketAddress(address)
	return host.SocketInfo{Address: addr}, err
}

func TestSuite_ChecksumAndMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, "substrate_block_height{status=\"best\"} 42\n")
	}))
	defer srv.Close()

	sum := sha256.Sum256([]byte("polkadot"))
	p := profile.Polkadot()
	p.Binary.SHA256 = hex.EncodeToString(sum[:])
	p.MetricsURL = srv.URL

	h := provisioned().AddContent("/usr/local/bin/polkadot", 0o755, "polkadot")
	rep := RunSuite(h, p, Options{Metrics: true})

	require.True(t, rep.OK(), "failures: %v", rep.Failures())
	names := resultNames(rep)
	require.Len(t, names, 12)
	assert.Equal(t, "hash: /usr/local/bin/polkadot", names[1])
	assert.Equal(t, `metric: substrate_block_height{status="best"}`, names[11])
}

func TestSuite_MetricsDisabledByDefault(t *testing.T) {
	checks := Suite(provisioned(), profile.Polkadot(), Options{})
	assert.Len(t, checks, 10)
}
