package socketcheck

import (
	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
)

// Check verifies something listens on a socket address on the host, e.g.
// "tcp://0.0.0.0:30333".
type Check struct {
	Address string    // protocol://[host:]port or unix:///path
	Host    host.Host // host to probe
}

// Run executes the socket check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: "socket: " + c.Address,
	}

	sock, err := c.Host.Socket(c.Address)
	if err != nil {
		return result.Fail("probe failed", err)
	}
	if !sock.Listening {
		return result.Failf("not listening")
	}

	result.AddDetailf("listening on %s", sock.Address)
	return result.Pass()
}
