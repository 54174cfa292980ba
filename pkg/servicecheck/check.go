package servicecheck

import (
	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
)

// Check verifies an init-system service's state.
type Check struct {
	Name    string    // service name
	Enabled bool      // --enabled: must start automatically
	Running bool      // --running: must be active now
	Host    host.Host // host to probe
}

// Run executes the service check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: "service: " + c.Name,
	}

	svc, err := c.Host.Service(c.Name)
	if err != nil {
		return result.Fail("probe failed", err)
	}

	if svc.State != "" {
		result.AddDetailf("state: %s", svc.State)
	}

	if c.Enabled && !svc.Enabled {
		return result.Failf("not enabled")
	}
	if c.Running && !svc.Running {
		return result.Failf("not running")
	}

	if svc.Running {
		result.AddDetail("active: yes")
	} else {
		result.AddDetail("active: no")
	}
	return result.Pass()
}
