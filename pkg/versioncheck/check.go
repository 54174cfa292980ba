package versioncheck

import (
	"strings"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/version"
)

// Check runs a binary's version command on the host and matches the
// reported version against a constraint.
type Check struct {
	Binary      string    // path of the binary
	Constraint  string    // "1.9.0" (minimum) or a semver range like "~1.15"
	VersionFlag string    // default "--version"
	Host        host.Host // host to run on
}

// Run executes the version check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: "version: " + c.Binary,
	}

	constraint, err := version.Constraint(c.Constraint)
	if err != nil {
		return result.Fail("invalid constraint", err)
	}

	flag := c.VersionFlag
	if flag == "" {
		flag = "--version"
	}

	res, err := c.Host.Run(c.Binary, flag)
	if err != nil {
		return result.Fail("probe failed", err)
	}
	if !res.OK() {
		return result.Failf("%s %s exited %d: %s", c.Binary, flag, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	v, err := version.Extract(res.Stdout)
	if err != nil {
		return result.Fail("cannot parse version output", err)
	}
	result.AddDetailf("version: %s", v)

	if !constraint.Check(v) {
		return result.Failf("version %s does not satisfy %s", v, c.Constraint)
	}
	return result.Pass()
}
