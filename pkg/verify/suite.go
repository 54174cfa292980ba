package verify

import (
	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/hashcheck"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/profile"
	"github.com/vertti/hostverify/pkg/rpccheck"
	"github.com/vertti/hostverify/pkg/servicecheck"
	"github.com/vertti/hostverify/pkg/versioncheck"
)

// Options select the optional parts of a suite.
type Options struct {
	Running bool // also require the service to be active
	RPC     bool // query the node's RPC health endpoint
	Metrics bool // scrape the node's Prometheus endpoint
	// RPCClient overrides the HTTP client of the RPC check.
	RPCClient rpccheck.HTTPClient
}

// Suite returns every check for a profile, in report order: binary,
// checksum, version, service, user, directories, ports, RPC, metrics.
func Suite(h host.Host, p profile.Profile, opts Options) []check.Checker {
	checks := []check.Checker{BinaryCheck(h, p.Binary.Path, p.Binary.Mode)}

	if p.Binary.SHA256 != "" {
		checks = append(checks, &hashcheck.Check{
			Path:     p.Binary.Path,
			Expected: p.Binary.SHA256,
			Host:     h,
		})
	}

	if p.Binary.MinVersion != "" {
		checks = append(checks, &versioncheck.Check{
			Binary:     p.Binary.Path,
			Constraint: p.Binary.MinVersion,
			Host:       h,
		})
	}

	checks = append(checks,
		&servicecheck.Check{Name: p.Service, Enabled: true, Running: opts.Running, Host: h},
		SystemUserCheck(h, p.User.Name, p.User.Shell),
	)
	checks = append(checks, DirectoryChecks(h, p.Directories, p.Owner.User, p.Owner.Group)...)
	checks = append(checks, PortChecks(h, p.Ports, p.BindAddress)...)

	if opts.RPC && p.RPCURL != "" {
		checks = append(checks, &rpccheck.Check{
			URL:      p.RPCURL,
			MinPeers: p.MinPeers,
			Client:   opts.RPCClient,
		})
	}

	if opts.Metrics && p.MetricsURL != "" {
		checks = append(checks, BestBlockCheck(p.MetricsURL))
	}

	return checks
}

// RunSuite runs every check of a profile's suite. A failing check never
// stops the run.
func RunSuite(h host.Host, p profile.Profile, opts Options) check.Report {
	return check.RunAll(Suite(h, p, opts))
}
