// Package verify asserts that a host was provisioned to run a blockchain
// node: binary, service, system user, directories and listening ports.
//
// Every operation is a read-only query against a host.Host and reports one
// check.Result per assertion. Operations share no state and may run in any
// order.
package verify

import (
	"io/fs"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/filecheck"
	"github.com/vertti/hostverify/pkg/hashcheck"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/metricscheck"
	"github.com/vertti/hostverify/pkg/rpccheck"
	"github.com/vertti/hostverify/pkg/servicecheck"
	"github.com/vertti/hostverify/pkg/socketcheck"
	"github.com/vertti/hostverify/pkg/usercheck"
	"github.com/vertti/hostverify/pkg/versioncheck"
)

// CheckBinaryInstalled asserts path is a regular file with exactly mode.
func CheckBinaryInstalled(h host.Host, path string, mode fs.FileMode) check.Result {
	return BinaryCheck(h, path, mode).Run()
}

// BinaryCheck returns the checker behind CheckBinaryInstalled.
func BinaryCheck(h host.Host, path string, mode fs.FileMode) check.Checker {
	return &filecheck.Check{
		Path:       path,
		ExpectFile: true,
		ModeExact:  host.FormatMode(mode),
		Host:       h,
	}
}

// CheckServiceEnabled asserts the service starts automatically.
func CheckServiceEnabled(h host.Host, name string) check.Result {
	return ServiceEnabledCheck(h, name).Run()
}

// ServiceEnabledCheck returns the checker behind CheckServiceEnabled.
func ServiceEnabledCheck(h host.Host, name string) check.Checker {
	return &servicecheck.Check{Name: name, Enabled: true, Host: h}
}

// CheckServiceRunning asserts the service is active.
func CheckServiceRunning(h host.Host, name string) check.Result {
	return (&servicecheck.Check{Name: name, Running: true, Host: h}).Run()
}

// CheckSystemUser asserts the user exists, logs in with shell and is a
// system account.
func CheckSystemUser(h host.Host, name, shell string) check.Result {
	return SystemUserCheck(h, name, shell).Run()
}

// SystemUserCheck returns the checker behind CheckSystemUser.
func SystemUserCheck(h host.Host, name, shell string) check.Checker {
	return &usercheck.Check{Username: name, Shell: shell, System: true, Host: h}
}

// CheckDirectories asserts each path is a directory owned by user:group.
// It returns one result per path.
func CheckDirectories(h host.Host, paths []string, user, group string) []check.Result {
	return runEach(DirectoryChecks(h, paths, user, group))
}

// DirectoryChecks returns the checkers behind CheckDirectories.
func DirectoryChecks(h host.Host, paths []string, user, group string) []check.Checker {
	checks := make([]check.Checker, 0, len(paths))
	for _, p := range paths {
		checks = append(checks, &filecheck.Check{
			Path:      p,
			ExpectDir: true,
			User:      user,
			Group:     group,
			Host:      h,
		})
	}
	return checks
}

// CheckListeningPorts asserts something listens on tcp://bindAddress:port
// for each port. It returns one result per port.
func CheckListeningPorts(h host.Host, ports []int, bindAddress string) []check.Result {
	return runEach(PortChecks(h, ports, bindAddress))
}

// PortChecks returns the checkers behind CheckListeningPorts.
func PortChecks(h host.Host, ports []int, bindAddress string) []check.Checker {
	checks := make([]check.Checker, 0, len(ports))
	for _, port := range ports {
		checks = append(checks, &socketcheck.Check{
			Address: host.TCPAddress(bindAddress, port),
			Host:    h,
		})
	}
	return checks
}

// CheckBinaryVersion asserts the binary reports a version satisfying
// constraint.
func CheckBinaryVersion(h host.Host, path, constraint string) check.Result {
	return (&versioncheck.Check{Binary: path, Constraint: constraint, Host: h}).Run()
}

// CheckRPCHealth asserts the node answers system_health with at least
// minPeers peers.
func CheckRPCHealth(url string, minPeers int) check.Result {
	return (&rpccheck.Check{URL: url, MinPeers: minPeers}).Run()
}

// CheckBinaryChecksum asserts the binary's sha256 digest equals sum.
func CheckBinaryChecksum(h host.Host, path, sum string) check.Result {
	return (&hashcheck.Check{Path: path, Expected: sum, Host: h}).Run()
}

// BestBlockCheck asserts the node exports a best block height of at least
// one, i.e. it has imported blocks.
func BestBlockCheck(url string) check.Checker {
	minHeight := 1.0
	return &metricscheck.Check{
		URL:    url,
		Metric: "substrate_block_height",
		Labels: map[string]string{"status": "best"},
		Min:    &minHeight,
	}
}

// CheckMetrics runs BestBlockCheck.
func CheckMetrics(url string) check.Result {
	return BestBlockCheck(url).Run()
}

func runEach(checks []check.Checker) []check.Result {
	results := make([]check.Result, 0, len(checks))
	for _, c := range checks {
		results = append(results, c.Run())
	}
	return results
}
