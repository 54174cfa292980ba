package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/output"
)

// ErrCheckFailed is returned when a check fails.
var ErrCheckFailed = errors.New("check failed")

// openTarget is replaced in tests.
var openTarget = host.Open

// withHost opens the --target host, hands it to fn and closes it.
func withHost(fn func(h host.Host) error) error {
	opts := host.TargetOptions{
		SSHKeyFile:     sshKey,
		KnownHostsFile: knownHosts,
		Insecure:       insecureSSH,
		Timeout:        connectTimeout,
	}
	if verbose {
		opts.Logf = output.Debugf
	}

	h, err := openTarget(target, opts)
	if err != nil {
		return err
	}
	output.Debugf("target %s opened", target)

	err = fn(h)
	if cerr := h.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing target: %w", cerr)
	}
	return err
}

// runCheck executes a check, prints the result, and returns an error if failed.
// The returned error causes Cobra to exit with code 1.
func runCheck(cmd *cobra.Command, c check.Checker) error {
	result := c.Run()
	output.WriteResult(cmd.OutOrStdout(), result)

	if !result.OK() {
		return ErrCheckFailed
	}
	return nil
}

// runChecks runs every check, prints each result and, for more than one
// check, a summary line.
func runChecks(cmd *cobra.Command, checks []check.Checker) error {
	if len(checks) == 1 {
		return runCheck(cmd, checks[0])
	}

	rep := check.RunAll(checks)
	return report(cmd, rep)
}

func report(cmd *cobra.Command, rep check.Report) error {
	for _, r := range rep.Results {
		output.WriteResult(cmd.OutOrStdout(), r)
	}
	output.WriteSummary(cmd.OutOrStdout(), rep)

	if !rep.OK() {
		return ErrCheckFailed
	}
	return nil
}
