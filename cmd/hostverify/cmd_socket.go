package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/socketcheck"
	"github.com/vertti/hostverify/pkg/verify"
)

var (
	socketPorts []int
	socketBind  string
)

var socketCmd = &cobra.Command{
	Use:   "socket [address...]",
	Short: "Check that sockets are listening",
	Long: "Check that sockets are listening on the target. Addresses look like " +
		"tcp://0.0.0.0:30333, udp://9933 or unix:///run/node.sock; --port adds " +
		"tcp://<bind>:<port> for each port.",
	RunE: runSocketCheck,
}

func init() {
	socketCmd.Flags().IntSliceVar(&socketPorts, "port", nil, "TCP port that must be listening on --bind, can be repeated")
	socketCmd.Flags().StringVar(&socketBind, "bind", "0.0.0.0", "bind address for --port")
	rootCmd.AddCommand(socketCmd)
}

func runSocketCheck(cmd *cobra.Command, args []string) error {
	if err := requireAtLeastOne(
		flagSet{"<address>", len(args) > 0},
		flagSet{"--port", len(socketPorts) > 0},
	); err != nil {
		return err
	}
	for _, p := range socketPorts {
		if p < 1 || p > 65535 {
			return fmt.Errorf("invalid port %d", p)
		}
	}

	return withHost(func(h host.Host) error {
		var checks []check.Checker
		for _, addr := range args {
			checks = append(checks, &socketcheck.Check{Address: addr, Host: h})
		}
		checks = append(checks, verify.PortChecks(h, socketPorts, socketBind)...)
		return runChecks(cmd, checks)
	})
}
