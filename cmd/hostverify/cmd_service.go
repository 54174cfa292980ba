package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/servicecheck"
)

var (
	serviceEnabled bool
	serviceRunning bool
)

var serviceCmd = &cobra.Command{
	Use:   "service <name>",
	Short: "Check that a systemd service is enabled or running",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceCheck,
}

func init() {
	serviceCmd.Flags().BoolVar(&serviceEnabled, "enabled", false, "service must start at boot")
	serviceCmd.Flags().BoolVar(&serviceRunning, "running", false, "service must be active")
	rootCmd.AddCommand(serviceCmd)
}

func runServiceCheck(cmd *cobra.Command, args []string) error {
	if err := requireAtLeastOne(
		flagSet{"--enabled", serviceEnabled},
		flagSet{"--running", serviceRunning},
	); err != nil {
		return err
	}

	return withHost(func(h host.Host) error {
		return runCheck(cmd, &servicecheck.Check{
			Name:    args[0],
			Enabled: serviceEnabled,
			Running: serviceRunning,
			Host:    h,
		})
	})
}
