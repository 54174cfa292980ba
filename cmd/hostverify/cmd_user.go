package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/usercheck"
)

var (
	userShell  string
	userSystem bool
	userUID    string
	userGID    string
	userHome   string
)

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Check that a user exists and meets requirements",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserCheck,
}

func init() {
	userCmd.Flags().StringVar(&userShell, "shell", "", "expected login shell")
	userCmd.Flags().BoolVar(&userSystem, "system", false, "must be a system account")
	userCmd.Flags().StringVar(&userUID, "uid", "", "expected user ID")
	userCmd.Flags().StringVar(&userGID, "gid", "", "expected primary group ID")
	userCmd.Flags().StringVar(&userHome, "home", "", "expected home directory")
	rootCmd.AddCommand(userCmd)
}

func runUserCheck(cmd *cobra.Command, args []string) error {
	return withHost(func(h host.Host) error {
		return runCheck(cmd, &usercheck.Check{
			Username: args[0],
			Shell:    userShell,
			System:   userSystem,
			UID:      userUID,
			GID:      userGID,
			Home:     userHome,
			Host:     h,
		})
	})
}
