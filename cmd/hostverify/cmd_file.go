package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/filecheck"
	"github.com/vertti/hostverify/pkg/host"
)

var (
	fileRegular   bool
	fileDir       bool
	fileMode      string
	fileModeExact string
	fileUser      string
	fileGroup     string
)

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Check that a file or directory exists with the expected mode and owner",
	Args:  cobra.ExactArgs(1),
	RunE:  runFileCheck,
}

func init() {
	fileCmd.Flags().BoolVar(&fileRegular, "file", false, "expect a regular file")
	fileCmd.Flags().BoolVar(&fileDir, "dir", false, "expect a directory")
	fileCmd.Flags().StringVar(&fileMode, "mode", "", "minimum permissions (e.g., 0640)")
	fileCmd.Flags().StringVar(&fileModeExact, "mode-exact", "", "exact permissions required")
	fileCmd.Flags().StringVar(&fileUser, "user", "", "expected owner user")
	fileCmd.Flags().StringVar(&fileGroup, "group", "", "expected owner group")
	fileCmd.MarkFlagsMutuallyExclusive("file", "dir")
	rootCmd.AddCommand(fileCmd)
}

func runFileCheck(cmd *cobra.Command, args []string) error {
	if err := requireAtMostOne(
		flagValue{"--mode", fileMode},
		flagValue{"--mode-exact", fileModeExact},
	); err != nil {
		return err
	}

	return withHost(func(h host.Host) error {
		return runCheck(cmd, &filecheck.Check{
			Path:       args[0],
			ExpectFile: fileRegular,
			ExpectDir:  fileDir,
			Mode:       fileMode,
			ModeExact:  fileModeExact,
			User:       fileUser,
			Group:      fileGroup,
			Host:       h,
		})
	})
}
