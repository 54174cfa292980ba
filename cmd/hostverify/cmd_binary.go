package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/filecheck"
	"github.com/vertti/hostverify/pkg/hashcheck"
	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/versioncheck"
)

var (
	binaryMode         string
	binaryMinVersion   string
	binaryVersionFlag  string
	binaryHash         string
	binaryAlgorithm    string
	binaryChecksumFile string
)

var binaryCmd = &cobra.Command{
	Use:   "binary <path>",
	Short: "Check that an executable is installed with the expected mode and version",
	Args:  cobra.ExactArgs(1),
	RunE:  runBinaryCheck,
}

func init() {
	binaryCmd.Flags().StringVar(&binaryMode, "mode", "0755", "exact permissions required")
	binaryCmd.Flags().StringVar(&binaryMinVersion, "min-version", "", "version constraint (e.g., 1.9.0 or \">=1.9, <2\")")
	binaryCmd.Flags().StringVar(&binaryVersionFlag, "version-flag", "--version", "flag that makes the binary print its version")
	binaryCmd.Flags().StringVar(&binaryHash, "hash", "", "expected hex digest of the binary")
	binaryCmd.Flags().StringVar(&binaryAlgorithm, "algorithm", "sha256", "digest algorithm for --hash: sha256, sha384, sha512 or blake3")
	binaryCmd.Flags().StringVar(&binaryChecksumFile, "checksum-file", "", "local sha256sum-style file listing the binary's digest")
	rootCmd.AddCommand(binaryCmd)
}

func runBinaryCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := requireAtMostOne(
		flagValue{"--hash", binaryHash},
		flagValue{"--checksum-file", binaryChecksumFile},
	); err != nil {
		return err
	}
	algorithm, err := hashcheck.ParseAlgorithm(binaryAlgorithm)
	if err != nil {
		return err
	}

	return withHost(func(h host.Host) error {
		checks := []check.Checker{&filecheck.Check{
			Path:       path,
			ExpectFile: true,
			ModeExact:  binaryMode,
			Host:       h,
		}}
		if binaryHash != "" || binaryChecksumFile != "" {
			checks = append(checks, &hashcheck.Check{
				Path:         path,
				Expected:     binaryHash,
				Algorithm:    algorithm,
				ChecksumFile: binaryChecksumFile,
				Host:         h,
			})
		}
		if binaryMinVersion != "" {
			checks = append(checks, &versioncheck.Check{
				Binary:      path,
				Constraint:  binaryMinVersion,
				VersionFlag: binaryVersionFlag,
				Host:        h,
			})
		}
		return runChecks(cmd, checks)
	})
}
