package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/verifyfile"
)

var runFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run checks from a .hostverify file",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to .hostverify file (default: search up from current directory)")
	rootCmd.AddCommand(runCmd)
}

// runLine executes one line of a verify file and returns its exit code.
var runLine = func(args []string) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	c := exec.Command(executable, args...) //nolint:gosec // re-invoking ourselves
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin

	err = c.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

func runRun(cmd *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	path, err := verifyfile.FindFile(wd, runFile)
	if err != nil {
		return err
	}

	lines, err := verifyfile.ParseFile(path)
	if err != nil {
		return err
	}

	failed := 0
	for _, line := range lines {
		args := slices.Concat(line.Args, inheritedFlags(cmd))
		code, err := runLine(args)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line.Number, err)
		}
		if code != 0 {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s exited %d\n", path, line.Number, line, code)
		}
	}

	if failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d lines failed\n", failed, len(lines))
		return ErrCheckFailed
	}
	return nil
}

// inheritedFlags passes the root flags given to run on to every line.
func inheritedFlags(cmd *cobra.Command) []string {
	var args []string
	for _, name := range []string{"target", "ssh-key", "known-hosts", "connect-timeout"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			args = append(args, "--"+name, f.Value.String())
		}
	}
	for _, name := range []string{"insecure", "verbose"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			args = append(args, "--"+name+"="+f.Value.String())
		}
	}
	return args
}
