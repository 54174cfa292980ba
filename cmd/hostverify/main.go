package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/exec"
	"github.com/vertti/hostverify/pkg/output"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	target         string
	sshKey         string
	knownHosts     string
	insecureSSH    bool
	connectTimeout time.Duration
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "hostverify",
	Short: "Verify that a node host is provisioned correctly",
	Long: "hostverify checks the state a provisioning run should have left behind: " +
		"binary, service, system user, directory ownership and listening ports.",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		output.Verbose = verbose
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&target, "target", "local://", "host to verify: local://, ssh://user@host:port or docker://container")
	pf.StringVar(&sshKey, "ssh-key", "", "private key for ssh targets (default: ~/.ssh/id_ed25519 or ~/.ssh/id_rsa)")
	pf.StringVar(&knownHosts, "known-hosts", "", "known_hosts file for ssh targets (default: ~/.ssh/known_hosts)")
	pf.BoolVar(&insecureSSH, "insecure", false, "skip ssh host key verification")
	pf.DurationVar(&connectTimeout, "connect-timeout", 5*time.Second, "ssh dial timeout")
	pf.BoolVarP(&verbose, "verbose", "v", false, "trace every command run on the target")
}

func main() {
	var file string
	os.Args, file = transformArgsForHashbang(os.Args, realFileChecker)
	if file != "" {
		runFile = file
	}

	args, cmdline := exec.SplitArgs(os.Args[1:])
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}

	// Checks passed; hand over to the node command if one was given.
	if cmdline != nil {
		if err := exec.Run(&exec.RealExecutor{}, cmdline); err != nil {
			fmt.Fprintf(os.Stderr, "exec: %v\n", err)
			os.Exit(1)
		}
	}
}

// fileChecker reports whether path is a regular file.
type fileChecker func(path string) bool

func realFileChecker(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var knownSubcommands = []string{
	"file", "service", "user", "socket", "binary", "rpc", "metrics", "node",
	"run", "help", "completion",
}

// transformArgsForHashbang rewrites "hostverify <file> ..." into
// "hostverify run ..." so a .hostverify file can start with
// "#!/usr/local/bin/hostverify". It returns the file that was found.
func transformArgsForHashbang(args []string, isFile fileChecker) ([]string, string) {
	if len(args) < 2 {
		return args, ""
	}
	first := args[1]
	if strings.HasPrefix(first, "-") || slices.Contains(knownSubcommands, first) {
		return args, ""
	}
	if !isFile(first) {
		return args, ""
	}
	return append([]string{args[0], "run"}, args[2:]...), first
}
