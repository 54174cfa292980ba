package main

import (
	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/host"
	"github.com/vertti/hostverify/pkg/output"
	"github.com/vertti/hostverify/pkg/profile"
	"github.com/vertti/hostverify/pkg/verify"
)

var (
	nodeProfile    string
	nodeRunning    bool
	nodeRPC        bool
	nodeRPCURL     string
	nodeMetrics    bool
	nodeMinVersion string
)

var nodeCmd = &cobra.Command{
	Use:   "node [-- command args...]",
	Short: "Run every check of a node profile",
	Long: "Run every check of a node profile (Polkadot by default): binary, service, " +
		"system user, directory ownership and listening ports. Every check runs; " +
		"the exit code is 1 if any failed. A command after -- replaces hostverify " +
		"once all checks pass.",
	Args: cobra.NoArgs,
	RunE: runNodeCheck,
}

func init() {
	nodeCmd.Flags().StringVar(&nodeProfile, "profile", "", "JSON profile overriding the Polkadot defaults")
	nodeCmd.Flags().BoolVar(&nodeRunning, "running", false, "also require the service to be active")
	nodeCmd.Flags().BoolVar(&nodeRPC, "rpc", false, "also query the node's system_health endpoint")
	nodeCmd.Flags().StringVar(&nodeRPCURL, "rpc-url", "", "RPC endpoint (overrides the profile)")
	nodeCmd.Flags().BoolVar(&nodeMetrics, "metrics", false, "also require a best block height from the Prometheus endpoint")
	nodeCmd.Flags().StringVar(&nodeMinVersion, "min-version", "", "binary version constraint (overrides the profile)")
	rootCmd.AddCommand(nodeCmd)
}

func loadProfile() (profile.Profile, error) {
	p := profile.Polkadot()
	if nodeProfile != "" {
		var err error
		if p, err = profile.Load(nodeProfile); err != nil {
			return p, err
		}
	}
	if nodeRPCURL != "" {
		p.RPCURL = nodeRPCURL
	}
	if nodeMinVersion != "" {
		p.Binary.MinVersion = nodeMinVersion
	}
	return p, p.Validate()
}

func runNodeCheck(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	output.Debugf("profile %s: %d directories, %d ports", p.Name, len(p.Directories), len(p.Ports))

	return withHost(func(h host.Host) error {
		rep := verify.RunSuite(h, p, verify.Options{
			Running: nodeRunning,
			RPC:     nodeRPC || nodeRPCURL != "",
			Metrics: nodeMetrics,
		})
		return report(cmd, rep)
	})
}
