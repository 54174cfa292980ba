package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/rpccheck"
)

var (
	rpcMinPeers   int
	rpcNotSyncing bool
	rpcTimeout    time.Duration
	rpcRetry      int
	rpcRetryDelay time.Duration
)

var rpcCmd = &cobra.Command{
	Use:   "rpc <url>",
	Short: "Check a node's health over JSON-RPC",
	Args:  cobra.ExactArgs(1),
	RunE:  runRPCCheck,
}

func init() {
	rpcCmd.Flags().IntVar(&rpcMinPeers, "min-peers", 1, "minimum peers when the node should have peers")
	rpcCmd.Flags().BoolVar(&rpcNotSyncing, "not-syncing", false, "fail while the node is syncing")
	rpcCmd.Flags().DurationVar(&rpcTimeout, "timeout", 5*time.Second, "request timeout")
	rpcCmd.Flags().IntVar(&rpcRetry, "retry", 0, "retry count on failure")
	rpcCmd.Flags().DurationVar(&rpcRetryDelay, "retry-delay", 1*time.Second, "delay between retries")
	rootCmd.AddCommand(rpcCmd)
}

func runRPCCheck(cmd *cobra.Command, args []string) error {
	c := &rpccheck.Check{
		URL:        args[0],
		MinPeers:   rpcMinPeers,
		NotSyncing: rpcNotSyncing,
		Timeout:    rpcTimeout,
		Retry:      rpcRetry,
		RetryDelay: rpcRetryDelay,
	}

	return runCheck(cmd, c)
}
