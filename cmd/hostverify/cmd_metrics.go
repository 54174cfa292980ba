package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/hostverify/pkg/metricscheck"
)

var (
	metricsName       string
	metricsLabels     []string
	metricsMin        float64
	metricsMax        float64
	metricsTimeout    time.Duration
	metricsRetry      int
	metricsRetryDelay time.Duration
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <url>",
	Short: "Check a series on a node's Prometheus endpoint",
	Long: "Scrape a Prometheus text endpoint (e.g. http://127.0.0.1:9615/metrics) " +
		"and check the value of one series.",
	Args: cobra.ExactArgs(1),
	RunE: runMetricsCheck,
}

func init() {
	metricsCmd.Flags().StringVar(&metricsName, "metric", "substrate_block_height", "metric family name")
	metricsCmd.Flags().StringSliceVar(&metricsLabels, "label", nil, "label matcher (key=value), can be repeated")
	metricsCmd.Flags().Float64Var(&metricsMin, "min", 0, "minimum value")
	metricsCmd.Flags().Float64Var(&metricsMax, "max", 0, "maximum value")
	metricsCmd.Flags().DurationVar(&metricsTimeout, "timeout", 5*time.Second, "request timeout")
	metricsCmd.Flags().IntVar(&metricsRetry, "retry", 0, "retry count on failure")
	metricsCmd.Flags().DurationVar(&metricsRetryDelay, "retry-delay", 1*time.Second, "delay between retries")
	rootCmd.AddCommand(metricsCmd)
}

func runMetricsCheck(cmd *cobra.Command, args []string) error {
	labels, err := metricscheck.ParseLabels(metricsLabels)
	if err != nil {
		return err
	}

	c := &metricscheck.Check{
		URL:        args[0],
		Metric:     metricsName,
		Labels:     labels,
		Timeout:    metricsTimeout,
		Retry:      metricsRetry,
		RetryDelay: metricsRetryDelay,
	}
	if cmd.Flags().Changed("min") {
		c.Min = &metricsMin
	}
	if cmd.Flags().Changed("max") {
		c.Max = &metricsMax
	}

	return runCheck(cmd, c)
}
