package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "pricescope",
		Short:        "DEX pool price monitor",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc", "", "JSON-RPC URL (default Arbitrum One)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.StringSlice("only", nil, "pool ids to poll (comma-separated)")
	flags.String("out", "", "append samples to this JSONL file")
	flags.String("pg-dsn", "", "Postgres DSN for sample storage")
	flags.String("redis-addr", "", "Redis address for sample publishing")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flags.Bool("no-color", false, "disable colored output")
	flags.Int("max-retries", 0, "retries per pool fetch on RPC failure")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	flags.Duration("fetch-timeout", 0, "per-cycle fetch timeout, 0 disables")

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Print current prices and exit",
		RunE:  runOnce,
	}
	root.AddCommand(onceCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll prices on a fixed interval",
		RunE:  runWatch,
	}
	watchCmd.Flags().Duration("interval", 60*time.Second, "delay between cycles")
	root.AddCommand(watchCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect <pool address>",
		Short: "Probe a pool and print a config entry for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	root.AddCommand(inspectCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
