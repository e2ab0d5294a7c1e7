package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"priceScope/internal/oracle"
	"priceScope/internal/report"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("watch start",
		zap.String("rpc", a.cfg.RPCURL),
		zap.Duration("interval", a.cfg.Interval),
		zap.Int("pools", len(a.cfg.Pools)),
		zap.Strings("sinks", a.sinkNames()),
		zap.String("metrics_addr", a.cfg.MetricsAddr),
	)

	return a.runner().Watch(ctx, oracle.NewSession(), report.NewWatch(os.Stdout, a.cfg.NoColor))
}
