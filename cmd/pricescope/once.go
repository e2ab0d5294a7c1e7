package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"priceScope/internal/report"
)

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Debug("once start",
		zap.String("rpc", a.cfg.RPCURL),
		zap.Int("pools", len(a.cfg.Pools)),
		zap.Strings("sinks", a.sinkNames()),
	)

	return a.runner().Once(ctx, report.NewOnce(os.Stdout, a.cfg.NoColor))
}
