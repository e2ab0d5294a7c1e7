package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"priceScope/internal/chain"
	"priceScope/internal/config"
	"priceScope/internal/observability"
	"priceScope/internal/oracle"
	"priceScope/internal/storage"
	"priceScope/internal/storage/postgres"
	"priceScope/internal/storage/redis"
)

// app holds the dependencies shared by once and watch.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	chain   *chain.Client
	metrics *observability.Metrics
	sinks   []storage.Sink
	closers []func()
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) connect(ctx context.Context) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = observability.NewMetrics("pricescope", registry)

	if a.cfg.MetricsAddr != "" {
		go func() {
			if err := observability.Serve(ctx, a.cfg.MetricsAddr, registry, a.logger); err != nil {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	chainClient, err := chain.NewClient(ctx, a.cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	chainClient.Observe(a.metrics.ObserveRPCCall)
	a.chain = chainClient
	a.closers = append(a.closers, chainClient.Close)

	if a.cfg.Out != "" {
		a.sinks = append(a.sinks, storage.NewJsonlStorage(a.cfg.Out))
	}

	if a.cfg.PostgresDSN != "" {
		store, err := postgres.NewStore(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := store.UpsertPools(ctx, a.cfg.Pools); err != nil {
			return err
		}
		a.sinks = append(a.sinks, store)
	}

	if a.cfg.RedisAddr != "" {
		publisher, err := redis.NewPublisher(ctx, redis.Options{
			Addr:          a.cfg.RedisAddr,
			Password:      a.cfg.RedisPassword,
			DB:            a.cfg.RedisDB,
			ChannelPrefix: a.cfg.RedisChannelPrefix,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = publisher.Close() })
		a.sinks = append(a.sinks, publisher)
	}

	return nil
}

func (a *app) runner() *oracle.Runner {
	return oracle.NewRunner(oracle.RunConfig{
		Pools:        a.cfg.Pools,
		Interval:     a.cfg.Interval,
		MaxRetries:   a.cfg.MaxRetries,
		RetryBackoff: a.cfg.RetryBackoff,
		FetchTimeout: a.cfg.FetchTimeout,
	}, a.chain, a.sinks, a.metrics, a.logger)
}

func (a *app) sinkNames() []string {
	names := make([]string, 0, len(a.sinks))
	for _, sink := range a.sinks {
		names = append(names, sink.Name())
	}
	return names
}

// Close releases connections in reverse order and flushes the logger.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}
