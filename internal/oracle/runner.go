package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"priceScope/internal/dex"
	"priceScope/internal/model"
	"priceScope/internal/observability"
	"priceScope/internal/price"
	"priceScope/internal/storage"
)

// RunConfig holds runtime settings for the poller.
type RunConfig struct {
	Pools        []model.PoolDescriptor
	Interval     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	FetchTimeout time.Duration
}

// Quote is one pool's sample together with its move since the previous cycle.
type Quote struct {
	Pool   model.PoolDescriptor
	Sample model.PriceSample
	Change price.Change
}

// CycleResult is the outcome of one successful cycle, in pool order.
type CycleResult struct {
	At     time.Time
	Quotes []Quote
}

// Samples returns the samples of every quote.
func (c CycleResult) Samples() []model.PriceSample {
	samples := make([]model.PriceSample, 0, len(c.Quotes))
	for _, quote := range c.Quotes {
		samples = append(samples, quote.Sample)
	}
	return samples
}

// Reporter renders a successful cycle.
type Reporter interface {
	Report(result CycleResult) error
}

// Runner polls the configured pools and turns their state into prices.
type Runner struct {
	cfg     RunConfig
	caller  dex.Caller
	sinks   []storage.Sink
	metrics *observability.Metrics
	logger  *zap.Logger
	retry   retryPolicy
	now     func() time.Time
}

// NewRunner builds a Runner with its dependencies. metrics may be nil.
func NewRunner(cfg RunConfig, caller dex.Caller, sinks []storage.Sink, metrics *observability.Metrics, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		caller:  caller,
		sinks:   sinks,
		metrics: metrics,
		logger:  logger,
		retry: retryPolicy{
			maxRetries: cfg.MaxRetries,
			baseDelay:  cfg.RetryBackoff,
			maxDelay:   cfg.Interval,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *Runner) validate() error {
	if r.caller == nil {
		return fmt.Errorf("chain caller is nil")
	}
	if len(r.cfg.Pools) == 0 {
		return fmt.Errorf("at least one pool is required")
	}
	return nil
}

// Cycle fetches every pool concurrently and prices them. Any failure fails the
// whole cycle and leaves session untouched.
func (r *Runner) Cycle(ctx context.Context, session *Session) (CycleResult, error) {
	if err := r.validate(); err != nil {
		return CycleResult{}, err
	}
	if r.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.FetchTimeout)
		defer cancel()
	}

	samples := make([]model.PriceSample, len(r.cfg.Pools))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, pool := range r.cfg.Pools {
		i, pool := i, pool
		group.Go(func() error {
			sample, err := r.samplePool(groupCtx, pool)
			if err != nil {
				return fmt.Errorf("pool %s: %w", pool.ID, err)
			}
			samples[i] = sample
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		r.metrics.ObserveCycle(false, r.now())
		return CycleResult{}, err
	}

	result := CycleResult{At: r.now(), Quotes: make([]Quote, 0, len(samples))}
	for i, sample := range samples {
		var previous decimal.Decimal
		if last, ok := session.Previous(sample.PoolID); ok {
			previous = last.Value
		}
		change := price.ChangeIndicator(sample.Value, previous)
		result.Quotes = append(result.Quotes, Quote{Pool: r.cfg.Pools[i], Sample: sample, Change: change})
		r.metrics.SetPrice(sample.PoolID, sample.Value.InexactFloat64(), change.Percent.InexactFloat64(), change.HasPrior())
	}
	session.Record(samples...)
	r.metrics.ObserveCycle(true, result.At)

	return result, nil
}

func (r *Runner) samplePool(ctx context.Context, pool model.PoolDescriptor) (model.PriceSample, error) {
	start := time.Now()
	var state model.PoolState
	err := r.retry.do(ctx, func(ctx context.Context) error {
		var err error
		state, err = dex.FetchPoolState(ctx, r.caller, pool)
		if err != nil {
			r.logger.Debug("pool fetch failed", zap.String("pool", pool.ID), zap.Error(err))
		}
		return err
	})
	r.metrics.ObserveFetch(pool.ID, time.Since(start))
	if err != nil {
		return model.PriceSample{}, err
	}

	value, err := ComputePrice(pool, state)
	if err != nil {
		return model.PriceSample{}, err
	}

	return model.PriceSample{
		PoolID:      pool.ID,
		Label:       pool.Label,
		PoolAddress: pool.Address,
		Model:       pool.Model,
		Value:       value,
		Timestamp:   r.now(),
		State:       state,
	}, nil
}

// ComputePrice applies the pool's model to its raw state.
func ComputePrice(pool model.PoolDescriptor, state model.PoolState) (decimal.Decimal, error) {
	switch pool.Model {
	case model.ModelReserveRatio:
		if state.Reserves == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: missing reserves", dex.ErrDecode)
		}
		return price.ReserveRatioPrice(*state.Reserves, pool.BaseDecimals, pool.QuoteDecimals)
	case model.ModelTick:
		if state.Slot0 == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: missing slot0", dex.ErrDecode)
		}
		return price.TickPrice(state.Slot0.Tick, pool.DecimalAdjustment)
	case model.ModelSqrtPrice:
		if state.Slot0 == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: missing slot0", dex.ErrDecode)
		}
		return price.SqrtPriceX96Price(state.Slot0.SqrtPriceX96, pool.DecimalAdjustment)
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported pool model: %q", pool.Model)
	}
}

// Step runs one cycle, renders it and hands the samples to every sink.
func (r *Runner) Step(ctx context.Context, session *Session, reporter Reporter) (CycleResult, error) {
	result, err := r.Cycle(ctx, session)
	if err != nil {
		return CycleResult{}, err
	}

	if reporter != nil {
		if err := reporter.Report(result); err != nil {
			r.logger.Warn("render report failed", zap.Error(err))
		}
	}
	r.persist(ctx, result.Samples())

	return result, nil
}

func (r *Runner) persist(ctx context.Context, samples []model.PriceSample) {
	for _, sink := range r.sinks {
		if err := sink.PutSamples(ctx, samples); err != nil {
			r.metrics.SinkError(sink.Name())
			r.logger.Warn("store samples failed", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
}

// Once runs a single cycle with a fresh session. A failed cycle is logged and
// not returned; only configuration errors are.
func (r *Runner) Once(ctx context.Context, reporter Reporter) error {
	if err := r.validate(); err != nil {
		return err
	}
	if _, err := r.Step(ctx, NewSession(), reporter); err != nil {
		r.logCycleError(err)
	}
	return nil
}

// Watch cycles until ctx is done, waiting Interval after each cycle. Failed
// cycles are logged and the loop continues with session unchanged.
func (r *Runner) Watch(ctx context.Context, session *Session, reporter Reporter) error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.cfg.Interval <= 0 {
		return fmt.Errorf("interval must be greater than zero")
	}
	if session == nil {
		session = NewSession()
	}

	for {
		if _, err := r.Step(ctx, session, reporter); err != nil && ctx.Err() == nil {
			r.logCycleError(err)
		}

		timer := time.NewTimer(r.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("watch stopped", zap.Int("pools_seen", session.Len()))
			return nil
		case <-timer.C:
		}
	}
}

func (r *Runner) logCycleError(err error) {
	r.logger.Error("cycle failed", zap.String("kind", ErrorKind(err)), zap.Error(err))
}

// ErrorKind classifies a cycle error for logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, dex.ErrRPC):
		return "rpc"
	case errors.Is(err, dex.ErrDecode):
		return "decode"
	case errors.Is(err, price.ErrArithmetic):
		return "arithmetic"
	default:
		return "unknown"
	}
}
