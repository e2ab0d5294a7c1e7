// Package observability provides Prometheus metrics for the price poller.
package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds all Prometheus metrics for the poller. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	CyclesTotal          *prometheus.CounterVec
	FetchDuration        *prometheus.HistogramVec
	RPCCallDuration      *prometheus.HistogramVec
	Price                *prometheus.GaugeVec
	PriceChangePercent   *prometheus.GaugeVec
	LastSuccessTimestamp prometheus.Gauge
	SinkErrors           *prometheus.CounterVec
}

// NewMetrics registers all metrics on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "pricescope"
	}
	factory := promauto.With(reg)

	return &Metrics{
		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Poll cycles by outcome",
		}, []string{"status"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time to read one pool's state",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pool"}),
		RPCCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_call_duration_seconds",
			Help:      "JSON-RPC call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		Price: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price",
			Help:      "Last computed price per pool",
		}, []string{"pool"}),
		PriceChangePercent: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_change_percent",
			Help:      "Change versus the previous sample, in percent",
		}, []string{"pool"}),
		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful cycle",
		}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed sample writes",
		}, []string{"sink"}),
	}
}

func (m *Metrics) ObserveCycle(ok bool, at time.Time) {
	if m == nil {
		return
	}
	if !ok {
		m.CyclesTotal.WithLabelValues("error").Inc()
		return
	}
	m.CyclesTotal.WithLabelValues("ok").Inc()
	m.LastSuccessTimestamp.Set(float64(at.Unix()))
}

func (m *Metrics) ObserveFetch(pool string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(pool).Observe(elapsed.Seconds())
}

// ObserveRPCCall matches chain.CallObserver.
func (m *Metrics) ObserveRPCCall(method string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RPCCallDuration.WithLabelValues(method, status).Observe(elapsed.Seconds())
}

func (m *Metrics) SetPrice(pool string, price float64, changePercent float64, hasPrior bool) {
	if m == nil {
		return
	}
	m.Price.WithLabelValues(pool).Set(price)
	if hasPrior {
		m.PriceChangePercent.WithLabelValues(pool).Set(changePercent)
	}
}

func (m *Metrics) SinkError(sink string) {
	if m == nil {
		return
	}
	m.SinkErrors.WithLabelValues(sink).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
