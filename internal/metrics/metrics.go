package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/vizchain/viz-go/pkg/cache"
)

type Metrics struct {
	RPCCalls    metric.Int64Counter
	RPCDuration metric.Float64Histogram
	RPCRetries  metric.Int64Counter
	RPCErrors   metric.Int64Counter
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	headBlock atomic.Int64
}

// Setup wires the OpenTelemetry meter provider to a Prometheus exporter and
// returns the /metrics handler alongside the instruments.
func Setup(serviceName string) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{}

	m.RPCCalls, err = meter.Int64Counter(
		"viz_rpc_calls_total",
		metric.WithDescription("Total number of JSON-RPC calls dispatched"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.RPCDuration, err = meter.Float64Histogram(
		"viz_rpc_duration_seconds",
		metric.WithDescription("JSON-RPC round-trip duration in seconds"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.RPCRetries, err = meter.Int64Counter(
		"viz_rpc_retries_total",
		metric.WithDescription("Total number of transport retries"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.RPCErrors, err = meter.Int64Counter(
		"viz_rpc_errors_total",
		metric.WithDescription("Total number of JSON-RPC calls that returned an error"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.CacheHits, err = meter.Int64Counter(
		"viz_cache_hits_total",
		metric.WithDescription("Total number of account cache hits"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.CacheMisses, err = meter.Int64Counter(
		"viz_cache_misses_total",
		metric.WithDescription("Total number of account cache misses"),
	)
	if err != nil {
		return nil, nil, err
	}

	_, err = meter.Int64ObservableGauge(
		"viz_head_block_number",
		metric.WithDescription("Head block number reported by the connected node"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(m.headBlock.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := promhttp.Handler()
	return m, handler, nil
}

// ObserveCall satisfies the rpc package's CallObserver hook.
func (m *Metrics) ObserveCall(method, api string, attempts int, duration time.Duration, err error) {
	ctx := context.Background()
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("api", api),
	)

	m.RPCCalls.Add(ctx, 1, labels)
	m.RPCDuration.Record(ctx, duration.Seconds(), labels)
	if attempts > 1 {
		m.RPCRetries.Add(ctx, int64(attempts-1), labels)
	}
	if err != nil {
		m.RPCErrors.Add(ctx, 1, labels)
	}
}

// InstrumentStore wraps a cache store so reads count into the hit and miss
// counters.
func (m *Metrics) InstrumentStore(s cache.Store) cache.Store {
	return &instrumentedStore{Store: s, metrics: m}
}

type instrumentedStore struct {
	cache.Store
	metrics *Metrics
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.Store.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.CacheHits.Add(ctx, 1)
	case errors.Is(err, cache.ErrNotFound):
		s.metrics.CacheMisses.Add(ctx, 1)
	}
	return value, err
}

// RecordHeadBlock updates the value reported by the head-block gauge.
func (m *Metrics) RecordHeadBlock(block int64) {
	m.headBlock.Store(block)
}
