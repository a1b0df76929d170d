package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "weekly_ops"

// Metrics は週次ダッシュボードの Prometheus メトリクスをまとめます。
//
// Metrics:
//   - weekly_ops_grpc_requests_total{method,code}
//   - weekly_ops_grpc_request_duration_seconds{method}
//   - weekly_ops_aggregation_duration_seconds{kind}
//   - weekly_ops_aggregation_members{kind}
//   - weekly_ops_data_quality_warnings_total{code}
//   - weekly_ops_report_cache_lookups_total{result}
type Metrics struct {
	registry prometheus.Gatherer

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	AggregationSeconds *prometheus.HistogramVec
	AggregationMembers *prometheus.GaugeVec
	WarningsTotal      *prometheus.CounterVec
	CacheLookupsTotal  *prometheus.CounterVec
}

// New はメトリクスを reg に登録して返します。
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_requests_total",
				Help:      "Total number of handled gRPC requests",
			},
			[]string{"method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "Duration of gRPC requests in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method"},
		),
		AggregationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "aggregation_duration_seconds",
				Help:      "Duration of weekly and continuation aggregations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
			[]string{"kind"},
		),
		AggregationMembers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "aggregation_members",
				Help:      "Number of members read by the latest aggregation",
			},
			[]string{"kind"},
		),
		WarningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "data_quality_warnings_total",
				Help:      "Total number of data quality warnings found while aggregating",
			},
			[]string{"code"},
		),
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_cache_lookups_total",
				Help:      "Total number of weekly report cache lookups",
			},
			[]string{"result"},
		),
	}
}

// ObserveAggregation は集計 1 回分の所要時間と対象人数を記録します。
func (m *Metrics) ObserveAggregation(kind string, d time.Duration, members int) {
	m.AggregationSeconds.WithLabelValues(kind).Observe(d.Seconds())
	m.AggregationMembers.WithLabelValues(kind).Set(float64(members))
}

// AddDataQualityWarnings はデータ品質警告の件数を加算します。
func (m *Metrics) AddDataQualityWarnings(code string, n int) {
	if n <= 0 {
		return
	}
	m.WarningsTotal.WithLabelValues(code).Add(float64(n))
}

// RecordCacheLookup はキャッシュ参照の結果を記録します。
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// UnaryServerInterceptor は RPC ごとのリクエスト数と所要時間を記録します。
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		m.RequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(started).Seconds())
		m.RequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// Handler は登録済みメトリクスを公開する HTTP ハンドラを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NewHTTPServer は path でメトリクスを公開する HTTP サーバーを生成します。
func (m *Metrics) NewHTTPServer(addr, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
