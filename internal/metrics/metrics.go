// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層・ミドルウェア・データストアのプールから利用する。
type MetricsCollector interface {
	ObserveResolution(outcome string)
	ObserveFetch(collection string, elapsed time.Duration, err error)
	RecordHTTPRequest(route string, statusCode int, elapsed time.Duration)
	SetBreakerState(state string)
}

// breakerStates はサーキットブレーカーの状態名と数値の対応。
var breakerStates = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	resolutions  *prometheus.CounterVec
	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	httpStatus   *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	breakerState prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skatebio_resolutions_total",
			Help: "ホスト解決の結果別件数",
		}, []string{"outcome"}),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skatebio_datastore_queries_total",
			Help: "コレクション別・結果別のデータストアクエリ数",
		}, []string{"collection", "result"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skatebio_datastore_query_seconds",
			Help:    "コレクション別のデータストアクエリのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skatebio_http_requests_total",
			Help: "ルート別・HTTPステータスコード別のレスポンス数",
		}, []string{"route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skatebio_http_request_seconds",
			Help:    "ルート別のリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skatebio_datastore_breaker_state",
			Help: "データストアのサーキットブレーカー状態（0=closed, 1=half-open, 2=open）",
		}),
	}

	reg.MustRegister(
		c.resolutions,
		c.fetchTotal,
		c.fetchLatency,
		c.httpStatus,
		c.httpLatency,
		c.breakerState,
	)

	return c
}

// ObserveResolution はホスト解決の結果（found, not_found, redirect, error）を記録する。
func (c *Collector) ObserveResolution(outcome string) {
	c.resolutions.WithLabelValues(outcome).Inc()
}

// ObserveFetch はデータストアクエリの結果とレイテンシを記録する。
func (c *Collector) ObserveFetch(collection string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.fetchTotal.WithLabelValues(collection, result).Inc()
	c.fetchLatency.WithLabelValues(collection).Observe(elapsed.Seconds())
}

// RecordHTTPRequest はルートパターンごとのHTTPステータスと処理時間を記録する。
// routeにはパスそのものではなくルートパターンを渡し、ラベルの濃度を抑える。
func (c *Collector) RecordHTTPRequest(route string, statusCode int, elapsed time.Duration) {
	c.httpStatus.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetBreakerState はサーキットブレーカーの状態を記録する。未知の状態名は無視する。
func (c *Collector) SetBreakerState(state string) {
	if v, ok := breakerStates[state]; ok {
		c.breakerState.Set(v)
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
