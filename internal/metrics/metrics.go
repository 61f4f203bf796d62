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
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordSignup(outcome string)
	RecordGeocodeLatency(duration time.Duration)
	RecordGeocodeFailure()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups         *prometheus.CounterVec
	geocodeLatency  prometheus.Histogram
	geocodeFailures prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersignup_signups_total",
			Help: "結果別のサインアップ処理数",
		}, []string{"outcome"}),
		geocodeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "usersignup_geocode_latency_seconds",
			Help:    "逆ジオコーディング呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		geocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usersignup_geocode_failures_total",
			Help: "逆ジオコーディング呼び出し失敗の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersignup_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signups,
		c.geocodeLatency,
		c.geocodeFailures,
		c.httpStatus,
	)

	return c
}

// RecordSignup はサインアップの結果を記録する。
func (c *Collector) RecordSignup(outcome string) {
	c.signups.WithLabelValues(outcome).Inc()
}

// RecordGeocodeLatency はジオコーダ呼び出しのレイテンシを記録する。
func (c *Collector) RecordGeocodeLatency(duration time.Duration) {
	c.geocodeLatency.Observe(duration.Seconds())
}

// RecordGeocodeFailure はジオコーダ呼び出しの失敗を記録する。
func (c *Collector) RecordGeocodeFailure() {
	c.geocodeFailures.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop は何も記録しないMetricsCollector。
type Nop struct{}

func (Nop) RecordSignup(string)                {}
func (Nop) RecordGeocodeLatency(time.Duration) {}
func (Nop) RecordGeocodeFailure()              {}
func (Nop) RecordHTTPStatus(int)               {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
