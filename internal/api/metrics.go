package api

import (
	"net/http"
	"strconv"
	"time"

	"vrsurvey/domain/stats"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry so
// several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	Requests          *prometheus.CounterVec
	Submissions       *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	RunFailures       prometheus.Counter
	LastRespondents   prometheus.Gauge
	LastAnomalies     prometheus.Gauge
	SignificantByTest *prometheus.GaugeVec
}

// NewMetrics registers every collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vrsurvey_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vrsurvey_submissions_total",
				Help: "Survey submissions by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vrsurvey_analysis_duration_seconds",
				Help:    "Duration of full analysis runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
			},
		),
		RunFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vrsurvey_analysis_failures_total",
				Help: "Analysis runs that returned an error",
			},
		),
		LastRespondents: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vrsurvey_last_run_respondents",
				Help: "Respondents in the most recent analysis run",
			},
		),
		LastAnomalies: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vrsurvey_last_run_anomalies",
				Help: "Respondents flagged in the most recent analysis run",
			},
		),
		SignificantByTest: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vrsurvey_last_run_significant",
				Help: "1 if the construct's paired test rejected the null in the most recent run",
			},
			[]string{"construct", "test"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// ObserveRun records the duration and outcome of one analysis run.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	m.RunDuration.Observe(d.Seconds())
	if err != nil {
		m.RunFailures.Inc()
	}
}

// RecordReport publishes the headline numbers of a finished run.
func (m *Metrics) RecordReport(r *stats.Report) {
	m.LastRespondents.Set(float64(r.Respondents))
	m.LastAnomalies.Set(float64(len(r.Anomalies)))
	m.SignificantByTest.Reset()
	for _, c := range r.Comparisons {
		v := 0.0
		if res := c.Result(); res != nil && res.IsSignificant() {
			v = 1
		}
		m.SignificantByTest.WithLabelValues(c.Construct, string(c.Test)).Set(v)
	}
}
