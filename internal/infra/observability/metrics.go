package observability

import (
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the portal backend.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	upstreamDuration *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec
	tokenRefreshes   *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	propertiesListed prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iptu_upstream_request_duration_seconds",
				Help:    "Duration of SIG Integração calls by endpoint and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "status"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iptu_upstream_errors_total",
				Help: "Total failed SIG Integração calls by error kind.",
			},
			[]string{"kind"},
		),
		tokenRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iptu_token_refresh_total",
				Help: "Total upstream authentications by result.",
			},
			[]string{"result"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iptu_request_duration_seconds",
				Help:    "Duration of portal operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		propertiesListed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "iptu_properties_listed_total",
				Help: "Total properties returned by document listings after deduplication.",
			},
		),
	}
}

// RecordUpstream records the latency of one upstream attempt.
func (m *Metrics) RecordUpstream(endpoint, status string, d time.Duration) {
	m.upstreamDuration.WithLabelValues(endpoint, status).Observe(d.Seconds())
}

// IncrUpstreamError counts a failed upstream call.
func (m *Metrics) IncrUpstreamError(kind string) {
	m.upstreamErrors.WithLabelValues(kind).Inc()
}

// IncrTokenRefresh counts an authentication attempt.
func (m *Metrics) IncrTokenRefresh(result string) {
	m.tokenRefreshes.WithLabelValues(result).Inc()
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// AddPropertiesListed counts properties returned by a listing.
func (m *Metrics) AddPropertiesListed(n int) {
	m.propertiesListed.Add(float64(n))
}

// Snapshot summarizes upstream health for POST /functions/getApiMetrics.
func (m *Metrics) Snapshot() *domain.APIMetrics {
	calls, sum := m.upstreamTotals()
	errs := m.sumCounterVec(m.upstreamErrors)
	timeouts := getCounterValue(m.upstreamErrors, domain.KindTimeout.String())
	refreshes := m.sumCounterVec(m.tokenRefreshes)

	errorRate := float64(0)
	avgLatency := float64(0)
	if calls > 0 {
		errorRate = errs / float64(calls)
		avgLatency = sum / float64(calls) * 1000
	}

	return &domain.APIMetrics{
		Status:             "ok",
		Origem:             "iptu-portal-bfa",
		UpstreamCalls:      int64(calls),
		UpstreamErrors:     int64(errs),
		UpstreamTimeouts:   int64(timeouts),
		TokenRefreshes:     int64(refreshes),
		ErrorRate:          errorRate,
		AvgUpstreamLatency: avgLatency,
	}
}

// upstreamTotals returns the sample count and sum across all histogram series.
func (m *Metrics) upstreamTotals() (uint64, float64) {
	var count uint64
	var sum float64
	for _, metric := range gather(m.upstreamDuration) {
		if h := metric.GetHistogram(); h != nil {
			count += h.GetSampleCount()
			sum += h.GetSampleSum()
		}
	}
	return count, sum
}

func (m *Metrics) sumCounterVec(cv *prometheus.CounterVec) float64 {
	total := float64(0)
	for _, metric := range gather(cv) {
		total += metric.GetCounter().GetValue()
	}
	return total
}

// gather collects every series of a vector into protobuf metrics.
func gather(c prometheus.Collector) []*dto.Metric {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		c.Collect(ch)
		close(ch)
	}()

	var out []*dto.Metric
	for pm := range ch {
		m := &dto.Metric{}
		if err := pm.Write(m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
