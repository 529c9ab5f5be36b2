package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	apiInflight   prometheus.Gauge
	selections    *prometheus.CounterVec
	selectedCount prometheus.Histogram
	feedback      *prometheus.CounterVec
	usageRecorded prometheus.Counter
	compliance    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adcopy_api_requests_total",
			Help: "API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adcopy_api_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adcopy_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adcopy_example_selections_total",
			Help: "Example selections by outcome.",
		}, []string{"outcome"}),
		selectedCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adcopy_example_selection_size",
			Help:    "Examples returned per selection.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 20},
		}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adcopy_feedback_total",
			Help: "Feedback submissions by outcome and adjustment.",
		}, []string{"outcome", "adjustment"}),
		usageRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adcopy_usage_logs_recorded_total",
			Help: "Usage log rows appended.",
		}),
		compliance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adcopy_compliance_checks_total",
			Help: "Compliance checks by platform and result.",
		}, []string{"platform", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.selections, m.selectedCount,
		m.feedback, m.usageRecorded,
		m.compliance,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	m.handler.ServeHTTP(w, r)
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveSelection(degraded bool, n int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	m.selections.WithLabelValues(outcome).Inc()
	m.selectedCount.Observe(float64(n))
}

func (m *Metrics) ObserveFeedback(outcome, adjustment string) {
	if m == nil {
		return
	}
	m.feedback.WithLabelValues(outcome, adjustment).Inc()
}

func (m *Metrics) AddUsageRecorded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.usageRecorded.Add(float64(n))
}

// ObserveCompliance counts a validation. Only registered platforms get their own
// label value; everything else collapses into "unknown" to keep series bounded.
func (m *Metrics) ObserveCompliance(platform string, known, compliant bool) {
	if m == nil {
		return
	}
	if !known || platform == "" {
		platform = "unknown"
	}
	result := "violation"
	if compliant {
		result = "compliant"
	}
	m.compliance.WithLabelValues(platform, result).Inc()
}
