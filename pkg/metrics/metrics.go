// Package metrics holds the Prometheus collectors of the campaign service.
//
// Collectors are registered on a private registry owned by [Metrics], so
// several instances (one per test, say) never collide. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campaignsync"

// Result labels.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

type Metrics struct {
	Registry *prometheus.Registry

	remoteOps      *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	draftFailures  *prometheus.CounterVec
	views          *prometheus.CounterVec
	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		remoteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "remote",
				Name:      "operations_total",
				Help:      "Durable store operations by operation and result.",
			},
			[]string{"op", "result"},
		),
		remoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "remote",
				Name:      "operation_duration_seconds",
				Help:      "Duration of durable store operations.",
				Buckets:   prometheus.ExponentialBuckets(0.002, 2, 12), // 2ms to ~4s
			},
			[]string{"op"},
		),
		draftFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "draft",
				Name:      "failures_total",
				Help:      "Local draft store failures that were logged and swallowed.",
			},
			[]string{"op"},
		),
		views: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconcile",
				Name:      "entries_total",
				Help:      "Entries returned by campaign listings, by source.",
			},
			[]string{"source"},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
	}

	m.Registry.MustRegister(
		m.remoteOps,
		m.remoteDuration,
		m.draftFailures,
		m.views,
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRemote records one durable store call.
func (m *Metrics) ObserveRemote(op, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.remoteOps.WithLabelValues(op, result).Inc()
	m.remoteDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// DraftFailure counts a swallowed local draft store failure.
func (m *Metrics) DraftFailure(op string) {
	if m == nil {
		return
	}
	m.draftFailures.WithLabelValues(op).Inc()
}

// ObserveViews counts listed entries by source.
func (m *Metrics) ObserveViews(source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.views.WithLabelValues(source).Add(float64(n))
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies labelled by the mux route
// template, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		method := strings.ToUpper(r.Method)

		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
