// Package metrics exposes the Prometheus instruments of the data layer and HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rbbb"

// Metrics groups the application's Prometheus instruments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RemoteOperations *prometheus.CounterVec
	RemoteReachable  prometheus.Gauge
	CacheFaults      *prometheus.CounterVec
	CacheBytes       *prometheus.GaugeVec
	WorkflowActions  *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New registers the instruments with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RemoteOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_operations_total",
				Help:      "Remote mirror operations by table, operation and outcome",
			},
			[]string{"table", "operation", "outcome"},
		),
		RemoteReachable: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "remote_reachable",
				Help:      "1 when the last reachability probe succeeded",
			},
		),
		CacheFaults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_faults_total",
				Help:      "Local cache read and write faults by collection",
			},
			[]string{"collection", "operation"},
		),
		CacheBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_document_bytes",
				Help:      "Size of the last written cache document",
			},
			[]string{"collection"},
		),
		WorkflowActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflow_actions_total",
				Help:      "Engagement workflow actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route pattern, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RemoteOp counts a remote mirror operation
func (m *Metrics) RemoteOp(table, operation string, err error) {
	if m == nil {
		return
	}
	m.RemoteOperations.WithLabelValues(table, operation, outcome(err)).Inc()
}

// SetReachable records the probe result
func (m *Metrics) SetReachable(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.RemoteReachable.Set(1)
	} else {
		m.RemoteReachable.Set(0)
	}
}

// CacheFault counts a local cache fault
func (m *Metrics) CacheFault(collection, operation string) {
	if m == nil {
		return
	}
	m.CacheFaults.WithLabelValues(collection, operation).Inc()
}

// CacheWrite records the size of a written cache document
func (m *Metrics) CacheWrite(collection string, size int) {
	if m == nil {
		return
	}
	m.CacheBytes.WithLabelValues(collection).Set(float64(size))
}

// WorkflowAction counts a workflow action attempt
func (m *Metrics) WorkflowAction(action string, err error) {
	if m == nil {
		return
	}
	m.WorkflowActions.WithLabelValues(action, outcome(err)).Inc()
}

// HTTPRequest records one served request under its route pattern
func (m *Metrics) HTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
