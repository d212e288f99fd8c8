// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "viva"

// Metrics collectors registered on one registry
type Metrics struct {
	registry *prometheus.Registry

	assignmentTransitions *prometheus.CounterVec
	auditWrites           *prometheus.CounterVec
	requestDuration       *prometheus.HistogramVec
}

// New registers every collector on reg. A fresh registry keeps tests isolated.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		assignmentTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_transitions_total",
			Help:      "Assignment state machine operations by outcome.",
		}, []string{"operation", "outcome"}),
		auditWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_writes_total",
			Help:      "Audit log writes by action type and outcome.",
		}, []string{"action_type", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.assignmentTransitions,
		m.auditWrites,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Nop metrics on a private registry, for wiring without exposition
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Registry underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AssignmentTransition counts one state machine operation
func (m *Metrics) AssignmentTransition(operation, outcome string) {
	m.assignmentTransitions.WithLabelValues(operation, outcome).Inc()
}

// AuditWrite counts one audit write attempt
func (m *Metrics) AuditWrite(actionType, outcome string) {
	m.auditWrites.WithLabelValues(actionType, outcome).Inc()
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler /metrics endpoint
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
