// Package metrics registers the Prometheus collectors and the fiber middleware feeding them.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the server exports
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EmailsSent      *prometheus.CounterVec
	ChatbotRequests *prometheus.CounterVec
	Submissions     *prometheus.CounterVec
}

// New builds a private registry so tests can create as many instances as they like
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agency",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Name:      "emails_total",
			Help:      "Outbound emails by template and outcome.",
		}, []string{"template", "outcome"}),
		ChatbotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Name:      "chatbot_requests_total",
			Help:      "Chatbot completions by outcome.",
		}, []string{"outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Name:      "submissions_total",
			Help:      "Stored visitor submissions by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.EmailsSent,
		m.ChatbotRequests,
		m.Submissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records count and latency per matched route
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// EmailOutcome records one email attempt
func (m *Metrics) EmailOutcome(template string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.EmailsSent.WithLabelValues(template, outcome).Inc()
}

// ChatbotOutcome records one chatbot call
func (m *Metrics) ChatbotOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ChatbotRequests.WithLabelValues(outcome).Inc()
}

// SubmissionStored records one persisted submission
func (m *Metrics) SubmissionStored(kind string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind).Inc()
}
