package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Solve outcomes recorded by ObserveSolve
const (
	OutcomeFound            = "found"
	OutcomeExhausted        = "exhausted"
	OutcomeInfeasibleDomain = "infeasible_domain"
	OutcomeLimit            = "limit"
	OutcomeError            = "error"
)

// MetricsService encapsulates Prometheus instrumentation on a private registry.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	solvesTotal     *prometheus.CounterVec
	solveDuration   prometheus.Histogram
	searchNodes     prometheus.Histogram
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	solvesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_solves_total",
		Help: "Total number of schedule solves by outcome",
	}, []string{"outcome"})

	solveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_solve_duration_seconds",
		Help:    "Duration of the backtracking search in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	searchNodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_search_nodes",
		Help:    "Candidate sections evaluated per solve",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})

	registry.MustRegister(requestDuration, requestTotal, solvesTotal, solveDuration, searchNodes)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		solvesTotal:     solvesTotal,
		solveDuration:   solveDuration,
		searchNodes:     searchNodes,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSolve records one planning outcome; nodes and duration are skipped when no search ran.
func (m *MetricsService) ObserveSolve(outcome string, nodes uint64, duration time.Duration) {
	if m == nil {
		return
	}
	m.solvesTotal.WithLabelValues(outcome).Inc()
	if nodes > 0 {
		m.searchNodes.Observe(float64(nodes))
		m.solveDuration.Observe(duration.Seconds())
	}
}
