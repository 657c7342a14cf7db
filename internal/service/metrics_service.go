package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the scheduler.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationDuration prometheus.Observer
	schedulesTotal     prometheus.Counter
	blocksGenerated    prometheus.Gauge
	overflowTasks      prometheus.Gauge
	feedbackTotal      prometheus.Counter
	adaptationRuns     *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
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

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_seconds",
		Help:    "Duration of allocator runs",
		Buckets: prometheus.DefBuckets,
	})

	schedulesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedules_generated_total",
		Help: "Total number of generated schedules",
	})

	blocksGenerated := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_blocks_generated",
		Help: "Study blocks emitted by the most recent run",
	})

	overflowTasks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_overflow_tasks",
		Help: "Tasks left with unplaced effort by the most recent run",
	})

	feedbackTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feedback_records_total",
		Help: "Total block feedback records received",
	})

	adaptationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adaptation_runs_total",
		Help: "Adaptation trigger outcomes",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationDuration, schedulesTotal, blocksGenerated, overflowTasks, feedbackTotal, adaptationRuns, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationDuration: generationDuration,
		schedulesTotal:     schedulesTotal,
		blocksGenerated:    blocksGenerated,
		overflowTasks:      overflowTasks,
		feedbackTotal:      feedbackTotal,
		adaptationRuns:     adaptationRuns,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneration records the outcome of one allocator run.
func (m *MetricsService) ObserveGeneration(duration time.Duration, blocks, overflow int) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	m.schedulesTotal.Inc()
	m.blocksGenerated.Set(float64(blocks))
	m.overflowTasks.Set(float64(overflow))
}

// RecordFeedback counts one ingested feedback record.
func (m *MetricsService) RecordFeedback() {
	if m == nil {
		return
	}
	m.feedbackTotal.Inc()
}

// RecordAdaptation counts one adaptation trigger outcome ("ran" or
// "skipped").
func (m *MetricsService) RecordAdaptation(outcome string) {
	if m == nil {
		return
	}
	m.adaptationRuns.WithLabelValues(outcome).Inc()
}
