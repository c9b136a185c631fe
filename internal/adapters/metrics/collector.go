package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "wargame"
	subsystem = "daemon"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	Registry *prometheus.Registry

	// globalCollector is the singleton simulation metrics collector.
	// Set by SetGlobalCollector() when metrics are enabled.
	globalCollector SimulationMetricsRecorder
)

// SimulationMetricsRecorder is the interface application code records
// metrics through.
type SimulationMetricsRecorder interface {
	RecordTick(scenarioID string)
	RecordLLMAttempt(status string)
	RecordIngestDuration(level string, seconds float64)
	RecordBroadcast(event string)
}

// InitRegistry initializes the Prometheus registry. Should be called once
// at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry, or nil when metrics
// are disabled.
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled.
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector.
func SetGlobalCollector(collector SimulationMetricsRecorder) {
	globalCollector = collector
}

// RecordTick records one tick-loop iteration globally.
func RecordTick(scenarioID string) {
	if globalCollector != nil {
		globalCollector.RecordTick(scenarioID)
	}
}

// RecordLLMAttempt records one LLM attempt outcome globally.
func RecordLLMAttempt(status string) {
	if globalCollector != nil {
		globalCollector.RecordLLMAttempt(status)
	}
}

// RecordIngestDuration records one ingest run duration globally.
func RecordIngestDuration(level string, seconds float64) {
	if globalCollector != nil {
		globalCollector.RecordIngestDuration(level, seconds)
	}
}

// RecordBroadcast records one broadcast delivery globally.
func RecordBroadcast(event string) {
	if globalCollector != nil {
		globalCollector.RecordBroadcast(event)
	}
}

// SimulationMetricsCollector implements SimulationMetricsRecorder over
// prometheus collectors.
type SimulationMetricsCollector struct {
	ticksTotal      *prometheus.CounterVec
	llmAttempts     *prometheus.CounterVec
	ingestDuration  *prometheus.HistogramVec
	broadcastsTotal *prometheus.CounterVec
}

// NewSimulationMetricsCollector creates the collector.
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "simulation_ticks_total",
				Help:      "Total simulation tick-loop iterations by scenario",
			},
			[]string{"scenario_id"},
		),
		llmAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "llm_attempts_total",
				Help:      "Total LLM generation attempts by terminal status",
			},
			[]string{"status"},
		),
		ingestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ingest_duration_seconds",
				Help:      "Document ingest pipeline duration by hierarchy level",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
			[]string{"level"},
		),
		broadcastsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "broadcast_events_total",
				Help:      "Total events published to scenario rooms by event name",
			},
			[]string{"event"},
		),
	}
}

// Register registers all collectors with the Prometheus registry.
func (c *SimulationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	collectors := []prometheus.Collector{
		c.ticksTotal,
		c.llmAttempts,
		c.ingestDuration,
		c.broadcastsTotal,
	}
	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick increments the tick counter.
func (c *SimulationMetricsCollector) RecordTick(scenarioID string) {
	c.ticksTotal.WithLabelValues(scenarioID).Inc()
}

// RecordLLMAttempt increments the attempt counter for a status.
func (c *SimulationMetricsCollector) RecordLLMAttempt(status string) {
	c.llmAttempts.WithLabelValues(status).Inc()
}

// RecordIngestDuration observes one ingest run.
func (c *SimulationMetricsCollector) RecordIngestDuration(level string, seconds float64) {
	c.ingestDuration.WithLabelValues(level).Observe(seconds)
}

// RecordBroadcast increments the broadcast counter for an event name.
func (c *SimulationMetricsCollector) RecordBroadcast(event string) {
	c.broadcastsTotal.WithLabelValues(event).Inc()
}
