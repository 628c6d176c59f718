// Package metrics records conversion metrics.
package metrics

import (
	"time"

	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Conversion outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Recorder receives one observation per conversion.
type Recorder interface {
	RecordConversion(workflow, status string, duration time.Duration, dto *models.FullWorkflowContainerDto)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) RecordConversion(string, string, time.Duration, *models.FullWorkflowContainerDto) {}

// PrometheusRecorder is a Prometheus implementation of Recorder.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	conversionsTotal   *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	recordsEmitted     *prometheus.CounterVec
}

// NewPrometheusRecorder creates a recorder with its own registry, including Go runtime and
// process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		conversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_dto_conversions_total",
			Help: "Total number of workflow conversions by status.",
		}, []string{"workflow", "status"}),
		conversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workflow_dto_conversion_duration_seconds",
			Help:    "Duration of workflow conversions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"workflow", "status"}),
		recordsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_dto_records_emitted_total",
			Help: "Total DTO records emitted by kind.",
		}, []string{"workflow", "kind"}), // kind: state, transition, criteria, process
	}

	registry.MustRegister(r.conversionsTotal)
	registry.MustRegister(r.conversionDuration)
	registry.MustRegister(r.recordsEmitted)

	return r
}

// Registry returns the Prometheus registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordConversion records the outcome of one conversion. dto is nil for failures.
func (r *PrometheusRecorder) RecordConversion(workflow, status string, duration time.Duration, dto *models.FullWorkflowContainerDto) {
	r.conversionsTotal.WithLabelValues(workflow, status).Inc()
	r.conversionDuration.WithLabelValues(workflow, status).Observe(duration.Seconds())

	if dto == nil {
		return
	}

	r.recordsEmitted.WithLabelValues(workflow, "state").Add(float64(len(dto.States)))
	r.recordsEmitted.WithLabelValues(workflow, "transition").Add(float64(len(dto.Transitions)))
	r.recordsEmitted.WithLabelValues(workflow, "criteria").Add(float64(len(dto.Criterias)))
	r.recordsEmitted.WithLabelValues(workflow, "process").Add(float64(len(dto.Processes)))
}
