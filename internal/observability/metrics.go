package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts generation pipeline runs by outcome
	// (published, draft_no_image, aborted, failed).
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_pipeline_runs_total",
		Help: "Total content generation pipeline runs by outcome",
	}, []string{"outcome"})

	// PipelineStageLatency records per-stage latency of the generation pipeline.
	PipelineStageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_pipeline_stage_latency_seconds",
		Help:    "Generation pipeline stage latency in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	// PipelineStageErrors counts stage failures by stage and policy taken.
	PipelineStageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_pipeline_stage_errors_total",
		Help: "Generation pipeline stage errors by stage and applied policy",
	}, []string{"stage", "policy"})

	// UpstreamRequests counts calls to the AI provider by endpoint and status class.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_upstream_requests_total",
		Help: "Total AI provider requests by endpoint and result",
	}, []string{"endpoint", "result"})
)
