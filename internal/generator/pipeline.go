// Package generator runs the content generation workflow: a fixed sequence
// of stages that turns a configured topic into a published post.
package generator

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// FailurePolicy declares what a stage failure does to the rest of the run.
type FailurePolicy int

const (
	// Abort stops the pipeline; earlier stages' effects are kept as-is.
	Abort FailurePolicy = iota
	// Degrade records the failure and lets the remaining stages run.
	Degrade
)

func (p FailurePolicy) String() string {
	if p == Degrade {
		return "degrade"
	}
	return "abort"
}

// Stage is one step of a pipeline. Each stage declares its own timeout and
// failure policy instead of relying on whatever the caller's context allows.
type Stage struct {
	Name    string
	Timeout time.Duration
	OnError FailurePolicy
	Run     func(ctx context.Context) error
}

// StageError wraps a stage failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// runStages executes stages in order. It returns the first aborting error;
// degraded failures are reported through onDegrade and do not stop the run.
func runStages(ctx context.Context, stages []Stage, onDegrade func(stage string, err error)) error {
	for _, stage := range stages {
		if err := runStage(ctx, stage); err != nil {
			observability.PipelineStageErrors.WithLabelValues(stage.Name, stage.OnError.String()).Inc()
			if stage.OnError == Abort {
				return &StageError{Stage: stage.Name, Err: err}
			}
			middleware.Logger.WarnContext(ctx, "pipeline stage degraded",
				"stage", stage.Name, "error", err)
			if onDegrade != nil {
				onDegrade(stage.Name, err)
			}
		}
	}
	return nil
}

func runStage(ctx context.Context, stage Stage) error {
	stageCtx := ctx
	if stage.Timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, stage.Timeout)
		defer cancel()
	}

	stageCtx, span := observability.StartSpan(stageCtx, "pipeline."+stage.Name,
		attribute.String("stage", stage.Name))
	start := time.Now()
	err := stage.Run(stageCtx)
	observability.PipelineStageLatency.WithLabelValues(stage.Name).Observe(time.Since(start).Seconds())
	observability.EndSpan(span, err)
	return err
}
