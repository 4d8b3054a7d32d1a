package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies pipeline spans
const TracerName = "housingml.pipeline"

// PipelineTracer provides OpenTelemetry instrumentation for pipeline runs
type PipelineTracer struct {
	tracer trace.Tracer
}

// NewPipelineTracer creates a tracer bound to the global provider
func NewPipelineTracer() *PipelineTracer {
	return &PipelineTracer{tracer: otel.Tracer(TracerName)}
}

// TraceOperation starts a span covering the whole pipeline run
func (t *PipelineTracer) TraceOperation(ctx context.Context, operationID string, req OperationRequest) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.archive", req.ArchivePath),
			attribute.String("operation.target_column", req.TargetColumn),
		),
	)
}

// TraceStep starts a span for a single step execution
func (t *PipelineTracer) TraceStep(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion finalizes a step span
func (t *PipelineTracer) RecordStepCompletion(span trace.Span, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "step execution failed")
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}
	span.End()
}

// RecordOperationCompletion finalizes the pipeline span
func (t *PipelineTracer) RecordOperationCompletion(span trace.Span, duration time.Duration, status OperationStatus) {
	span.SetAttributes(
		attribute.String("operation.status", string(status)),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	if status == OperationStatusCompleted {
		span.SetStatus(codes.Ok, "pipeline completed")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("pipeline finished with status %s", status))
	}
	span.End()
}
