package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/tracing"
)

// FailureRecorder counts pipeline runs that stopped at a stage.
type FailureRecorder interface {
	RecordPipelineFailure(pipeline, stage string)
}

// Stages wraps stage execution for one pipeline with a span per stage and
// failure accounting.
type Stages struct {
	pipeline string
	tracer   trace.Tracer
	recorder FailureRecorder
}

// NewStages creates the stage runner for the named pipeline. recorder may
// be nil.
func NewStages(pipeline string, recorder FailureRecorder) *Stages {
	return &Stages{
		pipeline: pipeline,
		tracer:   otel.Tracer("github.com/SoftwareEngineering-E-Complish/service-manager/pkg/pipeline"),
		recorder: recorder,
	}
}

// Run executes fn inside a span named "<pipeline>.<stage>".
func (s *Stages) Run(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, s.pipeline+"."+stage,
		trace.WithAttributes(
			attribute.String("pipeline.name", s.pipeline),
			attribute.String("pipeline.stage", stage),
		),
	)
	defer span.End()

	err := fn(ctx)
	tracing.SetStatus(span, err)
	if err != nil && s.recorder != nil {
		s.recorder.RecordPipelineFailure(s.pipeline, stage)
	}
	return err
}
