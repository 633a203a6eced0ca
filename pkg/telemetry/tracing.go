package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

const tracerName = "github.com/odvcencio/gridkit/pkg/ui/runtime"

// Span attribute keys.
var (
	AttrFrame      = attribute.Key("gridkit.frame")
	AttrPhase      = attribute.Key("gridkit.phase")
	AttrDirtyCells = attribute.Key("gridkit.dirty_cells")
	AttrWidth      = attribute.Key("gridkit.width")
	AttrHeight     = attribute.Key("gridkit.height")
)

// Tracer wraps the tracer used for frame spans. The zero value and a nil
// *Tracer both trace nothing.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracer exports spans as JSON lines to w. It does not touch the global
// provider.
func NewTracer(serviceName, version string, w io.Writer) (*Tracer, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeInternal, "create trace exporter")
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, gkerrors.Wrap(err, gkerrors.ErrCodeInternal, "create trace resource")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &Tracer{provider: provider, tracer: provider.Tracer(tracerName)}, nil
}

// GlobalTracer uses whatever provider is registered with otel.
func GlobalTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(tracerName)}
}

func (t *Tracer) get() trace.Tracer {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer(tracerName)
	}
	return t.tracer
}

// StartFrame opens the span covering one frame.
func (t *Tracer) StartFrame(ctx context.Context, frame uint64, width, height int) (context.Context, trace.Span) {
	return t.get().Start(ctx, "frame", trace.WithAttributes(
		AttrFrame.Int64(int64(frame)),
		AttrWidth.Int(width),
		AttrHeight.Int(height),
	))
}

// StartPhase opens a child span for one phase of the frame in ctx.
func (t *Tracer) StartPhase(ctx context.Context, phase string) (context.Context, trace.Span) {
	return t.get().Start(ctx, phase, trace.WithAttributes(AttrPhase.String(phase)))
}

// Shutdown flushes and stops the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
