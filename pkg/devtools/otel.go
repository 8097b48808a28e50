package devtools

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ripple-ui/ripple/pkg/reactive"
)

// Default tracer name for reactive engine spans.
const defaultTracerName = "ripple"

// TracerConfig configures the tracing observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "ripple").
	TracerName string

	// TraceEffects records a span per effect run. Enabled by default.
	TraceEffects bool

	// TraceFlushes records a span per queue flush. Enabled by default.
	TraceFlushes bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracerOption configures the tracing observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTraceEffects enables/disables per-effect-run spans.
func WithTraceEffects(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.TraceEffects = enabled
	}
}

// WithTraceFlushes enables/disables per-flush spans.
func WithTraceFlushes(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.TraceFlushes = enabled
	}
}

func defaultTracerConfig() TracerConfig {
	return TracerConfig{
		TracerName:   defaultTracerName,
		TraceEffects: true,
		TraceFlushes: true,
	}
}

// NewTracer creates an observer that records engine activity as
// OpenTelemetry spans: one span per queue flush, one per effect run.
// Effect-run spans started during a flush become children of the flush
// span.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before installing the observer:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	    sdktrace.WithResource(resource.NewWithAttributes(
//	        semconv.SchemaURL,
//	        semconv.ServiceName("my-app"),
//	    )),
//	)
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracerOption) *Tracer {
	config := defaultTracerConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return &Tracer{config: config}
}

// Tracer records engine events as OpenTelemetry spans.
type Tracer struct {
	config TracerConfig

	mu        sync.Mutex
	flushCtx  context.Context
	flushSpan trace.Span
}

// Observe feeds one engine event into the tracer. Install it with
// reactive.SetObserver(tracer.Observe), or attach the tracer to a
// Server to share its fanout.
func (t *Tracer) Observe(ev reactive.Event) {
	switch ev.Kind {
	case reactive.EventFlushStart:
		if !t.config.TraceFlushes {
			return
		}
		ctx, span := t.config.tracer.Start(
			context.Background(),
			"ripple.flush",
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		t.mu.Lock()
		t.flushCtx = ctx
		t.flushSpan = span
		t.mu.Unlock()

	case reactive.EventFlushEnd:
		if !t.config.TraceFlushes {
			return
		}
		t.mu.Lock()
		span := t.flushSpan
		t.flushCtx = nil
		t.flushSpan = nil
		t.mu.Unlock()
		if span != nil {
			span.End()
		}

	case reactive.EventEffectRun:
		if !t.config.TraceEffects {
			return
		}
		parent := context.Background()
		t.mu.Lock()
		if t.flushCtx != nil {
			parent = t.flushCtx
		}
		t.mu.Unlock()

		// The event arrives after the run completes; reconstruct the
		// span window from the reported duration.
		end := time.Now()
		_, span := t.config.tracer.Start(
			parent,
			"ripple.effect",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithTimestamp(end.Add(-ev.Duration)),
			trace.WithAttributes(
				attribute.Int64("ripple.effect_id", int64(ev.Effect)),
			),
		)
		span.End(trace.WithTimestamp(end))
	}
}
