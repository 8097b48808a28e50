package devtools

import (
	"testing"
	"time"

	"github.com/ripple-ui/ripple/pkg/reactive"
)

func TestTracer_FlushSpanLifecycle(t *testing.T) {
	tr := NewTracer(WithTracerName("ripple-test"))

	tr.Observe(reactive.Event{Kind: reactive.EventFlushStart})

	tr.mu.Lock()
	open := tr.flushSpan != nil
	tr.mu.Unlock()
	if !open {
		t.Fatal("expected an open flush span after flush_start")
	}

	tr.Observe(reactive.Event{Kind: reactive.EventEffectRun, Effect: 3, Duration: time.Millisecond})
	tr.Observe(reactive.Event{Kind: reactive.EventFlushEnd, Duration: 2 * time.Millisecond})

	tr.mu.Lock()
	open = tr.flushSpan != nil
	tr.mu.Unlock()
	if open {
		t.Fatal("expected the flush span to be closed after flush_end")
	}
}

func TestTracer_DisabledKindsAreIgnored(t *testing.T) {
	tr := NewTracer(WithTraceFlushes(false), WithTraceEffects(false))

	tr.Observe(reactive.Event{Kind: reactive.EventFlushStart})

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.flushSpan != nil {
		t.Fatal("expected no flush span when flush tracing is disabled")
	}
}

func TestTracer_EffectRunWithoutFlushIsSafe(t *testing.T) {
	tr := NewTracer()

	// Sync effects run outside any flush; the span parents to the
	// background context.
	tr.Observe(reactive.Event{Kind: reactive.EventEffectRun, Effect: 1, Duration: time.Microsecond})
	tr.Observe(reactive.Event{Kind: reactive.EventFlushEnd})
}
