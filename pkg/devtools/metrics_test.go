package devtools

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ripple-ui/ripple/pkg/reactive"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_ObserveMapsEventsToCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.Observe(reactive.Event{Kind: reactive.EventTrack})
	m.Observe(reactive.Event{Kind: reactive.EventTrack})
	m.Observe(reactive.Event{Kind: reactive.EventTrigger})
	m.Observe(reactive.Event{Kind: reactive.EventEffectRun, Duration: 3 * time.Millisecond})
	m.Observe(reactive.Event{Kind: reactive.EventJobQueued})
	m.Observe(reactive.Event{Kind: reactive.EventFlushStart})
	m.Observe(reactive.Event{Kind: reactive.EventFlushEnd, Duration: time.Millisecond})

	if got := metricCounterValue(t, m.tracksTotal); got != 2 {
		t.Fatalf("tracks_total=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.triggersTotal); got != 1 {
		t.Fatalf("triggers_total=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.effectRunsTotal); got != 1 {
		t.Fatalf("effect_runs_total=%v, want 1", got)
	}
	if got := metricHistogramCount(t, m.effectRunDuration); got != 1 {
		t.Fatalf("effect_run_duration_seconds samples=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.jobsQueuedTotal); got != 1 {
		t.Fatalf("jobs_queued_total=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.flushesTotal); got != 1 {
		t.Fatalf("flushes_total=%v, want 1", got)
	}
	if got := metricHistogramCount(t, m.flushDuration); got != 1 {
		t.Fatalf("flush_duration_seconds samples=%v, want 1", got)
	}
}

func TestMetrics_RecordsRealEngineActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	reactive.SetObserver(m.Observe)
	defer reactive.SetObserver(nil)

	count := reactive.NewRef(0)
	e := reactive.NewEffect(func() any {
		return count.Get()
	})
	defer e.Stop()

	count.Set(1)
	count.Set(2)

	if got := metricCounterValue(t, m.effectRunsTotal); got != 3 {
		t.Fatalf("effect_runs_total=%v, want 3 (initial run + two writes)", got)
	}
	if got := metricCounterValue(t, m.triggersTotal); got != 2 {
		t.Fatalf("triggers_total=%v, want 2", got)
	}
	if metricCounterValue(t, m.tracksTotal) == 0 {
		t.Fatal("expected tracks_total > 0")
	}
}

func TestMetrics_CustomNamespaceRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(
		WithRegistry(reg),
		WithNamespace("myapp"),
		WithSubsystem("reactivity"),
		WithConstLabels(prometheus.Labels{"instance": "test"}),
	)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := false
	for _, fam := range families {
		if fam.GetName() == "myapp_reactivity_tracks_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected myapp_reactivity_tracks_total to be registered")
	}
}
