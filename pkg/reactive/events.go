package reactive

import (
	"sync/atomic"
	"time"
)

// EventKind classifies an engine event.
type EventKind int

const (
	// EventTrack fires when a running effect subscribes to a cell or an
	// object key.
	EventTrack EventKind = iota + 1

	// EventTrigger fires when a write notifies a cell's or key's
	// subscribers.
	EventTrigger

	// EventEffectRun fires after an effect body completes, with the run
	// duration.
	EventEffectRun

	// EventJobQueued fires when a job is enqueued on the flush queue.
	EventJobQueued

	// EventFlushStart and EventFlushEnd bracket one drain of the job
	// queue; the end event carries the flush duration.
	EventFlushStart
	EventFlushEnd
)

// String returns a stable name for the event kind, used as a metric and
// stream label.
func (k EventKind) String() string {
	switch k {
	case EventTrack:
		return "track"
	case EventTrigger:
		return "trigger"
	case EventEffectRun:
		return "effect_run"
	case EventJobQueued:
		return "job_queued"
	case EventFlushStart:
		return "flush_start"
	case EventFlushEnd:
		return "flush_end"
	default:
		return "unknown"
	}
}

// Event describes one engine occurrence for observability consumers.
// Fields are populated where they apply: Target and Key identify the
// tracked state, Effect the participating effect or job.
type Event struct {
	Kind     EventKind
	Target   uint64
	Key      string
	Effect   uint64
	Duration time.Duration
}

// Observer receives engine events. Observers run inline on the engine's
// hot path and must not block; hand work off if it can be slow.
type Observer func(Event)

// currentObserver holds the installed observer. Nil means events are
// discarded with a single atomic load of overhead.
var currentObserver atomic.Pointer[Observer]

// SetObserver installs fn as the engine-wide event observer. Passing nil
// removes it. Only one observer is installed at a time; fan out in the
// observer if several consumers need the stream.
func SetObserver(fn Observer) {
	if fn == nil {
		currentObserver.Store(nil)
		return
	}
	currentObserver.Store(&fn)
}

// emit delivers ev to the installed observer, if any.
func emit(ev Event) {
	if obs := currentObserver.Load(); obs != nil {
		(*obs)(ev)
	}
}
