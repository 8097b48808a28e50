package reactive

import (
	"sync"
	"sync/atomic"
	"time"
)

// Effect is the unit of re-computation: a function whose tracked reads
// subscribe it to the state it touched, plus an optional scheduler that
// redirects change notifications away from an eager re-run.
//
// Effects created with NewEffect run once immediately to establish their
// initial dependency set, then re-run (or invoke their scheduler) on
// every change to a dependency. An effect lives until Stop is called;
// stopping removes it from every subscriber set it joined.
type Effect struct {
	id uint64

	// fn is the tracked body. Its result is returned by Run, which lets
	// Computed and Watch reuse the effect as a value producer.
	fn func() any

	// scheduler, when set, is invoked instead of Run when a dependency
	// changes. This is the seam Computed and Watch use to redirect
	// invalidation into their own logic.
	scheduler func()

	// deps are the subscriber sets this effect currently belongs to.
	// Kept so Stop and the pre-run sweep can sever membership.
	deps   []*subscriberSet
	depsMu sync.Mutex

	stopped atomic.Bool
}

// EffectOption configures an Effect at creation.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// WithScheduler redirects the effect's change notifications to fn.
// When a dependency changes, fn runs instead of the effect body; the
// body re-runs only when the owner calls Run again.
func WithScheduler(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = fn
	})
}

// NewEffect creates an effect around fn and runs it once immediately,
// establishing its initial dependency set.
//
// Example:
//
//	NewEffect(func() any {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
func NewEffect(fn func() any, opts ...EffectOption) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt.applyEffect(e)
	}

	e.Run()
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Run executes the body under tracking and returns its result.
//
// The previously active effect is saved and restored rather than
// cleared, so a run nested inside another effect's body hands
// attribution back to the outer effect on exit. Stale subscriptions from
// the previous run are severed first; the body re-subscribes to exactly
// what it reads this time.
func (e *Effect) Run() any {
	if e.stopped.Load() {
		return nil
	}

	e.clearDeps()

	prev := setActiveEffect(e)
	defer setActiveEffect(prev)

	start := time.Now()
	result := e.fn()
	emit(Event{Kind: EventEffectRun, Effect: e.id, Duration: time.Since(start)})

	return result
}

// Stop removes the effect from every subscriber set it belongs to and
// marks it dead. A stopped effect never runs again; stopping twice is a
// no-op.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	e.clearDeps()
}

// notify delivers a change notification: the scheduler if one was
// configured, otherwise a synchronous re-run in the caller's stack.
func (e *Effect) notify() {
	if e.stopped.Load() {
		return
	}

	if e.scheduler != nil {
		e.scheduler()
		return
	}
	e.Run()
}

// addDep records membership in a subscriber set, deduplicated by
// set identity.
func (e *Effect) addDep(s *subscriberSet) {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()

	for _, dep := range e.deps {
		if dep == s {
			return
		}
	}
	e.deps = append(e.deps, s)
}

// clearDeps removes the effect from all subscriber sets it joined.
func (e *Effect) clearDeps() {
	e.depsMu.Lock()
	deps := e.deps
	e.deps = nil
	e.depsMu.Unlock()

	for _, dep := range deps {
		dep.remove(e)
	}
}
