package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// trackingContext holds the reactive state for one goroutine.
//
// The active-tracking slot is a single mutable cell, not a stack: every
// effect run saves the previous occupant and restores it on exit, which
// is what lets one effect's body read sources while a nested run is in
// flight without permanently losing the outer attribution.
type trackingContext struct {
	// activeEffect is the effect currently executing its body.
	// Tracked reads attribute dependencies to it. nil means reads are
	// plain and create no subscriptions.
	activeEffect *Effect

	// tracking toggles dependency collection without disturbing
	// activeEffect. Untracked flips it off for the duration of a call.
	tracking bool

	// batchDepth counts nested Batch calls. While > 0, triggers queue
	// their notifications instead of delivering them inline.
	batchDepth int

	// pending accumulates effects notified during a batch, in trigger
	// order. Deduplicated by ID before delivery.
	pending []*Effect
}

// trackingContexts stores per-goroutine tracking contexts, keyed by
// goroutine ID.
var trackingContexts sync.Map

// currentContext returns the tracking context for the current goroutine,
// creating one on first use.
func currentContext() *trackingContext {
	gid := goid.Get()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{tracking: true}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// activeEffect returns the effect reads should attribute to, or nil when
// no effect is running or tracking is disabled.
func activeEffect() *Effect {
	ctx := currentContext()
	if !ctx.tracking {
		return nil
	}
	return ctx.activeEffect
}

// setActiveEffect installs e as the active effect and returns the
// previous occupant so the caller can restore it.
func setActiveEffect(e *Effect) *Effect {
	ctx := currentContext()
	old := ctx.activeEffect
	ctx.activeEffect = e
	return old
}

// Untracked runs fn with dependency collection disabled. Reads inside fn
// return current values without subscribing the running effect.
//
// Example:
//
//	NewEffect(func() any {
//	    Untracked(func() {
//	        // Reading count here does not make the effect depend on it.
//	        fmt.Println("starting from", count.Get())
//	    })
//	    return work.Get()
//	})
func Untracked(fn func()) {
	ctx := currentContext()
	old := ctx.tracking
	ctx.tracking = false
	defer func() { ctx.tracking = old }()
	fn()
}
