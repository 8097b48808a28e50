package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a lazily evaluated, memoized derivation. Reading Get
// recomputes only when a dependency changed since the last read;
// otherwise the cached value is returned without running the getter.
//
// Invalidation is pull-based: when a dependency changes, the computed is
// only marked stale. Nothing recomputes until the next read, and the
// computed's own subscribers are not notified on invalidation — a
// computed nobody reads never recomputes.
type Computed[T any] struct {
	id uint64

	valueMu sync.RWMutex
	value   T

	dirty atomic.Bool

	// subs are the effects that read this computed. This is the outer
	// dependency edge, distinct from the runner's edges to the getter's
	// own sources.
	subs subscriberSet

	// runner executes the getter under tracking. Its scheduler marks
	// the cache stale instead of recomputing.
	runner *Effect
}

// NewComputed creates a computed around getter. The getter does not run
// until the first Get.
//
// Example:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
func NewComputed[T any](getter func() T) *Computed[T] {
	c := &Computed[T]{
		id: nextID(),
	}
	c.dirty.Store(true)
	c.runner = &Effect{
		id: nextID(),
		fn: func() any { return getter() },
	}
	c.runner.scheduler = func() {
		c.dirty.Store(true)
	}
	return c
}

// ID returns the unique identifier for this computed.
func (c *Computed[T]) ID() uint64 {
	return c.id
}

// Get returns the computed value, subscribing the running effect to this
// computed and recomputing first if a dependency changed since the last
// read.
func (c *Computed[T]) Get() T {
	c.subs.track()

	if c.dirty.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	defer c.valueMu.RUnlock()
	return c.value
}

// Peek returns the computed value without subscribing. Still recomputes
// if stale.
func (c *Computed[T]) Peek() T {
	if c.dirty.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	defer c.valueMu.RUnlock()
	return c.value
}

// Stop severs the computed's subscriptions to its sources. After Stop
// the cached value is frozen: reads return it but never recompute.
func (c *Computed[T]) Stop() {
	c.runner.Stop()
	c.dirty.Store(false)
}

// recompute runs the getter under tracking and refreshes the cache.
func (c *Computed[T]) recompute() {
	result := c.runner.Run()

	c.valueMu.Lock()
	c.value = as[T](result)
	c.valueMu.Unlock()

	c.dirty.Store(false)
}

// read implements the source interface used by Watch.
func (c *Computed[T]) read() any {
	return c.Get()
}

// as converts a stored any back to T, mapping nil to the zero value.
func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
