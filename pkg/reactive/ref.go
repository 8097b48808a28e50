package reactive

import "sync"

// Ref is a single-value reactive cell, for primitives or values the
// caller does not want deep-wrapped. Get is a tracked read; Set notifies
// subscribers only when the value actually changed under same-value
// equality (NaN equals NaN, -0 equals +0).
type Ref[T any] struct {
	id uint64

	mu    sync.RWMutex
	value T

	subs subscriberSet
}

// NewRef creates a reactive cell holding initial. A map[string]any
// initial value is transparently wrapped via Reactive when the cell's
// type admits the wrapper (a Ref[any], in practice).
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{
		id:    nextID(),
		value: wrapAs(initial),
	}
}

// ID returns the unique identifier for this cell.
func (r *Ref[T]) ID() uint64 {
	return r.id
}

// Get returns the current value, subscribing the running effect to the
// cell.
func (r *Ref[T]) Get() T {
	if activeEffect() != nil {
		emit(Event{Kind: EventTrack, Target: r.id, Effect: activeEffectID()})
	}
	r.subs.track()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Peek returns the current value without subscribing.
func (r *Ref[T]) Peek() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set updates the cell. Writing a value equal to the current one under
// same-value equality is a silent no-op; otherwise the value is stored
// (maps wrapped via Reactive) and all subscribers are notified.
func (r *Ref[T]) Set(value T) {
	value = wrapAs(value)

	r.mu.Lock()
	if sameValue(r.value, value) {
		r.mu.Unlock()
		return
	}
	r.value = value
	r.mu.Unlock()

	emit(Event{Kind: EventTrigger, Target: r.id})
	r.subs.trigger()
}

// Update atomically derives the new value from the current one. The
// same no-op suppression as Set applies.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	next := wrapAs(fn(r.value))
	if sameValue(r.value, next) {
		r.mu.Unlock()
		return
	}
	r.value = next
	r.mu.Unlock()

	emit(Event{Kind: EventTrigger, Target: r.id})
	r.subs.trigger()
}

// read implements the source interface used by Watch.
func (r *Ref[T]) read() any {
	return r.Get()
}

// wrapAs applies Reactive to v when the wrapper still satisfies T.
// For concrete types the assertion fails and v passes through untouched.
func wrapAs[T any](v T) T {
	if wrapped, ok := Reactive(v).(T); ok {
		return wrapped
	}
	return v
}
