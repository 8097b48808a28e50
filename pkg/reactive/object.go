package reactive

import "sync"

// Object is a reactive string-keyed object. Every Get is a tracked read
// of that key; every Set performs the assignment and then triggers the
// key's subscribers. Nested map[string]any values are wrapped into
// Objects once, at wrap or assignment time, so repeated reads of the
// same nested object return the same wrapper identity.
//
// Objects intercept string-keyed access only. Slices and other values
// stored under a key are plain data: replacing them via Set is reactive,
// mutating them in place is not.
type Object struct {
	id uint64

	mu     sync.RWMutex
	values map[string]any

	// props holds the per-key subscriber sets. It is owned by the
	// object, so tracking metadata is collected with the object.
	props propMap

	// iter subscribes effects that enumerated the key set (Keys, Len,
	// ToMap). Adding or deleting a key notifies them; overwriting an
	// existing key does not.
	iter subscriberSet
}

// Reactive places v under reactivity.
//
// A map[string]any becomes an *Object, with nested maps wrapped
// recursively. An *Object is returned unchanged, so re-wrapping an
// already-reactive value is idempotent and preserves wrapper identity.
// Any other value is returned untouched: reactivity only wraps objects.
func Reactive(v any) any {
	switch val := v.(type) {
	case *Object:
		return val
	case map[string]any:
		o := &Object{
			id:     nextID(),
			values: make(map[string]any, len(val)),
		}
		for k, nested := range val {
			o.values[k] = Reactive(nested)
		}
		return o
	default:
		return v
	}
}

// ID returns the unique identifier for this object.
func (o *Object) ID() uint64 {
	return o.id
}

// Get returns the value stored under key, subscribing the running effect
// to that key. A missing key reads as nil, and the read still tracks, so
// an effect re-runs when the key later appears.
func (o *Object) Get(key string) any {
	o.props.track(o.id, key)

	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.values[key]
}

// Set stores value under key and triggers the key's subscribers. A map
// value is wrapped via Reactive before storage. Writing a key that did
// not exist also notifies key-set enumerators.
func (o *Object) Set(key string, value any) {
	value = Reactive(value)

	o.mu.Lock()
	_, existed := o.values[key]
	o.values[key] = value
	o.mu.Unlock()

	if existed {
		o.props.trigger(o.id, key)
		return
	}
	o.notifyKeySetChange(key)
}

// Has reports whether key is present. The check is a tracked read of the
// key.
func (o *Object) Has(key string) bool {
	o.props.track(o.id, key)

	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.values[key]
	return ok
}

// Delete removes key, triggering its subscribers and the key-set
// enumerators. Deleting an absent key is a no-op.
func (o *Object) Delete(key string) {
	o.mu.Lock()
	_, existed := o.values[key]
	delete(o.values, key)
	o.mu.Unlock()

	if !existed {
		return
	}
	o.notifyKeySetChange(key)
}

// notifyKeySetChange delivers one compound notification for a write
// that changed the key set: the key's own subscribers plus the key-set
// enumerators, with effects subscribed to both notified once, not twice.
func (o *Object) notifyKeySetChange(key string) {
	ctx := currentContext()
	ctx.batchDepth++
	o.props.trigger(o.id, key)
	o.iter.trigger()
	ctx.batchDepth--
	if ctx.batchDepth == 0 {
		deliverPending(ctx)
	}
}

// Keys returns the current key set, subscribing the running effect to
// key additions and deletions. Order is unspecified.
func (o *Object) Keys() []string {
	o.iter.track()

	o.mu.RLock()
	defer o.mu.RUnlock()

	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of keys, subscribing the running effect to key
// additions and deletions.
func (o *Object) Len() int {
	o.iter.track()

	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.values)
}

// ToMap returns a plain deep copy of the object, unwrapping nested
// Objects. Every key and value is read tracked, so an effect calling
// ToMap depends on the entire reachable tree.
func (o *Object) ToMap() map[string]any {
	out := make(map[string]any)
	for _, k := range o.Keys() {
		v := o.Get(k)
		if nested, ok := v.(*Object); ok {
			v = nested.ToMap()
		}
		out[k] = v
	}
	return out
}
