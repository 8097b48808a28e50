package reactive

import "reflect"

// source is implemented by cells that can serve directly as a watch
// source (Ref, Computed).
type source interface {
	read() any
}

// watchConfig holds the resolved Watch options.
type watchConfig struct {
	immediate bool
	post      bool
}

// WatchOption configures a call to Watch.
type WatchOption interface {
	applyWatch(cfg *watchConfig)
}

type watchOptionFunc func(*watchConfig)

func (f watchOptionFunc) applyWatch(cfg *watchConfig) { f(cfg) }

// Immediate makes the watcher invoke its callback once at construction,
// with a nil old value, in addition to establishing dependencies.
func Immediate() WatchOption {
	return watchOptionFunc(func(cfg *watchConfig) {
		cfg.immediate = true
	})
}

// FlushPost defers the watcher's callback to the batched job queue
// instead of running it synchronously in the writer's stack. Multiple
// triggers before the next flush collapse into a single callback
// invocation observing only the final value.
func FlushPost() WatchOption {
	return watchOptionFunc(func(cfg *watchConfig) {
		cfg.post = true
	})
}

// Watch observes a reactive source and invokes callback(newValue,
// oldValue) whenever it changes.
//
// source may be:
//   - a func() any: an arbitrary read expression, re-run to produce the
//     watched value;
//   - a Ref or Computed: watched by value;
//   - any other value: watched deeply — a synthesized getter traverses
//     every reachable key and element purely to force tracked reads, and
//     the callback receives the source itself as both values.
//
// Without Immediate, construction performs one tracking run to establish
// dependencies and the baseline old value, with no callback invocation.
//
// The returned Effect stops the watcher via Stop.
func Watch(src any, callback func(newValue, oldValue any), opts ...WatchOption) *Effect {
	var cfg watchConfig
	for _, opt := range opts {
		opt.applyWatch(&cfg)
	}

	getter := toGetter(src)

	e := &Effect{
		id: nextID(),
		fn: func() any { return getter() },
	}

	var oldValue any
	job := func() {
		newValue := e.Run()
		callback(newValue, oldValue)
		oldValue = newValue
	}

	if cfg.post {
		e.scheduler = func() { queueJob(e.id, job) }
	} else {
		e.scheduler = job
	}

	if cfg.immediate {
		job()
	} else {
		oldValue = e.Run()
	}

	return e
}

// toGetter normalizes the polymorphic watch source into a getter.
func toGetter(src any) func() any {
	switch s := src.(type) {
	case func() any:
		return s
	case source:
		return s.read
	default:
		return func() any {
			traverse(src, map[uintptr]struct{}{})
			return src
		}
	}
}

// traverse forces a tracked read of every reachable property of v. The
// seen set guards against cycles; values are keyed by their referent
// address. Only reads through reactive Objects (and Ref/Computed
// sources) subscribe anything — plain maps and slices are walked solely
// to reach reactive values nested inside them.
func traverse(v any, seen map[uintptr]struct{}) {
	switch val := v.(type) {
	case nil:
		return
	case *Object:
		if !mark(seen, reflect.ValueOf(val).Pointer()) {
			return
		}
		for _, k := range val.Keys() {
			traverse(val.Get(k), seen)
		}
		return
	case source:
		traverse(val.read(), seen)
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if !mark(seen, rv.Pointer()) {
			return
		}
		iter := rv.MapRange()
		for iter.Next() {
			traverse(iter.Value().Interface(), seen)
		}
	case reflect.Slice:
		if !mark(seen, rv.Pointer()) {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			traverse(rv.Index(i).Interface(), seen)
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			traverse(rv.Index(i).Interface(), seen)
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		if rv.Kind() == reflect.Pointer && !mark(seen, rv.Pointer()) {
			return
		}
		traverse(rv.Elem().Interface(), seen)
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Field(i)
			if f.CanInterface() {
				traverse(f.Interface(), seen)
			}
		}
	}
}

// mark records p in seen, reporting false if it was already present.
func mark(seen map[uintptr]struct{}, p uintptr) bool {
	if _, ok := seen[p]; ok {
		return false
	}
	seen[p] = struct{}{}
	return true
}
