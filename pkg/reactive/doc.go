// Package reactive provides a fine-grained reactivity engine.
//
// The engine tracks which state each computation read during its last run
// and re-executes the computation when exactly that state changes. It is
// UI-agnostic: its job is dependency tracking, invalidation, and scheduled
// re-execution, not rendering.
//
// # Core Types
//
// Ref[T] is a single reactive value cell:
//
//	count := NewRef(0)
//	value := count.Get()  // Read (subscribes the running effect)
//	count.Set(5)          // Write (notifies subscribers if changed)
//
// Object is a reactive string-keyed object created by Reactive:
//
//	user := Reactive(map[string]any{"name": "Ada"}).(*Object)
//	name := user.Get("name")  // tracked read
//	user.Set("name", "Grace") // triggers subscribers of the "name" key
//
// Computed[T] is a lazily recomputed, memoized derivation:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//	value := doubled.Get()  // Recomputes only if a dependency changed
//
// Effect is the unit of re-computation. It runs immediately on creation
// and re-runs synchronously whenever a dependency changes, unless it was
// given a scheduler via WithScheduler:
//
//	NewEffect(func() any {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//
// Watch observes one or more reactive sources and invokes a callback with
// the new and previous values. With FlushPost the callback is batched on
// the job queue and multiple writes collapse into one invocation per
// flush cycle.
//
// # Scheduling
//
// Scheduling is cooperative. Default effects re-run inline in the
// writer's call stack. Post-flush work accumulates on a deduplicated FIFO
// job queue that drains at an explicit boundary: NextTick, Flush, or the
// end of the outermost Batch.
//
// # Concurrency
//
// The active-tracking slot is per goroutine, so independent goroutines
// can run effects without interfering. Within one goroutine the model is
// single-threaded and re-entrant: an effect whose body writes one of its
// own dependencies recurses with no guard, which is a caller-design error
// and will likely overflow the stack.
package reactive
