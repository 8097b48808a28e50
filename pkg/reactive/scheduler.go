package reactive

import (
	"sync"
	"time"
)

// queuedJob is one pending queue entry. The ID identifies the logical
// job (a watcher's flush job keeps one ID for its whole life), which is
// what makes enqueueing idempotent between flushes.
type queuedJob struct {
	id uint64
	fn func()
}

// jobQueue is the deduplicated FIFO queue that batches post-flush work.
//
// Scheduling is cooperative: jobs accumulate until an explicit flush
// boundary — NextTick, Flush, or the end of the outermost Batch — and
// drain on the calling goroutine. Jobs enqueued while a flush is
// draining are appended and picked up by the same loop.
type jobQueue struct {
	mu       sync.Mutex
	jobs     []queuedJob
	queued   map[uint64]struct{}
	flushing bool
}

var queue jobQueue

// queueJob enqueues fn under id unless a job with that id is already
// pending. A job scheduled twice before a flush runs once.
func queueJob(id uint64, fn func()) {
	queue.mu.Lock()
	if queue.queued == nil {
		queue.queued = make(map[uint64]struct{})
	}
	if _, ok := queue.queued[id]; ok {
		queue.mu.Unlock()
		return
	}
	queue.queued[id] = struct{}{}
	queue.jobs = append(queue.jobs, queuedJob{id: id, fn: fn})
	queue.mu.Unlock()

	emit(Event{Kind: EventJobQueued, Effect: id})
}

// Flush drains the job queue in FIFO order. Jobs enqueued during the
// flush are drained by the same loop. A panicking job does not prevent
// later jobs from running: the loop finishes the drain, resets the
// pending state, and then re-panics with the first failure.
//
// Calling Flush while a flush is already draining on another goroutine
// returns immediately.
func Flush() {
	queue.mu.Lock()
	if queue.flushing {
		queue.mu.Unlock()
		return
	}
	queue.flushing = true
	queue.mu.Unlock()

	emit(Event{Kind: EventFlushStart})
	start := time.Now()

	var firstPanic any

	for {
		queue.mu.Lock()
		if len(queue.jobs) == 0 {
			queue.flushing = false
			queue.mu.Unlock()
			break
		}
		job := queue.jobs[0]
		queue.jobs = queue.jobs[1:]
		// Cleared before the job runs so the job can re-queue itself
		// for this same flush if it must.
		delete(queue.queued, job.id)
		queue.mu.Unlock()

		if p := runJob(job.fn); p != nil && firstPanic == nil {
			firstPanic = p
		}
	}

	emit(Event{Kind: EventFlushEnd, Duration: time.Since(start)})

	if firstPanic != nil {
		panic(firstPanic)
	}
}

// runJob invokes fn, converting a panic into a value so the drain loop
// can continue past a failed job.
func runJob(fn func()) (panicked any) {
	defer func() {
		panicked = recover()
	}()
	fn()
	return nil
}

// NextTick flushes all currently pending jobs and then invokes fns, in
// order. It returns once everything has run, which makes it the
// engine's awaitable completion: jobs queued before the call have run
// when NextTick returns, and jobs queued after it have not.
//
//	a.Set(1)
//	a.Set(2)
//	NextTick(func() {
//	    // post-flush watchers observed only the final value
//	})
func NextTick(fns ...func()) {
	Flush()
	for _, fn := range fns {
		fn()
	}
}
