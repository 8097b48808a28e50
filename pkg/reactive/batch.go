package reactive

// Batch groups multiple writes into a single notification phase. All
// triggers inside fn queue their notifications; when the outermost batch
// ends the queued effects are deduplicated by ID and notified once each,
// then the job queue is flushed.
//
// Batches nest: only the outermost end delivers.
//
// Example:
//
//	Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	})
//	// An effect reading both re-ran once.
func Batch(fn func()) {
	ctx := currentContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			deliverPending(ctx)
			Flush()
		}
	}()

	fn()
}

// deliverPending deduplicates and notifies the effects queued during a
// batch. Notifications run with batching off, so an effect that writes
// another signal triggers inline as usual.
func deliverPending(ctx *trackingContext) {
	pending := ctx.pending
	ctx.pending = nil
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	for _, e := range pending {
		if seen[e.ID()] {
			continue
		}
		seen[e.ID()] = true
		e.notify()
	}
}
