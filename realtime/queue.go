package realtime

import "sort"

// queuedOp is an operator op with its submission sequence number.
type queuedOp struct {
	fn  func()
	seq uint64
}

// collectOps atomically takes the queued ops and resets the queue.
func (rt *Runtime) collectOps() []queuedOp {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	ops := rt.ops
	rt.ops = make([]queuedOp, 0, rt.maxOps)
	return ops
}

// sortOps orders ops by submission. Appends under the lock already keep that
// order; sorting keeps it explicit when batches are merged.
func sortOps(ops []queuedOp) {
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].seq < ops[j].seq
	})
}
