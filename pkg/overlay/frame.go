package overlay

import "time"

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameFunc runs once on the next display tick.
type FrameFunc func(now time.Time)

// FrameScheduler is the host's per-frame callback primitive.
type FrameScheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id        FrameID
	fn        FrameFunc
	cancelled bool
}

// FrameQueue is a FrameScheduler driven by explicit RunFrames calls, one per
// display tick. Callbacks requested while a batch runs go to the next tick.
type FrameQueue struct {
	nextID  FrameID
	pending []*frameRequest
	running []*frameRequest
}

// RequestFrame queues fn for the next RunFrames.
func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameID {
	q.nextID++
	q.pending = append(q.pending, &frameRequest{id: q.nextID, fn: fn})
	return q.nextID
}

// CancelFrame drops a queued callback. Unknown or already run ids are
// ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, req := range q.pending {
		if req.id == id {
			req.cancelled = true
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for _, req := range q.running {
		if req.id == id {
			req.cancelled = true
			return
		}
	}
}

// Pending returns how many callbacks are waiting.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}

// RunFrames runs every callback queued before the call and returns how many
// ran.
func (q *FrameQueue) RunFrames(now time.Time) int {
	batch := q.pending
	q.pending = nil
	q.running = batch
	defer func() { q.running = nil }()

	ran := 0
	for _, req := range batch {
		if req.cancelled {
			continue
		}
		req.fn(now)
		ran++
	}
	return ran
}
