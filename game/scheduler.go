package game

import "sync"

// FrameID identifies a pending frame request. The zero value is never issued.
type FrameID uint64

// Scheduler delivers frame callbacks, one per display refresh or timer tick.
//
// CancelFrame drops a pending request. A callback the scheduler already
// dequeued may still be invoked, so callers check their own cancellation
// token on entry; Controller does.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

type scheduledFrame struct {
	id FrameID
	fn func()
}

// frameQueue is the pending-request bookkeeping shared by the schedulers.
type frameQueue struct {
	mu      sync.Mutex
	nextID  FrameID
	pending []scheduledFrame
}

func (q *frameQueue) push(fn func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.pending = append(q.pending, scheduledFrame{id: q.nextID, fn: fn})
	return q.nextID
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, f := range q.pending {
		if f.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// take removes and returns everything queued so far. Requests made while
// the returned callbacks run land in the next batch.
func (q *frameQueue) take() []scheduledFrame {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler queues frame requests until the host pumps them.
// The window host calls RunPending once per display refresh; tests call it
// to advance the loop one frame at a time.
type ManualScheduler struct {
	q frameQueue
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestFrame implements Scheduler.
func (s *ManualScheduler) RequestFrame(fn func()) FrameID {
	return s.q.push(fn)
}

// CancelFrame implements Scheduler.
func (s *ManualScheduler) CancelFrame(id FrameID) {
	s.q.cancel(id)
}

// RunPending runs the callbacks queued before the call and returns how many ran.
func (s *ManualScheduler) RunPending() int {
	batch := s.q.take()
	for _, f := range batch {
		f.fn()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (s *ManualScheduler) Len() int {
	return s.q.len()
}

// Peek returns the queued callbacks without dequeuing them.
func (s *ManualScheduler) Peek() []func() {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	fns := make([]func(), len(s.q.pending))
	for i, f := range s.q.pending {
		fns[i] = f.fn
	}
	return fns
}
