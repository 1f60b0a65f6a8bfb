package game

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// TickerScheduler delivers frames from its own goroutine, paced to a target
// rate. It stands in for a display's refresh callback when there is no window.
type TickerScheduler struct {
	q       frameQueue
	limiter *rate.Limiter
	wake    chan struct{}

	mu      sync.Mutex
	started bool
}

// ErrSchedulerRunning is returned when Run is called twice.
var ErrSchedulerRunning = errors.New("scheduler already running")

// NewTickerScheduler creates a scheduler that runs at most fps frames per second.
// fps <= 0 means unpaced.
func NewTickerScheduler(fps float64) *TickerScheduler {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	return &TickerScheduler{
		limiter: rate.NewLimiter(limit, 1),
		wake:    make(chan struct{}, 1),
	}
}

// RequestFrame implements Scheduler.
func (s *TickerScheduler) RequestFrame(fn func()) FrameID {
	id := s.q.push(fn)
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return id
}

// CancelFrame implements Scheduler.
func (s *TickerScheduler) CancelFrame(id FrameID) {
	s.q.cancel(id)
}

// Run delivers frames until ctx is cancelled. It returns nil on cancellation.
func (s *TickerScheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrSchedulerRunning
	}
	s.started = true
	s.mu.Unlock()

	for {
		if s.q.len() == 0 {
			select {
			case <-s.wake:
			case <-ctx.Done():
				return nil
			}
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			// Wait fails on cancellation or when the deadline is too close to wait out
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, f := range s.q.take() {
			if ctx.Err() != nil {
				return nil
			}
			f.fn()
		}
	}
}
