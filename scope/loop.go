package scope

import (
	"context"
	"sync"
)

// Scheduler posts work to a later turn of the host loop.
type Scheduler interface {
	Schedule(fn func())
}

type SchedulerFunc func(fn func())

func (f SchedulerFunc) Schedule(fn func()) {
	f(fn)
}

// EventLoop is a FIFO run loop. Work may be posted from any goroutine but is
// only ever executed by the goroutine calling RunPending or Run.
type EventLoop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func NewEventLoop() *EventLoop {
	return &EventLoop{
		wake: make(chan struct{}, 1),
	}
}

func (l *EventLoop) Schedule(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *EventLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *EventLoop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		return nil, false
	}
	fn := l.pending[0]
	l.pending[0] = nil
	l.pending = l.pending[1:]
	return fn, true
}

// RunPending executes queued work, including work queued while running,
// until the queue is empty. It returns how many items ran.
func (l *EventLoop) RunPending() int {
	ran := 0
	for {
		fn, ok := l.next()
		if !ok {
			return ran
		}
		fn()
		ran++
	}
}

// Run executes posted work until ctx is done.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}
