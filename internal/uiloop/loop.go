// Package uiloop is a single-goroutine task loop for the commands that run
// without the terminal UI.
package uiloop

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Loop serialises posted tasks onto the goroutine that calls Run.
// It implements core.Scheduler.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	done    chan struct{}
	doneMu  sync.Once

	// owner is the id of the goroutine running a batch, 0 when idle.
	owner atomic.Uint64
}

// New creates an idle loop.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post queues fn to run on the loop. It never blocks, so it is safe to call
// from a task. Tasks posted after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Every posts fn at each tick until stop is called or the loop stops.
func (l *Loop) Every(interval time.Duration, fn func(time.Time)) (stop func()) {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-l.done:
				return
			case t := <-ticker.C:
				l.Post(func() { fn(t) })
			}
		}
	}()

	return func() { once.Do(func() { close(quit) }) }
}

// Run executes tasks until ctx is cancelled. Pending tasks are discarded on
// return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunPending executes the tasks queued so far on the calling goroutine and
// returns how many ran.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}

	prev := l.owner.Swap(goid())
	defer l.owner.Store(prev)
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// OnLoop reports whether the caller is a task running on the loop goroutine.
// Other goroutines get false even while a task is running.
func (l *Loop) OnLoop() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == goid()
}

// goid parses the current goroutine id from the stack header
// ("goroutine 42 [running]:").
func goid() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (l *Loop) stop() {
	l.doneMu.Do(func() { close(l.done) })
}
