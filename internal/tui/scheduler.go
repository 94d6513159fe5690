package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// taskMsg carries a posted function into Update.
type taskMsg struct {
	fn func()
}

// Scheduler implements core.Scheduler on top of a bubbletea program. Posted
// functions are delivered as messages and run inside Update.
//
// tea.Program.Send blocks until the event loop receives the message, so Post
// only queues; a pump goroutine does the sending. That keeps Post safe to
// call from Update itself.
type Scheduler struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewScheduler creates a scheduler. Tasks queue until Attach is called.
func NewScheduler() *Scheduler {
	return &Scheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Attach starts delivering tasks through send, normally tea.Program.Send.
func (s *Scheduler) Attach(send func(tea.Msg)) {
	go s.pump(send)
}

// Post queues fn to run on the UI loop.
func (s *Scheduler) Post(fn func()) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Every posts fn at each tick until stop is called or the scheduler stops.
func (s *Scheduler) Every(interval time.Duration, fn func(time.Time)) (stop func()) {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-s.done:
				return
			case t := <-ticker.C:
				s.Post(func() { fn(t) })
			}
		}
	}()

	return func() { once.Do(func() { close(quit) }) }
}

// Stop ends delivery. Queued tasks are dropped.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Scheduler) pump(send func(tea.Msg)) {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, fn := range batch {
			select {
			case <-s.done:
				return
			default:
			}
			send(taskMsg{fn: fn})
		}
	}
}
