// Package dispatch runs automation scripts off the UI loop and hands their
// results back to it.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/autumn/internal/automation"
	"github.com/tessro/autumn/internal/core"
	autumnerrors "github.com/tessro/autumn/internal/errors"
)

// Errors
var (
	ErrBusy        = autumnerrors.ErrDispatcherBusy
	ErrClosed      = autumnerrors.ErrDispatcherClosed
	ErrEmptyScript = errors.New("empty script")
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 32
	DefaultTimeout   = 10 * time.Second
)

// Options sizes the worker pool.
type Options struct {
	Workers   int           // Concurrent interpreter processes
	QueueSize int           // Commands waiting for a worker
	Timeout   time.Duration // Per command; zero disables
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.Timeout < 0 {
		o.Timeout = 0
	}
	return o
}

// Dispatcher executes commands on a bounded worker pool.
//
// Continuations are never called on a worker: each one is posted to the
// Scheduler exactly once. Commands without a continuation are run and their
// results dropped. There is no ordering between commands; continuations run
// in completion order.
type Dispatcher struct {
	runner automation.Runner
	sched  core.Scheduler
	opts   Options

	mu     sync.RWMutex // guards closed and sends on jobs
	closed bool
	jobs   chan core.Command

	inFlight  atomic.Int64
	startOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a dispatcher. Call Start to launch the workers.
func New(runner automation.Runner, sched core.Scheduler, opts Options) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		runner: runner,
		sched:  sched,
		opts:   opts,
		jobs:   make(chan core.Command, opts.QueueSize),
	}
}

// Start launches the workers. Cancelling ctx aborts running interpreter
// calls; their continuations still receive an error result.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		for i := 0; i < d.opts.Workers; i++ {
			d.wg.Add(1)
			go d.worker(ctx)
		}
	})
}

// Dispatch queues script for execution and returns the command id. It never
// blocks. onResult may be nil.
func (d *Dispatcher) Dispatch(name, script string, onResult func(core.Result)) string {
	return d.Submit(core.Command{
		ID:       uuid.NewString(),
		Name:     name,
		Script:   script,
		OnResult: onResult,
	})
}

// Submit queues a prepared command. An empty ID is filled in.
func (d *Dispatcher) Submit(cmd core.Command) string {
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}
	if cmd.Script == "" {
		d.deliver(cmd, core.ErrorResult(cmd.ID, ErrEmptyScript))
		return cmd.ID
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.deliver(cmd, core.ErrorResult(cmd.ID, ErrClosed))
		return cmd.ID
	}

	d.inFlight.Add(1)
	select {
	case d.jobs <- cmd:
		zlog.Debug().Str("cmd", cmd.Name).Str("id", cmd.ID).Int64("in_flight", d.inFlight.Load()).Msg("command queued")
	default:
		d.inFlight.Add(-1)
		zlog.Warn().Str("cmd", cmd.Name).Str("id", cmd.ID).Msg("dispatcher busy, command dropped")
		d.deliver(cmd, core.ErrorResult(cmd.ID, ErrBusy))
	}
	return cmd.ID
}

// InFlight returns the number of queued and running commands.
func (d *Dispatcher) InFlight() int {
	return int(d.inFlight.Load())
}

// Close stops accepting commands and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for cmd := range d.jobs {
		res := d.run(ctx, cmd)
		d.inFlight.Add(-1)
		d.deliver(cmd, res)
	}
}

func (d *Dispatcher) run(ctx context.Context, cmd core.Command) (res core.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = core.ErrorResult(cmd.ID, errors.Newf("runner panic: %v", r))
		}
		ev := zlog.Debug()
		if res.Err != nil {
			ev = zlog.Warn().Err(res.Err)
		}
		ev.Str("cmd", cmd.Name).Str("id", cmd.ID).Dur("took", time.Since(start)).Msg("command finished")
	}()

	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	out, err := d.runner.Execute(ctx, cmd.Script)
	if err != nil {
		return core.ErrorResult(cmd.ID, err)
	}
	return core.NewResult(cmd.ID, out.Stdout)
}

// deliver posts the continuation to the UI loop.
func (d *Dispatcher) deliver(cmd core.Command, res core.Result) {
	if cmd.OnResult == nil {
		return
	}
	var delivered atomic.Bool
	d.sched.Post(func() {
		if !delivered.CompareAndSwap(false, true) {
			panic(fmt.Sprintf("dispatch: result for %s delivered twice", cmd.ID))
		}
		cmd.OnResult(res)
	})
}
