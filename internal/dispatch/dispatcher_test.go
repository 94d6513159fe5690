package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/autumn/internal/automation"
	"github.com/tessro/autumn/internal/core"
	"github.com/tessro/autumn/internal/uiloop"
)

type runnerFunc func(ctx context.Context, script string) (automation.Output, error)

func (f runnerFunc) Execute(ctx context.Context, script string) (automation.Output, error) {
	return f(ctx, script)
}

func stdout(s string) runnerFunc {
	return func(context.Context, string) (automation.Output, error) {
		return automation.Output{Stdout: s}, nil
	}
}

// runLoop runs l on a background goroutine for the duration of the test.
func runLoop(t *testing.T, l *uiloop.Loop) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func await(t *testing.T, ch <-chan core.Result) core.Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("continuation never ran")
		return core.Result{}
	}
}

func TestDispatch_PlayerState(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	d := New(stdout("playing\n"), l, Options{})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 1)
	id := d.Dispatch("player-state", "return player state", func(r core.Result) { got <- r })

	r := await(t, got)
	assert.Equal(t, "playing", r.Text)
	assert.Equal(t, id, r.CommandID)
	assert.True(t, r.OK())
}

func TestDispatch_NonZeroExitEmptyStdout(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	runner := runnerFunc(func(context.Context, string) (automation.Output, error) {
		return automation.Output{Stdout: "", Stderr: "boom", ExitCode: 1}, nil
	})
	d := New(runner, l, Options{})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 1)
	d.Dispatch("player-state", "return player state", func(r core.Result) { got <- r })

	r := await(t, got)
	assert.Equal(t, "", r.Text)
	assert.NoError(t, r.Err)
}

func TestDispatch_InterpreterFailure(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	runner := runnerFunc(func(context.Context, string) (automation.Output, error) {
		return automation.Output{}, errors.New("exec: not found")
	})
	d := New(runner, l, Options{})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 1)
	d.Dispatch("current-track", "x", func(r core.Result) { got <- r })

	r := await(t, got)
	assert.Equal(t, "Error: exec: not found", r.Text)
	assert.Error(t, r.Err)
	assert.False(t, r.OK())
}

func TestDispatch_ContinuationRunsOnLoop(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	d := New(stdout("ok"), l, Options{Workers: 3})
	d.Start(context.Background())
	defer d.Close()

	const n = 20
	onLoop := make(chan bool, n)
	for i := 0; i < n; i++ {
		d.Dispatch("q", "x", func(core.Result) { onLoop <- l.OnLoop() })
	}
	for i := 0; i < n; i++ {
		select {
		case ok := <-onLoop:
			assert.True(t, ok, "continuation ran off the loop")
		case <-time.After(5 * time.Second):
			t.Fatal("continuation never ran")
		}
	}
}

func TestDispatch_ContinuationWaitsForLoop(t *testing.T) {
	l := uiloop.New() // not running

	d := New(stdout("ok"), l, Options{})
	d.Start(context.Background())

	called := false
	d.Dispatch("q", "x", func(core.Result) { called = true })
	d.Close() // worker finished and posted

	assert.False(t, called, "continuation must not run on the worker")
	assert.Equal(t, 1, l.Pending())
	assert.Equal(t, 1, l.RunPending())
	assert.True(t, called)
}

func TestDispatch_FireAndForget(t *testing.T) {
	l := uiloop.New() // not running

	var calls atomic.Int32
	runner := runnerFunc(func(context.Context, string) (automation.Output, error) {
		calls.Add(1)
		return automation.Output{Stdout: "ignored"}, nil
	})
	d := New(runner, l, Options{})
	d.Start(context.Background())

	assert.NotPanics(t, func() {
		d.Dispatch("next", "next track", nil)
		d.Dispatch("prev", "previous track", nil)
	})
	d.Close()

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, l.Pending(), "no task should be scheduled")
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatch_ConcurrentQueriesAreIndependent(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	var seq atomic.Int32
	release := make(chan struct{})
	runner := runnerFunc(func(context.Context, string) (automation.Output, error) {
		n := seq.Add(1)
		<-release
		return automation.Output{Stdout: fmt.Sprintf("result-%d", n)}, nil
	})
	d := New(runner, l, Options{Workers: 2})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 2)
	id1 := d.Dispatch("q", "same script", func(r core.Result) { got <- r })
	id2 := d.Dispatch("q", "same script", func(r core.Result) { got <- r })
	require.NotEqual(t, id1, id2)

	require.Eventually(t, func() bool { return seq.Load() == 2 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, d.InFlight())
	close(release)

	a, b := await(t, got), await(t, got)
	assert.ElementsMatch(t, []string{"result-1", "result-2"}, []string{a.Text, b.Text})
	assert.ElementsMatch(t, []string{id1, id2}, []string{a.CommandID, b.CommandID})
}

func TestDispatch_BusyWhenQueueFull(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	runner := runnerFunc(func(context.Context, string) (automation.Output, error) {
		started <- struct{}{}
		<-release
		return automation.Output{Stdout: "done"}, nil
	})
	d := New(runner, l, Options{Workers: 1, QueueSize: 1})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 3)
	d.Dispatch("a", "x", func(r core.Result) { got <- r })
	<-started                                               // worker busy
	d.Dispatch("b", "x", func(r core.Result) { got <- r }) // queued
	d.Dispatch("c", "x", func(r core.Result) { got <- r }) // rejected

	r := await(t, got)
	assert.ErrorIs(t, r.Err, ErrBusy)
	assert.Equal(t, "Error: dispatcher busy", r.Text)
	assert.Equal(t, 2, d.InFlight())

	close(release)
	assert.Equal(t, "done", await(t, got).Text)
	assert.Equal(t, "done", await(t, got).Text)
	assert.Eventually(t, func() bool { return d.InFlight() == 0 }, time.Second, 5*time.Millisecond)
}

func TestDispatch_AfterClose(t *testing.T) {
	l := uiloop.New()
	d := New(stdout("x"), l, Options{})
	d.Start(context.Background())
	d.Close()
	d.Close()

	var got core.Result
	d.Dispatch("late", "x", func(r core.Result) { got = r })
	require.Equal(t, 1, l.RunPending())
	assert.ErrorIs(t, got.Err, ErrClosed)
}

func TestDispatch_EmptyScript(t *testing.T) {
	l := uiloop.New()
	d := New(stdout("x"), l, Options{})

	var got core.Result
	d.Dispatch("empty", "", func(r core.Result) { got = r })
	require.Equal(t, 1, l.RunPending())
	assert.ErrorIs(t, got.Err, ErrEmptyScript)
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatch_Timeout(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	runner := runnerFunc(func(ctx context.Context, _ string) (automation.Output, error) {
		<-ctx.Done()
		return automation.Output{}, ctx.Err()
	})
	d := New(runner, l, Options{Timeout: 20 * time.Millisecond})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 1)
	d.Dispatch("hang", "x", func(r core.Result) { got <- r })

	r := await(t, got)
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
}

func TestDispatch_RunnerPanicBecomesError(t *testing.T) {
	l := uiloop.New()
	runLoop(t, l)

	runner := runnerFunc(func(context.Context, string) (automation.Output, error) {
		panic("kaboom")
	})
	d := New(runner, l, Options{Workers: 1})
	d.Start(context.Background())
	defer d.Close()

	got := make(chan core.Result, 2)
	d.Dispatch("p", "x", func(r core.Result) { got <- r })
	r := await(t, got)
	assert.Contains(t, r.Text, "Error: runner panic: kaboom")

	// the worker survived
	d.Dispatch("p", "x", func(r core.Result) { got <- r })
	assert.Contains(t, await(t, got).Text, "kaboom")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Timeout: -1}.withDefaults()
	assert.Equal(t, DefaultWorkers, o.Workers)
	assert.Equal(t, DefaultQueueSize, o.QueueSize)
	assert.Equal(t, time.Duration(0), o.Timeout)
}
