package uiloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRunsOnLoop(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	ran := make(chan bool, 1)
	go l.Post(func() { ran <- l.OnLoop() })

	select {
	case onLoop := <-ran:
		assert.True(t, onLoop)
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.False(t, l.OnLoop())
}

func TestOnLoopFalseOffLoopWhileTaskRuns(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	entered := make(chan struct{})
	release := make(chan struct{})
	l.Post(func() {
		close(entered)
		<-release
	})

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}

	offLoop := make(chan bool, 1)
	go func() { offLoop <- l.OnLoop() }()
	assert.False(t, <-offLoop, "another goroutine saw itself on the loop")
	assert.False(t, l.OnLoop(), "test goroutine saw itself on the loop")
	close(release)
}

func TestRunPendingOwnsCallingGoroutine(t *testing.T) {
	l := New()
	var inside, afterwards bool
	l.Post(func() { inside = l.OnLoop() })

	require.Equal(t, 1, l.RunPending())
	afterwards = l.OnLoop()

	assert.True(t, inside)
	assert.False(t, afterwards)
}

func TestGoid(t *testing.T) {
	self := goid()
	require.NotZero(t, self)
	assert.Equal(t, self, goid())

	other := make(chan uint64, 1)
	go func() { other <- goid() }()
	id := <-other
	assert.NotZero(t, id)
	assert.NotEqual(t, self, id)
}

func TestTasksAreSerialised(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	const n = 200
	counter := 0 // only touched on the loop
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go l.Post(func() {
			counter++
			wg.Done()
		})
	}
	wg.Wait()

	done := make(chan int, 1)
	l.Post(func() { done <- counter })
	assert.Equal(t, n, <-done)
}

func TestPostFromTask(t *testing.T) {
	l := New()
	var order []string
	l.Post(func() {
		order = append(order, "outer")
		l.Post(func() { order = append(order, "inner") })
	})

	assert.Equal(t, 1, l.RunPending())
	assert.Equal(t, 1, l.Pending())
	assert.Equal(t, 1, l.RunPending())
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestEvery(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	ticks := make(chan time.Time, 10)
	stop := l.Every(10*time.Millisecond, func(tm time.Time) { ticks <- tm })

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}
	stop()
	stop() // idempotent
}

func TestPostAfterStopIsDropped(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Run(ctx), context.Canceled)

	l.Post(func() { t.Error("task ran after stop") })
	assert.Equal(t, 0, l.Pending())
}
