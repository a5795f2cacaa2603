package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsPeriodically(t *testing.T) {
	var counter int32
	s := New("test", 50*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&counter) >= 3 }, time.Second, 10*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	finalCount := atomic.LoadInt32(&counter)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, finalCount, atomic.LoadInt32(&counter))
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New("test", 100*time.Millisecond, func(ctx context.Context) {})
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_DoubleStart(t *testing.T) {
	var counter int32
	s := New("test", time.Hour, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	s.Start(ctx, true)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&counter) == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))
}

func TestScheduler_WithoutImmediateExecution(t *testing.T) {
	var counter int32
	s := New("test", 100*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, false)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&counter))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&counter) >= 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_ContextCancellation(t *testing.T) {
	taskCtx := make(chan context.Context, 1)
	s := New("test", time.Hour, func(ctx context.Context) {
		taskCtx <- ctx
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx, true)

	received := <-taskCtx
	cancel()

	select {
	case <-received.Done():
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
	s.Stop()
}

func TestScheduler_Trigger(t *testing.T) {
	var counter int32
	s := New("test", time.Hour, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, false)
	s.Trigger()

	assert.Eventually(t, func() bool {
		_, runs := s.LastRun()
		return runs == 1
	}, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))
}

func TestScheduler_PanicDoesNotStopSchedule(t *testing.T) {
	var counter int32
	s := New("test", 20*time.Millisecond, func(ctx context.Context) {
		if atomic.AddInt32(&counter, 1) == 1 {
			panic("boom")
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	assert.Eventually(t, func() bool {
		_, runs := s.LastRun()
		return runs >= 3
	}, time.Second, 10*time.Millisecond)
	s.Stop()

	lastRun, runs := s.LastRun()
	assert.False(t, lastRun.IsZero())
	assert.GreaterOrEqual(t, runs, 3)
}
