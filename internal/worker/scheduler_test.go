package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, config Config) *Scheduler {
	t.Helper()
	s := NewScheduler(config, setupTestLogger())
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

func TestScheduler_After(t *testing.T) {
	s := newTestScheduler(t, DefaultConfig())

	done := make(chan time.Time, 1)
	start := time.Now()
	s.After(20*time.Millisecond, func() { done <- time.Now() })

	select {
	case ranAt := <-done:
		assert.GreaterOrEqual(t, ranAt.Sub(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("scheduled function did not run")
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := newTestScheduler(t, DefaultConfig())

	var ran atomic.Bool
	timer := s.After(30*time.Millisecond, func() { ran.Store(true) })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	time.Sleep(80 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestScheduler_StopAfterEnqueue(t *testing.T) {
	s := newTestScheduler(t, DefaultConfig())

	ran := make(chan struct{})
	timer := s.After(0, func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("scheduled function did not run")
	}
	assert.False(t, timer.Stop())
}

func TestScheduler_RetriesWhenQueueFull(t *testing.T) {
	s := newTestScheduler(t, Config{WorkerCount: 1, QueueSize: 1, RetryDelay: 5 * time.Millisecond})

	release := make(chan struct{})
	blocking := make(chan struct{})
	s.After(0, func() {
		close(blocking)
		<-release
	})
	<-blocking

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		s.After(0, func() { count.Add(1) })
	}

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, count.Load())

	close(release)
	assert.Eventually(t, func() bool { return count.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_DropsWorkAfterShutdown(t *testing.T) {
	s := NewScheduler(DefaultConfig(), setupTestLogger())
	s.Start()
	s.Stop()
	s.Stop()

	var ran atomic.Bool
	s.After(0, func() { ran.Store(true) })

	time.Sleep(30 * time.Millisecond)
	require.False(t, ran.Load())
}

func TestScheduler_CountsPanickingJobs(t *testing.T) {
	s := newTestScheduler(t, Config{WorkerCount: 1})

	s.After(0, func() { panic("step bug") })

	ran := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
	assert.Eventually(t, func() bool { return s.Failed() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(Config{}, setupTestLogger())

	assert.Equal(t, DefaultWorkerPoolConfig().WorkerCount, s.config.WorkerCount)
	assert.Equal(t, DefaultConfig().QueueSize, s.config.QueueSize)
	assert.Equal(t, DefaultConfig().RetryDelay, s.config.RetryDelay)
	assert.Zero(t, s.Failed())
}
