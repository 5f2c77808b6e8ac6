package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewPool(2, 8)

	var ran atomic.Int64
	done := make(chan struct{}, 4)
	for i := 0; i < 4; i++ {
		assert.True(t, pool.Submit(func(ctx context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		}))
	}

	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}
	assert.Equal(t, int64(4), ran.Load())
}

func TestShutdownWaitsForQueuedTasks(t *testing.T) {
	pool := NewPool(1, 8)

	var ran atomic.Int64
	for i := 0; i < 3; i++ {
		pool.Submit(func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			ran.Add(1)
			return nil
		})
	}

	pool.Shutdown()
	assert.Equal(t, int64(3), ran.Load())
}

func TestSubmitReportsRejectionWhenQueueFull(t *testing.T) {
	pool := NewPool(1, 0)
	defer pool.Shutdown()

	// Occupy the only worker; with no queue capacity the next submit cannot
	// be accepted.
	release := make(chan struct{})
	running := make(chan struct{})
	assert.True(t, pool.Submit(func(ctx context.Context) error {
		close(running)
		<-release
		return nil
	}))
	<-running

	assert.False(t, pool.Submit(func(ctx context.Context) error { return nil }))
	close(release)
}

func TestSubmitAfterShutdownIsDropped(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Shutdown()

	// Must not panic on the closed queue.
	assert.False(t, pool.Submit(func(ctx context.Context) error { return nil }))
}
