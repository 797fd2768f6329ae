package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollerRunsTaskPeriodically(t *testing.T) {
	var runs atomic.Int64

	p := New(10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	assert.Greater(t, runs.Load(), int64(3))
}

func TestPollerSkipsTickWhileRequestInFlight(t *testing.T) {
	var runs atomic.Int64
	release := make(chan struct{})

	p := New(10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	// Первый тик запускает задачу и держит её; последующие тики должны
	// пропускаться, а не копить параллельные запросы
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), runs.Load())
	assert.Greater(t, p.Skipped(), int64(3))

	close(release)
	cancel()
	<-done
}

func TestPollerStopsOnCancel(t *testing.T) {
	p := New(time.Millisecond, func(ctx context.Context) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
