package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTask(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer func() { _ = p.Shutdown(context.Background()) }()

	var ran atomic.Bool
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestSubmitPropagatesError(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer func() { _ = p.Shutdown(context.Background()) }()

	want := errors.New("boom")
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, want)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
	assert.True(t, p.IsClosed())
}

func TestSubmitAsyncQueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer func() { _ = p.Shutdown(context.Background()) }()

	block := make(chan struct{})
	defer close(block)

	// occupy the single worker
	require.NoError(t, p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		<-block
		return nil
	}))

	// give the worker time to pick the task up
	time.Sleep(50 * time.Millisecond)

	// fill the queue
	require.NoError(t, p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		return nil
	}))

	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)
}
