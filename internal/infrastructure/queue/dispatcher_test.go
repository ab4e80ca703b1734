package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/address-verification/internal/core/ports"
)

type recordingVerifier struct {
	mu    sync.Mutex
	seen  []ports.VerifyLocationInput
	done  chan struct{}
	block chan struct{}
}

func (r *recordingVerifier) Verify(_ context.Context, in ports.VerifyLocationInput) (*ports.VerificationResult, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.seen = append(r.seen, in)
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	return &ports.VerificationResult{}, nil
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingVerifier{}, zerolog.Nop())

	first := d.shardIndex("loc-42")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("loc-42"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 4)
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingVerifier{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_ProcessesInOrderPerLocation(t *testing.T) {
	v := &recordingVerifier{done: make(chan struct{}, 3)}
	d := NewDispatcher(2, v, zerolog.Nop())

	d.Start(context.Background())

	require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1", Source: "a"}))
	require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1", Source: "b"}))
	require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1", Source: "c"}))

	for i := 0; i < 3; i++ {
		select {
		case <-v.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for verification")
		}
	}
	require.NoError(t, d.Shutdown(context.Background()))

	v.mu.Lock()
	defer v.mu.Unlock()
	require.Len(t, v.seen, 3)
	assert.Equal(t, "a", v.seen[0].Source)
	assert.Equal(t, "b", v.seen[1].Source)
	assert.Equal(t, "c", v.seen[2].Source)
}

func TestDispatcher_EnqueueReportsFullBuffer(t *testing.T) {
	d := NewDispatcher(1, &recordingVerifier{}, zerolog.Nop())

	// Workers are not started, so the single buffer fills up.
	for i := 0; i < channelBuffer; i++ {
		require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1"}))
	}
	assert.False(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1"}))
}

// gatedVerifier blocks every call until release is closed and records the
// context error seen when the call returns.
type gatedVerifier struct {
	mu      sync.Mutex
	seen    []string
	ctxErrs []error
	started chan struct{}
	release chan struct{}
}

func (g *gatedVerifier) Verify(ctx context.Context, in ports.VerifyLocationInput) (*ports.VerificationResult, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	g.mu.Lock()
	g.seen = append(g.seen, in.Source)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	g.mu.Unlock()
	return &ports.VerificationResult{}, ctx.Err()
}

func TestDispatcher_ShutdownDrainsQueuedWork(t *testing.T) {
	g := &gatedVerifier{started: make(chan struct{}, 2), release: make(chan struct{})}
	d := NewDispatcher(1, g, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1", Source: "a"}))
	require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-2", Source: "b"}))

	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first verification never started")
	}

	// The process context going away must not interrupt the worker.
	cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- d.Shutdown(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-3", Source: "c"}))
	close(g.release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not return")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, g.seen)
	assert.Equal(t, []error{nil, nil}, g.ctxErrs)
}

func TestDispatcher_ShutdownHonoursDeadline(t *testing.T) {
	g := &gatedVerifier{started: make(chan struct{}, 1), release: make(chan struct{})}
	d := NewDispatcher(1, g, zerolog.Nop())
	d.Start(context.Background())
	defer close(g.release)

	require.True(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1"}))
	<-g.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := d.Shutdown(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_ShutdownTwice(t *testing.T) {
	d := NewDispatcher(2, &recordingVerifier{}, zerolog.Nop())
	d.Start(context.Background())

	require.NoError(t, d.Shutdown(context.Background()))
	require.NoError(t, d.Shutdown(context.Background()))
	assert.False(t, d.Enqueue(ports.VerifyLocationInput{LocationID: "loc-1"}))
}
