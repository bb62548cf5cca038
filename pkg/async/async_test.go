package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lettermint/lettermint-go/pkg/async"
)

func TestGo(t *testing.T) {
	t.Parallel()

	f := async.Go(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, f.IsComplete())

	// Await is repeatable.
	v, err = f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGo_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	f := async.Go(context.Background(), func(context.Context) (string, error) {
		return "", boom
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
}

func TestGo_CancelledContextSkipsCall(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	f := async.Go(ctx, func(context.Context) (int, error) {
		called.Store(true)
		return 1, nil
	})

	v, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, v)
	assert.False(t, called.Load())
}

func TestFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, nil
	})

	assert.False(t, f.IsComplete())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, async.ErrNotReady)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-f.Done()
	v, err := f.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestResolved(t *testing.T) {
	t.Parallel()

	f := async.Resolved("ok", nil)
	assert.True(t, f.IsComplete())
	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	e1 := errors.New("first")
	e2 := errors.New("second")

	futures := []*async.Future[int]{
		async.Go(context.Background(), func(context.Context) (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 1, nil
		}),
		async.Resolved(0, e1),
		async.Go(context.Background(), func(context.Context) (int, error) { return 3, nil }),
		async.Resolved(0, e2),
	}

	results, err := async.WaitAll(futures...)
	assert.Equal(t, []int{1, 0, 3, 0}, results)
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)

	results, err = async.WaitAll[int]()
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)

	slow := async.Go(context.Background(), func(context.Context) (string, error) {
		<-block
		return "slow", nil
	})
	fast := async.Resolved("fast", nil)

	i, v, err := async.WaitAny(slow, fast)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "fast", v)

	_, _, err = async.WaitAny[string]()
	assert.ErrorIs(t, err, async.ErrNoFutures)
}
