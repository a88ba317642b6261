package workerpool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/pkg/workerpool"
)

func TestSubmitRunsEveryTask(t *testing.T) {
	pool := workerpool.New(4)
	var n atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { n.Add(1) }))
	}
	pool.Wait()
	assert.EqualValues(t, 100, n.Load())
}

func TestSubmitAfterWait(t *testing.T) {
	pool := workerpool.New(2)
	pool.Wait()
	pool.Wait()
	assert.ErrorIs(t, pool.Submit(context.Background(), func() {}), workerpool.ErrClosed)
}

func TestSubmitHonoursContext(t *testing.T) {
	pool := workerpool.New(1)
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() {
		close(started)
		<-release
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Submit(ctx, func() {}), context.DeadlineExceeded)

	close(release)
	pool.Wait()
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New(1)
	require.NoError(t, pool.Submit(context.Background(), func() { panic("boom") }))

	var ran atomic.Bool
	require.NoError(t, pool.Submit(context.Background(), func() { ran.Store(true) }))
	pool.Wait()
	assert.True(t, ran.Load())
}
