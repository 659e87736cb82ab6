package lazyconn

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_OpensOnceUnderConcurrency(t *testing.T) {
	var opens int32
	release := make(chan struct{})
	c := New(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&opens, 1)
		<-release
		return "db", nil
	}, nil, 0)

	const callers = 32
	var wg sync.WaitGroup
	results := make(chan string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background())
			if err == nil {
				results <- v
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	n := 0
	for v := range results {
		assert.Equal(t, "db", v)
		n++
	}
	assert.Equal(t, callers, n)
	assert.True(t, c.Opened())

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestGet_FailureIsNotCached(t *testing.T) {
	var opens int32
	c := New(func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&opens, 1) == 1 {
			return 0, errors.New("connection refused")
		}
		return 7, nil
	}, nil, time.Second)

	_, err := c.Get(context.Background())
	require.Error(t, err)
	assert.False(t, c.Opened())

	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&opens))
}

func TestGet_CallerContextOnlyBoundsItsOwnWait(t *testing.T) {
	release := make(chan struct{})
	c := New(func(ctx context.Context) (string, error) {
		<-release
		return "ok", nil
	}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	done := make(chan string, 1)
	go func() {
		v, _ := c.Get(context.Background())
		done <- v
	}()
	close(release)
	select {
	case v := <-done:
		assert.Equal(t, "ok", v)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller never received the connection")
	}
}

func TestClose(t *testing.T) {
	var closed int32
	c := New(func(ctx context.Context) (string, error) { return "x", nil },
		func(ctx context.Context, v string) error {
			atomic.AddInt32(&closed, 1)
			return nil
		}, 0)

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, int32(0), closed, "close before open is a no-op")

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, int32(1), closed)
	assert.False(t, c.Opened())
}
