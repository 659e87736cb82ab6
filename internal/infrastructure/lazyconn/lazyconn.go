// Package lazyconn holds a process-lifetime connection handle that is opened
// on first use. Concurrent first callers share a single in-flight attempt.
package lazyconn

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// OpenFunc establishes the underlying resource.
type OpenFunc[T any] func(ctx context.Context) (T, error)

// CloseFunc releases a resource returned by OpenFunc.
type CloseFunc[T any] func(ctx context.Context, v T) error

type Conn[T any] struct {
	open    OpenFunc[T]
	close   CloseFunc[T]
	timeout time.Duration

	mu    sync.RWMutex
	val   T
	ready bool

	group singleflight.Group
}

// New returns an unopened handle. timeout bounds a single open attempt;
// zero means no bound beyond the driver's own defaults.
func New[T any](open OpenFunc[T], closeFn CloseFunc[T], timeout time.Duration) *Conn[T] {
	return &Conn[T]{open: open, close: closeFn, timeout: timeout}
}

// Get returns the shared resource, opening it if needed. A failed attempt is
// not remembered; the next caller tries again. ctx only bounds how long this
// caller waits, it does not cancel an attempt other callers depend on.
func (c *Conn[T]) Get(ctx context.Context) (T, error) {
	if v, ok := c.loaded(); ok {
		return v, nil
	}

	ch := c.group.DoChan("open", func() (any, error) {
		if v, ok := c.loaded(); ok {
			return v, nil
		}
		octx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			octx, cancel = context.WithTimeout(octx, c.timeout)
			defer cancel()
		}
		v, err := c.open(octx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.val, c.ready = v, true
		c.mu.Unlock()
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Opened reports whether the resource has been established.
func (c *Conn[T]) Opened() bool {
	_, ok := c.loaded()
	return ok
}

// Close releases the resource if it was ever opened.
func (c *Conn[T]) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return nil
	}
	var zero T
	v := c.val
	c.val, c.ready = zero, false
	if c.close == nil {
		return nil
	}
	return c.close(ctx, v)
}

func (c *Conn[T]) loaded() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val, c.ready
}
