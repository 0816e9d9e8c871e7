// Package asyncrt implements the two-lane scheduler the rest of the
// runtime is built on: a bounded worker pool for CPU-bound decoding, and a
// cooperative "main" lane whose queued continuations only run when the
// embedding application calls Pump. It mirrors the worker-pool shape of
// the teacher's block mesher (a fixed set of goroutines draining one
// shared task channel, each guarded against panics) but generalises the
// single-purpose mesh queue into a general Future[T] with composition.
package asyncrt

import "sync"

// Lane identifies which scheduler a continuation runs on.
type Lane int

const (
	// LaneWorker runs on the bounded worker pool.
	LaneWorker Lane = iota
	// LaneMain runs only when Pump is called.
	LaneMain
)

// Future is a handle over a value that will eventually be produced on a
// designated lane. It settles exactly once; subsequent settles are no-ops.
type Future[T any] struct {
	mu       sync.Mutex
	done     bool
	val      T
	err      error
	watchers []func(T, error)
}

// NewFuture returns an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{}
}

// Resolved returns an already-settled future carrying v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: true, val: v}
	return f
}

// Rejected returns an already-settled future carrying err.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{done: true, err: err}
	return f
}

// Settle resolves the future with (v, err), notifying any watchers
// registered before settlement. Safe to call from any goroutine. Only the
// first call has any effect.
func (f *Future[T]) Settle(v T, err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.val = v
	f.err = err
	watchers := f.watchers
	f.watchers = nil
	f.mu.Unlock()

	for _, w := range watchers {
		w(v, err)
	}
}

// watch registers a callback to run once the future settles. If it has
// already settled, the callback runs immediately on the calling goroutine.
func (f *Future[T]) watch(cb func(T, error)) {
	f.mu.Lock()
	if f.done {
		v, err := f.val, f.err
		f.mu.Unlock()
		cb(v, err)
		return
	}
	f.watchers = append(f.watchers, cb)
	f.mu.Unlock()
}

// Wait blocks the calling goroutine until the future settles and returns
// its value. Intended for tests and synchronous call sites; runtime code
// should prefer composition (ThenInWorker/ThenInMain/ThenImmediate).
func (f *Future[T]) Wait() (T, error) {
	done := make(chan struct{})
	var v T
	var err error
	f.watch(func(vv T, ee error) {
		v, err = vv, ee
		close(done)
	})
	<-done
	return v, err
}
