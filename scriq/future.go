package scriq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var errFutureDiscarded = errors.New("future completed without a value")

// Future is a pending Value produced by a host procedure. It completes once;
// later Resolve or Reject calls are ignored. Continuations registered with
// Then or JoinFutures run on the goroutine that completes the future.
type Future struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	value     Value
	err       error
	callbacks []func(Value, error)
}

// NewPendingFuture returns an incomplete future for a host to complete later.
func NewPendingFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// ResolvedFuture returns a future already completed with v.
func ResolvedFuture(v Value) *Future {
	f := NewPendingFuture()
	f.Resolve(v)
	return f
}

// FailedFuture returns a future already completed with err.
func FailedFuture(err error) *Future {
	f := NewPendingFuture()
	f.Reject(err)
	return f
}

// Go runs fn on a new goroutine and returns a future for its result.
// Host procedures use it to hand asynchronous work back to a script.
func Go(ctx context.Context, fn func(ctx context.Context) (Value, error)) *Future {
	f := NewPendingFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Reject(fmt.Errorf("panic in async procedure: %v", r))
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolve completes the future with v. A Future value is flattened: this
// future completes when the inner one does.
func (f *Future) Resolve(v Value) {
	if v.kind == KindFuture {
		inner := v.data.(*Future)
		if inner == f {
			f.Reject(errors.New("future resolved with itself"))
			return
		}
		inner.subscribe(f.complete)
		return
	}
	f.complete(v, nil)
}

// Reject completes the future with err.
func (f *Future) Reject(err error) {
	if err == nil {
		err = errFutureDiscarded
	}
	f.complete(NewVoid(), err)
}

func (f *Future) complete(v Value, err error) {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return
	}
	f.completed = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
}

func (f *Future) subscribe(cb func(Value, error)) {
	f.mu.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	cb(v, err)
}

// Done is closed once the future completes.
func (f *Future) Done() <-chan struct{} { return f.done }

// Result reports the outcome without blocking; ok is false while pending.
func (f *Future) Result() (v Value, ok bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.completed {
		return NewVoid(), false, nil
	}
	return f.value, true, f.err
}

// Await blocks until the future completes or ctx is done.
func (f *Future) Await(ctx context.Context) (Value, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return NewVoid(), ctx.Err()
	}
	v, _, err := f.Result()
	return v, err
}

// AwaitTimeout is Await bounded by d; d <= 0 waits for ctx alone.
func (f *Future) AwaitTimeout(ctx context.Context, d time.Duration) (Value, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return f.Await(ctx)
}

// Then returns a future completing with fn applied to this future's value.
// Failures skip fn and propagate.
func (f *Future) Then(fn func(Value) (Value, error)) *Future {
	out := NewPendingFuture()
	f.subscribe(func(v Value, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		settle(out, fn, v)
	})
	return out
}

// JoinFutures completes once both inputs have completed, applying fn to their
// values. It fails with the first failure observed.
func JoinFutures(left, right *Future, fn func(l, r Value) (Value, error)) *Future {
	out := NewPendingFuture()
	var remaining atomic.Int32
	remaining.Store(2)
	finish := func(_ Value, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		if remaining.Add(-1) != 0 {
			return
		}
		l, _, _ := left.Result()
		r, _, _ := right.Result()
		settle(out, func(Value) (Value, error) { return fn(l, r) }, NewVoid())
	}
	left.subscribe(finish)
	right.subscribe(finish)
	return out
}

func settle(out *Future, fn func(Value) (Value, error), v Value) {
	defer func() {
		if r := recover(); r != nil {
			out.Reject(fmt.Errorf("panic in future continuation: %v", r))
		}
	}()
	res, err := fn(v)
	if err != nil {
		out.Reject(err)
		return
	}
	out.Resolve(res)
}

func (f *Future) String() string {
	v, ok, err := f.Result()
	switch {
	case !ok:
		return "<future pending>"
	case err != nil:
		return fmt.Sprintf("<future failed: %v>", err)
	default:
		return fmt.Sprintf("<future %s>", v.String())
	}
}
