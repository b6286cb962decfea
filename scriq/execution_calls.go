package scriq

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// ArgCache maps a call site's source offset to its evaluated arguments.
// Entries present before evaluation are used instead of evaluating the
// argument expressions; calls without an entry record theirs. A call site
// inside a loop therefore reuses its first arguments on every iteration.
// Calls without a source span have no identity and are never cached.
type ArgCache map[int][]Value

// Lookup returns the cached arguments for the call site at offset.
func (c ArgCache) Lookup(offset int) ([]Value, bool) {
	args, ok := c[offset]
	return args, ok
}

// Preset stores arguments for the call site at offset.
func (c ArgCache) Preset(offset int, args ...Value) {
	c[offset] = slices.Clone(args)
}

func (exec *Execution) evalCall(call *CallExpr) (Value, error) {
	proc, ok := exec.engine.lookupProcedure(call.Name, len(call.Args))
	if !ok {
		return NewVoid(), exec.errorAt(call.Pos(), FaultUndefinedProcedure, "undefined procedure %s/%d", call.Name, len(call.Args))
	}
	args, cached, err := exec.callArgs(call)
	if err != nil {
		return NewVoid(), err
	}
	exec.log.Debug("call", "procedure", proc.Signature(), "offset", call.Offset, "cached", cached)

	result, err := exec.invoke(proc, args)
	if err != nil {
		if isHostControlSignal(err) {
			return NewVoid(), err
		}
		return NewVoid(), &RuntimeError{
			Kind:    FaultHostProcedureFailure,
			Message: fmt.Sprintf("%s failed: %v", proc.Signature(), err),
			Pos:     call.Pos(),
			Err:     err,
		}
	}
	if err := validHostReturn(result); err != nil {
		return NewVoid(), exec.errorAt(call.Pos(), FaultInvalidHostReturn, "%s returned %v", proc.Signature(), err)
	}
	return result, nil
}

func (exec *Execution) callArgs(call *CallExpr) ([]Value, bool, error) {
	cacheable := exec.args != nil && call.Span != (Span{})
	if cacheable {
		if args, ok := exec.args.Lookup(call.Offset); ok {
			if len(args) != len(call.Args) {
				return nil, false, exec.errorAt(call.Pos(), FaultTypeMismatch, "cached arguments for %s have %d values, call takes %d", call.Name, len(args), len(call.Args))
			}
			return slices.Clone(args), true, nil
		}
	}
	args := make([]Value, 0, len(call.Args))
	for _, expr := range call.Args {
		val, err := exec.evalExpression(expr)
		if err != nil {
			return nil, false, err
		}
		args = append(args, val)
	}
	if cacheable {
		exec.args[call.Offset] = slices.Clone(args)
	}
	return args, false, nil
}

// invoke calls the host function, converting a panic into an error.
func (exec *Execution) invoke(proc Procedure, args []Value) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = NewVoid()
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return proc.Fn(exec.ctx, args)
}

var errNilFuture = errors.New("a nil future")

func validHostReturn(v Value) error {
	switch v.kind {
	case KindNull, KindBool, KindNumber, KindText, KindArray:
		return nil
	case KindFuture:
		if v.data.(*Future) == nil {
			return errNilFuture
		}
		return nil
	default:
		return fmt.Errorf("a %s value", v.kind)
	}
}

// await blocks on a Future result, bounded by the configured timeout.
func (exec *Execution) await(f *Future, pos Position) (Value, error) {
	started := time.Now()
	val, err := f.AwaitTimeout(exec.ctx, exec.engine.config.AwaitTimeout)
	exec.log.Debug("await", "elapsed", time.Since(started), "failed", err != nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			if exec.ctx.Err() == nil {
				return NewVoid(), fmt.Errorf("future not resolved within %s: %w", exec.engine.config.AwaitTimeout, err)
			}
			return NewVoid(), err
		}
		return NewVoid(), &RuntimeError{Kind: FaultAsyncFailure, Message: err.Error(), Pos: pos, Err: err}
	}
	return val, nil
}
