package scriq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func defaultProcedures() []Procedure {
	return []Procedure{
		{Name: "assert", Arity: 1, Fn: builtinAssert},
		{Name: "assert", Arity: 2, Fn: builtinAssert},
		{Name: "len", Arity: 1, Fn: builtinLen},
		{Name: "shape", Arity: 1, Fn: builtinShape},
		{Name: "sum", Arity: 1, Fn: builtinSum},
		{Name: "uuid", Arity: 0, Fn: builtinUUID},
		{Name: "now", Arity: 0, Fn: builtinNow},
		{Name: "delay", Arity: 2, Fn: builtinDelay},
	}
}

func builtinAssert(ctx context.Context, args []Value) (Value, error) {
	ok, err := args[0].AsBool()
	if err != nil {
		return NewVoid(), fmt.Errorf("assert expects a bool condition, got %s", args[0].Kind())
	}
	if ok {
		return NewBool(true), nil
	}
	if len(args) > 1 {
		return NewVoid(), fmt.Errorf("assertion failed: %s", args[1].String())
	}
	return NewVoid(), fmt.Errorf("assertion failed")
}

func builtinLen(ctx context.Context, args []Value) (Value, error) {
	if text, err := args[0].AsText(); err == nil {
		return NewNumber(float64(len([]rune(text)))), nil
	}
	arr, err := arrayArg(args[0])
	if err != nil {
		return NewVoid(), fmt.Errorf("len expects text or an array, got %s", args[0].Kind())
	}
	return NewNumber(float64(arr.shape[0])), nil
}

// arrayArg accepts an Array or a Tuple of numbers.
func arrayArg(v Value) (*NDArray, error) {
	v, err := storable(v)
	if err != nil {
		return nil, err
	}
	return v.AsArray()
}

func builtinShape(ctx context.Context, args []Value) (Value, error) {
	arr, err := arrayArg(args[0])
	if err != nil {
		return NewVoid(), fmt.Errorf("shape expects an array, got %s", args[0].Kind())
	}
	shape := arr.Shape()
	data := make([]float64, len(shape))
	for i, extent := range shape {
		data[i] = float64(extent)
	}
	out, err := NewNDArray([]int{len(shape)}, data)
	if err != nil {
		return NewVoid(), err
	}
	return NewArray(out), nil
}

func builtinSum(ctx context.Context, args []Value) (Value, error) {
	arr, err := arrayArg(args[0])
	if err != nil {
		return NewVoid(), fmt.Errorf("sum expects an array, got %s", args[0].Kind())
	}
	return NewNumber(arr.Sum()), nil
}

func builtinUUID(ctx context.Context, args []Value) (Value, error) {
	return NewText(uuid.NewString()), nil
}

// builtinNow returns the current time as Unix milliseconds.
func builtinNow(ctx context.Context, args []Value) (Value, error) {
	return NewNumber(float64(time.Now().UnixMilli())), nil
}

// builtinDelay returns a Future that resolves to args[1] after args[0] ms.
func builtinDelay(ctx context.Context, args []Value) (Value, error) {
	ms, err := args[0].AsNumber()
	if err != nil || ms < 0 {
		return NewVoid(), fmt.Errorf("delay expects a non-negative millisecond count, got %s", args[0].String())
	}
	val, err := storable(args[1])
	if err != nil {
		return NewVoid(), err
	}
	d := time.Duration(ms * float64(time.Millisecond))
	return NewFuture(Go(ctx, func(ctx context.Context) (Value, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return val, nil
		case <-ctx.Done():
			return NewVoid(), ctx.Err()
		}
	})), nil
}
