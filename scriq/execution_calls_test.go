package scriq

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallResolvesByNameAndArity(t *testing.T) {
	engine, _ := newTestEngine(t)
	err := engine.RegisterFunc("pick", 2, func(ctx context.Context, args []Value) (Value, error) {
		return args[1], nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got := evalProgram(t, engine, nil, call(0, "pick", num("1"), num("2")))
	requireNumber(t, got, 2)

	_, err = engine.Eval(context.Background(), call(0, "pick", num("1")), nil, EvalOptions{})
	requireKind(t, err, FaultUndefinedProcedure)
	if !errors.Is(err, ErrUndefinedProcedure) {
		t.Fatalf("expected sentinel match, got %v", err)
	}
}

func TestRegisterValidates(t *testing.T) {
	engine, _ := newTestEngine(t)
	bad := []Procedure{
		{Name: "", Arity: 0, Fn: builtinUUID},
		{Name: "return", Arity: 0, Fn: builtinUUID},
		{Name: "x", Arity: -1, Fn: builtinUUID},
		{Name: "x", Arity: 0},
	}
	for _, p := range bad {
		if err := engine.Register(p); err == nil {
			t.Fatalf("expected %+v to be rejected", p.Signature())
		}
	}
}

type mathProvider struct{}

func (mathProvider) Procedures() []Procedure {
	return []Procedure{{Name: "twice", Arity: 1, Fn: func(ctx context.Context, args []Value) (Value, error) {
		return ApplyOperator(OpMul, args[0], NewNumber(2))
	}}}
}

func TestUseProvider(t *testing.T) {
	engine, _ := newTestEngine(t)
	if err := engine.Use(mathProvider{}); err != nil {
		t.Fatalf("use: %v", err)
	}
	if !engine.HasProcedure("twice", 1) {
		t.Fatalf("expected twice/1 to be registered")
	}
	requireNumber(t, evalProgram(t, engine, nil, call(0, "twice", num("21"))), 42)

	procs := engine.Procedures()
	for i := 1; i < len(procs); i++ {
		if procs[i-1].Name > procs[i].Name {
			t.Fatalf("procedures not sorted: %s before %s", procs[i-1].Name, procs[i].Name)
		}
	}
}

func TestInvalidHostReturn(t *testing.T) {
	engine, _ := newTestEngine(t)
	returns := map[string]Value{
		"void":   NewVoid(),
		"tuple":  NewNumbers(1, 2),
		"range":  NewRange(Range{0, 1}),
		"nilfut": NewFuture(nil),
	}
	for name, v := range returns {
		if err := engine.RegisterFunc(name, 0, func(ctx context.Context, args []Value) (Value, error) {
			return v, nil
		}); err != nil {
			t.Fatalf("register: %v", err)
		}
		_, err := engine.Eval(context.Background(), call(0, name), nil, EvalOptions{})
		requireKind(t, err, FaultInvalidHostReturn)
	}
}

func TestHostFailureWrapsCause(t *testing.T) {
	engine, _ := newTestEngine(t)
	_ = engine.RegisterFunc("fail", 0, func(ctx context.Context, args []Value) (Value, error) {
		return NewVoid(), errHostBoom
	})
	_ = engine.RegisterFunc("explode", 0, func(ctx context.Context, args []Value) (Value, error) {
		panic("kaboom")
	})

	_, err := engine.Eval(context.Background(), call(0, "fail"), nil, EvalOptions{})
	requireKind(t, err, FaultHostProcedureFailure)
	if !errors.Is(err, errHostBoom) {
		t.Fatalf("expected cause to unwrap, got %v", err)
	}

	_, err = engine.Eval(context.Background(), call(0, "explode"), nil, EvalOptions{})
	requireKind(t, err, FaultHostProcedureFailure)
}

func TestArgCacheRecordsAndReuses(t *testing.T) {
	engine, _ := newTestEngine(t)
	var seen []float64
	_ = engine.RegisterFunc("record", 1, func(ctx context.Context, args []Value) (Value, error) {
		f, _ := args[0].AsNumber()
		seen = append(seen, f)
		return args[0], nil
	})
	root := program(
		assign("i", num("0")),
		while(bin(OpLT, ident("i"), num("3")),
			assign("i", bin(OpAdd, ident("i"), num("1"))),
			exprStmt(call(42, "record", ident("i"))),
		),
	)

	cache := ArgCache{}
	if _, err := engine.Eval(context.Background(), root, nil, EvalOptions{Args: cache}); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 1 || seen[2] != 1 {
		t.Fatalf("expected the first arguments to be reused, got %v", seen)
	}
	recorded, ok := cache.Lookup(42)
	if !ok || len(recorded) != 1 {
		t.Fatalf("expected recorded arguments, got %v", recorded)
	}
	requireNumber(t, recorded[0], 1)

	seen = nil
	if _, err := engine.Eval(context.Background(), root, nil, EvalOptions{}); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Fatalf("without a cache arguments are evaluated each time, got %v", seen)
	}
}

func TestArgCachePreset(t *testing.T) {
	engine, _ := newTestEngine(t)
	cache := ArgCache{}
	cache.Preset(7, NewNumber(99))
	_, err := engine.Eval(context.Background(), call(7, "sum", ident("unbound")), nil, EvalOptions{Args: cache})
	requireKind(t, err, FaultHostProcedureFailure)

	_ = engine.RegisterFunc("echo", 1, func(ctx context.Context, args []Value) (Value, error) { return args[0], nil })
	got, err := engine.Eval(context.Background(), call(7, "echo", ident("unbound")), nil, EvalOptions{Args: cache})
	if err != nil {
		t.Fatalf("preset arguments should skip evaluation: %v", err)
	}
	requireNumber(t, got, 99)
}

func TestArgCacheSkipsCallsWithoutSpan(t *testing.T) {
	engine, _ := newTestEngine(t)
	root := program(
		assign("x", list(num("1"), num("2"))),
		assign("a", &CallExpr{Name: "len", Args: []Expression{ident("x")}}),
		assign("b", &CallExpr{Name: "len", Args: []Expression{str(`"hello"`)}}),
		ret(bin(OpAdd, ident("a"), ident("b"))),
	)

	cache := ArgCache{}
	got, err := engine.Eval(context.Background(), root, nil, EvalOptions{Args: cache})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	requireNumber(t, got, 7)
	if len(cache) != 0 {
		t.Fatalf("calls without a span should not be recorded, got %v", cache)
	}
}

func TestFutureComposition(t *testing.T) {
	engine, _ := newTestEngine(t)
	a := NewPendingFuture()
	b := NewPendingFuture()
	_ = engine.RegisterFunc("a", 0, func(ctx context.Context, args []Value) (Value, error) { return NewFuture(a), nil })
	_ = engine.RegisterFunc("b", 0, func(ctx context.Context, args []Value) (Value, error) { return NewFuture(b), nil })

	got, err := engine.EvalAsync(context.Background(), bin(OpAdd, call(0, "a"), call(4, "b")), nil, nil)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	f, err := got.AsFuture()
	if err != nil {
		t.Fatalf("expected a pending future, got %s", got.Kind())
	}
	b.Resolve(NewNumber(4))
	a.Resolve(NewNumber(3))
	sum, err := f.Await(context.Background())
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	requireNumber(t, sum, 7)
}

func TestFutureWithImmediateOperand(t *testing.T) {
	engine, _ := newTestEngine(t)
	pending := NewPendingFuture()
	_ = engine.RegisterFunc("later", 0, func(ctx context.Context, args []Value) (Value, error) {
		return NewFuture(pending), nil
	})
	root := bin(OpSub, num("10"), call(0, "later"))

	got, err := engine.EvalAsync(context.Background(), root, nil, nil)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !got.IsFuture() {
		t.Fatalf("expected future, got %s", got.Kind())
	}
	go func() {
		time.Sleep(5 * time.Millisecond)
		pending.Resolve(NewNumber(4))
	}()
	f, _ := got.AsFuture()
	v, err := f.AwaitTimeout(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	requireNumber(t, v, 6)
}

func TestSyncEvalAwaitsFuture(t *testing.T) {
	engine, _ := newTestEngine(t)
	got := evalProgram(t, engine, nil, bin(OpMul, call(0, "delay", num("5"), num("6")), num("7")))
	requireNumber(t, got, 42)
}

func TestSyncEvalSurfacesAsyncFailure(t *testing.T) {
	engine, _ := newTestEngine(t)
	_ = engine.RegisterFunc("broken", 0, func(ctx context.Context, args []Value) (Value, error) {
		return NewFuture(FailedFuture(errHostBoom)), nil
	})
	_, err := engine.Eval(context.Background(), bin(OpAdd, call(0, "broken"), num("1")), nil, EvalOptions{})
	requireKind(t, err, FaultAsyncFailure)
	if !errors.Is(err, errHostBoom) {
		t.Fatalf("expected cause, got %v", err)
	}

	_, err = engine.Eval(context.Background(), bin(OpSub, call(0, "delay", num("1"), str(`"x"`)), num("1")), nil, EvalOptions{})
	requireKind(t, err, FaultAsyncFailure)
	if !errors.Is(err, ErrUnsupportedOperator) {
		t.Fatalf("expected composed operator fault, got %v", err)
	}
}

func TestAwaitTimeoutConfig(t *testing.T) {
	engine, err := NewEngine(Config{AwaitTimeout: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	_ = engine.RegisterFunc("never", 0, func(ctx context.Context, args []Value) (Value, error) {
		return NewFuture(NewPendingFuture()), nil
	})
	_, err = engine.Eval(context.Background(), call(0, "never"), nil, EvalOptions{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestComparisonRejectsFutures(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Eval(context.Background(), bin(OpLT, call(0, "delay", num("1"), num("1")), num("2")), nil, EvalOptions{})
	requireKind(t, err, FaultTypeMismatch)
}

func TestDefaultProcedures(t *testing.T) {
	engine, _ := newTestEngine(t)
	env := NewEnv()
	evalProgram(t, engine, env, assign("m", list(list(num("1"), num("2"), num("3")), list(num("4"), num("5"), num("6")))))

	requireNumber(t, evalProgram(t, engine, env, call(0, "len", ident("m"))), 2)
	requireNumber(t, evalProgram(t, engine, env, call(0, "sum", ident("m"))), 21)
	if got := evalProgram(t, engine, env, call(0, "shape", ident("m"))); got.String() != "[2.0, 3.0]" {
		t.Fatalf("unexpected shape %s", got)
	}
	if got := evalProgram(t, engine, env, call(0, "uuid")); len(got.String()) != 36 {
		t.Fatalf("unexpected uuid %q", got.String())
	}
	if got := evalProgram(t, engine, env, call(0, "now")); got.Kind() != KindNumber {
		t.Fatalf("now should be a number, got %s", got.Kind())
	}
	evalProgram(t, engine, env, call(0, "assert", boolean(true)))

	requireNumber(t, evalProgram(t, engine, env, call(0, "sum", list(num("1"), num("2")))), 3)
	requireNumber(t, evalProgram(t, engine, env, call(0, "len", list(num("4"), num("5"), num("6")))), 3)
	requireNumber(t, evalProgram(t, engine, env, call(0, "len", list())), 0)
	if got := evalProgram(t, engine, env, call(0, "shape", list(list(num("1")), list(num("2"))))); got.String() != "[2.0, 1.0]" {
		t.Fatalf("unexpected shape of a literal %s", got)
	}
	_, err := engine.Eval(context.Background(), call(0, "sum", list(list(num("1")), num("2"))), env, EvalOptions{})
	requireKind(t, err, FaultHostProcedureFailure)

	_, err = engine.Eval(context.Background(), call(0, "assert", boolean(false), str(`"nope"`)), env, EvalOptions{})
	requireKind(t, err, FaultHostProcedureFailure)
}
