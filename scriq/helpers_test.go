package scriq

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func num(text string) *NumberLiteral { return &NumberLiteral{Text: text} }
func str(raw string) *StringLiteral  { return &StringLiteral{Text: raw} }
func boolean(b bool) *BoolLiteral    { return &BoolLiteral{Value: b} }
func ident(name string) *Identifier  { return &Identifier{Name: name} }

func bin(op string, left, right Expression) *BinaryExpr {
	return &BinaryExpr{Operator: op, Left: left, Right: right}
}

func assign(name string, value Expression) *AssignStmt {
	return &AssignStmt{Name: name, Value: value}
}

func exprStmt(e Expression) *ExprStmt { return &ExprStmt{Expr: e} }

func call(offset int, name string, args ...Expression) *CallExpr {
	return &CallExpr{Span: Span{Offset: offset, Start: Position{Line: 1, Column: offset + 1}}, Name: name, Args: args}
}

func list(items ...Expression) *ArrayLiteral { return &ArrayLiteral{Items: items} }

func index(name string, items ...Expression) *IndexExpr {
	return &IndexExpr{Name: name, Items: items}
}

func slice(start, end Expression) *RangeExpr { return &RangeExpr{Start: start, End: end} }

func ifStmt(cond Expression, body ...Statement) *IfStmt {
	return &IfStmt{Clauses: []*IfClause{{Condition: cond, Body: body}}}
}

func while(cond Expression, body ...Statement) *WhileStmt {
	return &WhileStmt{Condition: cond, Body: body}
}

func ret(e Expression) *ReturnStmt { return &ReturnStmt{Value: e} }

func program(stmts ...Statement) *Program { return &Program{Statements: stmts} }

func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	engine, err := NewEngine(Config{Stdout: &out})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, &out
}

func evalProgram(t *testing.T, engine *Engine, env *Env, root Node) Value {
	t.Helper()
	result, err := engine.Eval(context.Background(), root, env, EvalOptions{})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	return result
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := ErrorKindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

func requireNumber(t *testing.T, v Value, want float64) {
	t.Helper()
	got, err := v.AsNumber()
	if err != nil {
		t.Fatalf("expected number %v, got %s %q", want, v.Kind(), v.String())
	}
	if !numbersEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func mustArray(t *testing.T, shape []int, data ...float64) *NDArray {
	t.Helper()
	arr, err := NewNDArray(shape, data)
	if err != nil {
		t.Fatalf("new array: %v", err)
	}
	return arr
}

var errHostBoom = errors.New("boom")
