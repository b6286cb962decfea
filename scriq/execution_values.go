package scriq

import (
	"fmt"
	"strconv"
	"strings"
)

func (exec *Execution) evalNumber(lit *NumberLiteral) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(lit.Text), 64)
	if err != nil {
		return NewVoid(), exec.errorAt(lit.Pos(), FaultTypeMismatch, "invalid number literal %q", lit.Text)
	}
	return NewNumber(f), nil
}

// unquoteText strips the surrounding quote characters and collapses doubled
// inner quotes: "say ""hi""" becomes say "hi".
func unquoteText(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return raw
	}
	q := string(quote)
	return strings.ReplaceAll(raw[1:len(raw)-1], q+q, q)
}

// quoteText is the inverse of unquoteText.
func quoteText(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// evalItems evaluates a bracketed list into a Tuple.
func (exec *Execution) evalItems(items []Expression) (Value, error) {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		val, err := exec.evalExpression(item)
		if err != nil {
			return NewVoid(), err
		}
		out = append(out, val)
	}
	return NewTuple(out), nil
}

func (exec *Execution) evalRange(expr *RangeExpr) (Value, error) {
	bound := func(e Expression, fallback int) (int, error) {
		if e == nil {
			return fallback, nil
		}
		val, err := exec.evalExpression(e)
		if err != nil {
			return 0, err
		}
		f, err := val.AsNumber()
		if err != nil {
			return 0, exec.errorAt(e.Pos(), FaultTypeMismatch, "slice bound must be a number, got %s", val.kind)
		}
		if f != float64(int(f)) {
			return 0, exec.errorAt(e.Pos(), FaultIndexOutOfRange, "slice bound %s is not an integer", formatNumber(f))
		}
		return int(f), nil
	}
	start, err := bound(expr.Start, 0)
	if err != nil {
		return NewVoid(), err
	}
	end, err := bound(expr.End, -1)
	if err != nil {
		return NewVoid(), err
	}
	return NewRange(Range{Start: start, End: end}), nil
}

func (exec *Execution) evalIndex(expr *IndexExpr) (Value, error) {
	target, ok := exec.env.Get(expr.Name)
	if !ok {
		return NewVoid(), exec.errorAt(expr.Pos(), FaultUndefinedVariable, "undefined variable %s", expr.Name)
	}
	arr, err := target.AsArray()
	if err != nil {
		return NewVoid(), exec.errorAt(expr.Pos(), FaultTypeMismatch, "%s is %s, not an array", expr.Name, target.kind)
	}
	trailer := make([]Value, 0, len(expr.Items))
	for _, item := range expr.Items {
		val, err := exec.evalExpression(item)
		if err != nil {
			return NewVoid(), err
		}
		trailer = append(trailer, val)
	}
	out, err := arr.Index(trailer)
	if err != nil {
		return NewVoid(), exec.wrapError(err, expr.Pos())
	}
	return out, nil
}

// storable converts a value to the form held by a variable: tuples become arrays.
func storable(val Value) (Value, error) {
	if val.kind != KindTuple {
		return val, nil
	}
	arr, err := NDArrayFromNested(val.data.([]Value))
	if err != nil {
		return NewVoid(), err
	}
	return NewArray(arr), nil
}

func (exec *Execution) evalAssign(stmt *AssignStmt) (Value, error) {
	if IsReservedName(stmt.Name) {
		return NewVoid(), exec.errorAt(stmt.Pos(), FaultTypeMismatch, "cannot assign to reserved name %q", stmt.Name)
	}
	val, err := exec.evalExpression(stmt.Value)
	if err != nil {
		return NewVoid(), err
	}
	if val.kind == KindVoid || val.kind == KindRange {
		return NewVoid(), exec.errorAt(stmt.Pos(), FaultTypeMismatch, "cannot assign %s to %s", val.kind, stmt.Name)
	}
	val, err = storable(val)
	if err != nil {
		return NewVoid(), exec.wrapError(err, stmt.Value.Pos())
	}
	if err := exec.env.Set(stmt.Name, val); err != nil {
		return NewVoid(), exec.wrapError(err, stmt.Pos())
	}
	if err := exec.checkMemory(); err != nil {
		return NewVoid(), err
	}
	return val, nil
}

func (exec *Execution) evalPrint(stmt *PrintStmt) (Value, error) {
	val, err := exec.evalExpression(stmt.Value)
	if err != nil {
		return NewVoid(), err
	}
	if _, err := fmt.Fprintln(exec.stdout, val.String()); err != nil {
		return NewVoid(), exec.errorAt(stmt.Pos(), FaultHostProcedureFailure, "print: %v", err)
	}
	return val, nil
}
