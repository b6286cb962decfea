package scriq

func (exec *Execution) evalUnary(expr *UnaryExpr) (Value, error) {
	val, err := exec.evalExpression(expr.Operand)
	if err != nil {
		return NewVoid(), err
	}
	switch expr.Operator {
	case OpNeg:
		switch val.kind {
		case KindNumber:
			return NewNumber(-val.data.(float64)), nil
		case KindFuture:
			return NewFuture(val.data.(*Future).Then(negate)), nil
		}
		return NewVoid(), exec.errorAt(expr.Pos(), FaultTypeMismatch, "unary - needs a number, got %s", val.kind)
	case OpNot:
		b, err := val.AsBool()
		if err != nil {
			return NewVoid(), exec.errorAt(expr.Pos(), FaultTypeMismatch, "not needs a bool, got %s", val.kind)
		}
		return NewBool(!b), nil
	default:
		return NewVoid(), exec.errorAt(expr.Pos(), FaultUnsupportedOperator, "unknown unary operator %q", expr.Operator)
	}
}

func negate(v Value) (Value, error) {
	f, err := v.AsNumber()
	if err != nil {
		return NewVoid(), err
	}
	return NewNumber(-f), nil
}

// evalBinary evaluates both operands, left first. Arithmetic over a pending
// operand yields a Future that applies the operator once the inputs resolve.
func (exec *Execution) evalBinary(expr *BinaryExpr) (Value, error) {
	left, err := exec.evalExpression(expr.Left)
	if err != nil {
		return NewVoid(), err
	}
	right, err := exec.evalExpression(expr.Right)
	if err != nil {
		return NewVoid(), err
	}
	op := expr.Operator
	pos := expr.OpSpan.Start
	if pos.Line == 0 {
		pos = expr.Pos()
	}

	if left.kind == KindFuture || right.kind == KindFuture {
		if _, ok := asyncOperators[op]; !ok {
			return NewVoid(), exec.errorAt(pos, FaultTypeMismatch, "'%s' does not accept a pending future operand", op)
		}
		return exec.composeFuture(op, left, right, pos), nil
	}

	out, err := ApplyOperator(op, left, right)
	if err != nil {
		return NewVoid(), exec.wrapError(err, pos)
	}
	return out, nil
}

func (exec *Execution) composeFuture(op string, left, right Value, pos Position) Value {
	apply := func(l, r Value) (Value, error) {
		out, err := ApplyOperator(op, l, r)
		if err != nil {
			return NewVoid(), exec.wrapError(err, pos)
		}
		return out, nil
	}
	switch {
	case left.kind == KindFuture && right.kind == KindFuture:
		return NewFuture(JoinFutures(left.data.(*Future), right.data.(*Future), apply))
	case left.kind == KindFuture:
		return NewFuture(left.data.(*Future).Then(func(l Value) (Value, error) {
			return apply(l, right)
		}))
	default:
		return NewFuture(right.data.(*Future).Then(func(r Value) (Value, error) {
			return apply(left, r)
		}))
	}
}
