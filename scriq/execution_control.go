package scriq

func (exec *Execution) condition(expr Expression) (bool, error) {
	val, err := exec.evalExpression(expr)
	if err != nil {
		return false, err
	}
	b, err := val.AsBool()
	if err != nil {
		return false, exec.errorAt(expr.Pos(), FaultTypeMismatch, "condition must be bool, got %s", val.kind)
	}
	return b, nil
}

func (exec *Execution) evalIf(stmt *IfStmt) (Value, flow, error) {
	for _, clause := range stmt.Clauses {
		ok, err := exec.condition(clause.Condition)
		if err != nil {
			return NewVoid(), flowNormal, err
		}
		if ok {
			return exec.evalBlock(clause.Body)
		}
	}
	if stmt.Else != nil {
		return exec.evalBlock(stmt.Else)
	}
	return NewVoid(), flowNormal, nil
}

// evalBlock runs a nested block. Normal completion yields Void; other flows
// carry their value outward.
func (exec *Execution) evalBlock(stmts []Statement) (Value, flow, error) {
	val, fl, err := exec.evalStatements(stmts)
	if err != nil || fl != flowNormal {
		return val, fl, err
	}
	return NewVoid(), flowNormal, nil
}

func (exec *Execution) evalWhile(stmt *WhileStmt) (Value, flow, error) {
	for {
		if err := exec.step(); err != nil {
			return NewVoid(), flowNormal, err
		}
		ok, err := exec.condition(stmt.Condition)
		if err != nil {
			return NewVoid(), flowNormal, err
		}
		if !ok {
			return NewVoid(), flowNormal, nil
		}
		val, fl, err := exec.evalStatements(stmt.Body)
		if err != nil {
			return NewVoid(), flowNormal, err
		}
		switch fl {
		case flowBreak:
			return NewVoid(), flowNormal, nil
		case flowReturn:
			return val, flowReturn, nil
		}
	}
}

func (exec *Execution) evalReturn(stmt *ReturnStmt) (Value, flow, error) {
	if stmt.Value == nil {
		return NewNull(), flowReturn, nil
	}
	val, err := exec.evalExpression(stmt.Value)
	if err != nil {
		return NewVoid(), flowNormal, err
	}
	return val, flowReturn, nil
}
