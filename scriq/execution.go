package scriq

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Execution holds the state of one Eval call.
type Execution struct {
	engine      *Engine
	ctx         context.Context
	env         *Env
	args        ArgCache
	quota       int
	memoryQuota int
	steps       int
	stdout      io.Writer
	log         *slog.Logger
}

// flow tags how a statement finished. Any non-normal flow stops the
// enclosing block.
type flow uint8

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
	flowReturn
)

func (f flow) String() string {
	switch f {
	case flowBreak:
		return "break"
	case flowContinue:
		return "continue"
	case flowReturn:
		return "return"
	default:
		return "normal"
	}
}

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", errStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

// run evaluates the root node. A return flow's value becomes the result.
func (exec *Execution) run(root Node) (Value, error) {
	switch n := root.(type) {
	case Statement:
		val, _, err := exec.evalStatement(n)
		return val, err
	case Expression:
		return exec.evalExpression(n)
	default:
		return NewVoid(), fmt.Errorf("unsupported syntax node %T", root)
	}
}

func (exec *Execution) evalStatements(stmts []Statement) (Value, flow, error) {
	result := NewVoid()
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return NewVoid(), flowNormal, err
		}
		val, fl, err := exec.evalStatement(stmt)
		if err != nil {
			return NewVoid(), flowNormal, err
		}
		if fl != flowNormal {
			return val, fl, nil
		}
		result = val
	}
	return result, flowNormal, nil
}

func (exec *Execution) evalStatement(stmt Statement) (Value, flow, error) {
	switch s := stmt.(type) {
	case *Program:
		val, fl, err := exec.evalStatements(s.Statements)
		if err != nil {
			return NewVoid(), flowNormal, err
		}
		if fl == flowBreak || fl == flowContinue {
			exec.log.Debug("stray loop control at top level", "flow", fl.String())
		}
		return val, flowNormal, nil
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr)
		return val, flowNormal, err
	case *AssignStmt:
		val, err := exec.evalAssign(s)
		return val, flowNormal, err
	case *PrintStmt:
		val, err := exec.evalPrint(s)
		return val, flowNormal, err
	case *IfStmt:
		return exec.evalIf(s)
	case *WhileStmt:
		return exec.evalWhile(s)
	case *BreakStmt:
		return NewVoid(), flowBreak, nil
	case *ContinueStmt:
		return NewVoid(), flowContinue, nil
	case *ReturnStmt:
		return exec.evalReturn(s)
	default:
		return NewVoid(), flowNormal, exec.errorAt(stmt.Pos(), FaultTypeMismatch, "unsupported statement %T", stmt)
	}
}

func (exec *Execution) evalExpression(expr Expression) (Value, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		return exec.evalNumber(e)
	case *StringLiteral:
		return NewText(unquoteText(e.Text)), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NullLiteral:
		return NewNull(), nil
	case *Identifier:
		val, ok := exec.env.Get(e.Name)
		if !ok {
			return NewVoid(), exec.errorAt(e.Pos(), FaultUndefinedVariable, "undefined variable %s", e.Name)
		}
		return val, nil
	case *UnaryExpr:
		return exec.evalUnary(e)
	case *BinaryExpr:
		return exec.evalBinary(e)
	case *CallExpr:
		return exec.evalCall(e)
	case *ArrayLiteral:
		return exec.evalItems(e.Items)
	case *IndexExpr:
		return exec.evalIndex(e)
	case *RangeExpr:
		return exec.evalRange(e)
	default:
		return NewVoid(), exec.errorAt(expr.Pos(), FaultTypeMismatch, "unsupported expression %T", expr)
	}
}
