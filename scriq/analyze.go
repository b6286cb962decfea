package scriq

import (
	"cmp"
	"fmt"
	"slices"
)

// Warning is a static finding about a syntax tree.
type Warning struct {
	Pos     Position
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%d:%d: %s", w.Pos.Line, w.Pos.Column, w.Message)
}

// AnalyzeOptions supplies what the tree may rely on from its host.
type AnalyzeOptions struct {
	// Globals are names bound in the environment before evaluation.
	Globals []string
	// HasProcedure resolves calls; nil skips the procedure check.
	HasProcedure func(name string, arity int) bool
}

// Analyze lints a tree without evaluating it. Findings are ordered by
// position.
func Analyze(root Node, opts AnalyzeOptions) []Warning {
	a := &analyzer{
		assigned: make(map[string]struct{}),
		opts:     opts,
	}
	for _, name := range opts.Globals {
		a.assigned[name] = struct{}{}
	}
	Walk(root, func(n Node) bool {
		if as, ok := n.(*AssignStmt); ok {
			a.assigned[as.Name] = struct{}{}
		}
		return true
	})

	switch v := root.(type) {
	case *Program:
		a.block(v.Statements, 0)
	case Statement:
		a.block([]Statement{v}, 0)
	case Expression:
		a.expr(v)
	}

	slices.SortStableFunc(a.warnings, func(x, y Warning) int {
		if c := cmp.Compare(x.Pos.Line, y.Pos.Line); c != 0 {
			return c
		}
		return cmp.Compare(x.Pos.Column, y.Pos.Column)
	})
	return a.warnings
}

// Analyze lints root against the engine's registered procedures.
func (e *Engine) Analyze(root Node, globals ...string) []Warning {
	return Analyze(root, AnalyzeOptions{Globals: globals, HasProcedure: e.HasProcedure})
}

type analyzer struct {
	assigned map[string]struct{}
	opts     AnalyzeOptions
	warnings []Warning
}

func (a *analyzer) warn(pos Position, format string, args ...any) {
	a.warnings = append(a.warnings, Warning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// block lints stmts and reports whether control never falls off its end.
func (a *analyzer) block(stmts []Statement, loops int) bool {
	terminated := false
	for _, stmt := range stmts {
		if terminated {
			a.warn(stmt.Pos(), "unreachable statement")
			continue
		}
		if a.statement(stmt, loops) {
			terminated = true
		}
	}
	return terminated
}

func (a *analyzer) statement(stmt Statement, loops int) bool {
	switch s := stmt.(type) {
	case *Program:
		return a.block(s.Statements, loops)
	case *ReturnStmt:
		if s.Value != nil {
			a.expr(s.Value)
		}
		return true
	case *BreakStmt:
		if loops == 0 {
			a.warn(s.Pos(), "break outside a loop")
		}
		return true
	case *ContinueStmt:
		if loops == 0 {
			a.warn(s.Pos(), "continue outside a loop")
		}
		return true
	case *IfStmt:
		all := true
		for _, clause := range s.Clauses {
			a.expr(clause.Condition)
			if !a.block(clause.Body, loops) {
				all = false
			}
		}
		if s.Else == nil {
			return false
		}
		return a.block(s.Else, loops) && all
	case *WhileStmt:
		a.expr(s.Condition)
		a.block(s.Body, loops+1)
		return false
	case *AssignStmt:
		if IsReservedName(s.Name) {
			a.warn(s.Pos(), "cannot assign to reserved name %q", s.Name)
		}
		a.expr(s.Value)
	case *ExprStmt:
		a.expr(s.Expr)
	case *PrintStmt:
		a.expr(s.Value)
	}
	return false
}

func (a *analyzer) expr(root Expression) {
	Walk(root, func(n Node) bool {
		switch e := n.(type) {
		case *Identifier:
			a.read(e.Name, e.Pos())
		case *IndexExpr:
			a.read(e.Name, e.Pos())
		case *CallExpr:
			if a.opts.HasProcedure != nil && !a.opts.HasProcedure(e.Name, len(e.Args)) {
				a.warn(e.Pos(), "call to undefined procedure %s/%d", e.Name, len(e.Args))
			}
		}
		return true
	})
}

func (a *analyzer) read(name string, pos Position) {
	if _, ok := a.assigned[name]; !ok {
		a.warn(pos, "%s is never assigned", name)
	}
}
