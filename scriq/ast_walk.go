package scriq

// Children lists the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	addStmts := func(stmts []Statement) {
		for _, s := range stmts {
			out = append(out, s)
		}
	}
	addExprs := func(exprs ...Expression) {
		for _, e := range exprs {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	switch v := n.(type) {
	case *Program:
		addStmts(v.Statements)
	case *AssignStmt:
		addExprs(v.Value)
	case *ExprStmt:
		addExprs(v.Expr)
	case *IfStmt:
		for _, c := range v.Clauses {
			out = append(out, c)
		}
		addStmts(v.Else)
	case *IfClause:
		addExprs(v.Condition)
		addStmts(v.Body)
	case *WhileStmt:
		addExprs(v.Condition)
		addStmts(v.Body)
	case *ReturnStmt:
		addExprs(v.Value)
	case *PrintStmt:
		addExprs(v.Value)
	case *UnaryExpr:
		addExprs(v.Operand)
	case *BinaryExpr:
		addExprs(v.Left, v.Right)
	case *CallExpr:
		addExprs(v.Args...)
	case *ArrayLiteral:
		addExprs(v.Items...)
	case *IndexExpr:
		addExprs(v.Items...)
	case *RangeExpr:
		addExprs(v.Start, v.End)
	}
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}
