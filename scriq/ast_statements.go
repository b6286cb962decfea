package scriq

type AssignStmt struct {
	Span
	Name  string
	Value Expression
}

func (s *AssignStmt) stmtNode() {}

type ExprStmt struct {
	Span
	Expr Expression
}

func (s *ExprStmt) stmtNode() {}

// IfClause is one `if` or `elif` arm.
type IfClause struct {
	Span
	Condition Expression
	Body      []Statement
}

type IfStmt struct {
	Span
	Clauses []*IfClause
	Else    []Statement
}

func (s *IfStmt) stmtNode() {}

type WhileStmt struct {
	Span
	Condition Expression
	Body      []Statement
}

func (s *WhileStmt) stmtNode() {}

type BreakStmt struct {
	Span
}

func (s *BreakStmt) stmtNode() {}

type ContinueStmt struct {
	Span
}

func (s *ContinueStmt) stmtNode() {}

// ReturnStmt ends the evaluation; a nil Value returns null.
type ReturnStmt struct {
	Span
	Value Expression
}

func (s *ReturnStmt) stmtNode() {}

// PrintStmt writes the value to the engine's output.
type PrintStmt struct {
	Span
	Value Expression
}

func (s *PrintStmt) stmtNode() {}
