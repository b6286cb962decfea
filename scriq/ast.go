package scriq

// Node is any syntax tree node handed to the evaluator by a parser.
type Node interface {
	Pos() Position
	Location() Span
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is the root of a script.
type Program struct {
	Span
	Statements []Statement
}

func (p *Program) stmtNode() {}

type Identifier struct {
	Span
	Name string
}

func (e *Identifier) exprNode() {}

// NumberLiteral keeps the source text; it is parsed when evaluated.
type NumberLiteral struct {
	Span
	Text string
}

func (e *NumberLiteral) exprNode() {}

// StringLiteral keeps the quoted token, e.g. `"say ""hi"""`.
type StringLiteral struct {
	Span
	Text string
}

func (e *StringLiteral) exprNode() {}

type BoolLiteral struct {
	Span
	Value bool
}

func (e *BoolLiteral) exprNode() {}

type NullLiteral struct {
	Span
}

func (e *NullLiteral) exprNode() {}

type UnaryExpr struct {
	Span
	Operator string
	Operand  Expression
}

func (e *UnaryExpr) exprNode() {}

type BinaryExpr struct {
	Span
	Operator string
	OpSpan   Span
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) exprNode() {}

// CallExpr invokes a host procedure by name and argument count.
type CallExpr struct {
	Span
	Name string
	Args []Expression
}

func (e *CallExpr) exprNode() {}

// ArrayLiteral is a bracketed list; items may be numbers, ranges or nested lists.
type ArrayLiteral struct {
	Span
	Items []Expression
}

func (e *ArrayLiteral) exprNode() {}

// IndexExpr addresses into the array held by variable Name.
type IndexExpr struct {
	Span
	Name  string
	Items []Expression
}

func (e *IndexExpr) exprNode() {}

// RangeExpr is a slice subscript start:end. A nil Start means 0 and a nil
// End means through the last index.
type RangeExpr struct {
	Span
	Start Expression
	End   Expression
}

func (e *RangeExpr) exprNode() {}
