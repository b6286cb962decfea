package scriq

import "fmt"

// Position is a 1-based line and column in the script source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span locates a node in the source. Offset is the character offset of the
// node's first token; call sites are keyed by it in the argument cache.
type Span struct {
	Offset int
	Start  Position
	End    Position
}

func (s Span) Pos() Position { return s.Start }

func (s Span) Location() Span { return s }

// Operator tokens understood by BinaryExpr and UnaryExpr.
const (
	OpAdd   = "+"
	OpSub   = "-"
	OpMul   = "*"
	OpDiv   = "/"
	OpMod   = "%"
	OpPow   = "**"
	OpDot   = "."
	OpLT    = "<"
	OpLTE   = "<="
	OpGT    = ">"
	OpGTE   = ">="
	OpEq    = "=="
	OpNotEq = "!="
	OpAnd   = "and"
	OpOr    = "or"
	OpNot   = "not"
	OpNeg   = "-"
)

// asyncOperators compose over Future operands instead of faulting.
var asyncOperators = map[string]struct{}{
	OpAdd: {},
	OpSub: {},
	OpMul: {},
	OpDiv: {},
	OpMod: {},
	OpPow: {},
	OpDot: {},
}

var binaryOperators = map[string]struct{}{
	OpAdd: {}, OpSub: {}, OpMul: {}, OpDiv: {}, OpMod: {}, OpPow: {}, OpDot: {},
	OpLT: {}, OpLTE: {}, OpGT: {}, OpGTE: {}, OpEq: {}, OpNotEq: {},
	OpAnd: {}, OpOr: {},
}

// IsBinaryOperator reports whether op is a known binary operator token.
func IsBinaryOperator(op string) bool {
	_, ok := binaryOperators[op]
	return ok
}
