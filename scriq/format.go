package scriq

import (
	"strings"
)

const formatIndent = "    "

// Format renders a syntax tree as script source. Expressions are
// parenthesized only where operator precedence requires it.
func Format(n Node) string {
	var b strings.Builder
	switch v := n.(type) {
	case Statement:
		formatStatement(&b, v, 0)
	case Expression:
		b.WriteString(formatExpr(v, 0))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatBlock(b *strings.Builder, stmts []Statement, depth int) {
	if len(stmts) == 0 {
		b.WriteString(strings.Repeat(formatIndent, depth))
		b.WriteString("pass\n")
		return
	}
	for _, s := range stmts {
		formatStatement(b, s, depth)
	}
}

func formatStatement(b *strings.Builder, stmt Statement, depth int) {
	indent := strings.Repeat(formatIndent, depth)
	switch s := stmt.(type) {
	case *Program:
		for _, inner := range s.Statements {
			formatStatement(b, inner, depth)
		}
		return
	case *AssignStmt:
		b.WriteString(indent + s.Name + " = " + formatExpr(s.Value, 0))
	case *ExprStmt:
		b.WriteString(indent + formatExpr(s.Expr, 0))
	case *PrintStmt:
		b.WriteString(indent + "print(" + formatExpr(s.Value, 0) + ")")
	case *BreakStmt:
		b.WriteString(indent + "break")
	case *ContinueStmt:
		b.WriteString(indent + "continue")
	case *ReturnStmt:
		b.WriteString(indent + "return")
		if s.Value != nil {
			b.WriteString(" " + formatExpr(s.Value, 0))
		}
	case *IfStmt:
		for i, clause := range s.Clauses {
			keyword := "if "
			if i > 0 {
				keyword = "elif "
			}
			b.WriteString(indent + keyword + formatExpr(clause.Condition, 0) + ":\n")
			formatBlock(b, clause.Body, depth+1)
		}
		if s.Else != nil {
			b.WriteString(indent + "else:\n")
			formatBlock(b, s.Else, depth+1)
		}
		return
	case *WhileStmt:
		b.WriteString(indent + "while " + formatExpr(s.Condition, 0) + ":\n")
		formatBlock(b, s.Body, depth+1)
		return
	}
	b.WriteByte('\n')
}

// Binding strength of binary operators; higher binds tighter.
var precedence = map[string]int{
	OpOr:    1,
	OpAnd:   2,
	OpEq:    4,
	OpNotEq: 4,
	OpLT:    4,
	OpLTE:   4,
	OpGT:    4,
	OpGTE:   4,
	OpAdd:   5,
	OpSub:   5,
	OpMul:   6,
	OpDiv:   6,
	OpMod:   6,
	OpDot:   6,
	OpPow:   8,
}

const (
	precNot   = 3
	precUnary = 7
)

func formatExpr(expr Expression, outer int) string {
	switch e := expr.(type) {
	case *NumberLiteral:
		return e.Text
	case *StringLiteral:
		if len(e.Text) >= 2 && (e.Text[0] == '"' || e.Text[0] == '\'') {
			return e.Text
		}
		return quoteText(e.Text)
	case *BoolLiteral:
		if e.Value {
			return "True"
		}
		return "False"
	case *NullLiteral:
		return "None"
	case *Identifier:
		return e.Name
	case *UnaryExpr:
		if e.Operator == OpNot {
			return wrapPrec("not "+formatExpr(e.Operand, precNot), precNot, outer)
		}
		return wrapPrec(e.Operator+formatExpr(e.Operand, precUnary), precUnary, outer)
	case *BinaryExpr:
		p := precedence[e.Operator]
		left, right := p, p+1
		switch p {
		case precedence[OpPow]:
			left, right = p+1, p
		case precedence[OpEq]:
			left = p + 1
		}
		text := formatExpr(e.Left, left) + " " + e.Operator + " " + formatExpr(e.Right, right)
		return wrapPrec(text, p, outer)
	case *CallExpr:
		return e.Name + "(" + formatList(e.Args) + ")"
	case *ArrayLiteral:
		return "[" + formatList(e.Items) + "]"
	case *IndexExpr:
		return e.Name + "[" + formatList(e.Items) + "]"
	case *RangeExpr:
		var b strings.Builder
		if e.Start != nil {
			b.WriteString(formatExpr(e.Start, 0))
		}
		b.WriteByte(':')
		if e.End != nil {
			b.WriteString(formatExpr(e.End, 0))
		}
		return b.String()
	default:
		return "<?>"
	}
}

func formatList(items []Expression) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatExpr(item, 0)
	}
	return strings.Join(parts, ", ")
}

func wrapPrec(text string, prec, outer int) string {
	if prec < outer {
		return "(" + text + ")"
	}
	return text
}
