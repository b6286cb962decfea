package scriq

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// nodeType names a node the way documents spell its type key.
func nodeType(n Node) string {
	switch n.(type) {
	case *Program:
		return "Program"
	case *AssignStmt:
		return "AssignStmt"
	case *ExprStmt:
		return "ExprStmt"
	case *IfStmt:
		return "IfStmt"
	case *IfClause:
		return "IfClause"
	case *WhileStmt:
		return "WhileStmt"
	case *BreakStmt:
		return "BreakStmt"
	case *ContinueStmt:
		return "ContinueStmt"
	case *ReturnStmt:
		return "ReturnStmt"
	case *PrintStmt:
		return "PrintStmt"
	case *NumberLiteral:
		return "NumberLiteral"
	case *StringLiteral:
		return "StringLiteral"
	case *BoolLiteral:
		return "BoolLiteral"
	case *NullLiteral:
		return "NullLiteral"
	case *Identifier:
		return "Identifier"
	case *UnaryExpr:
		return "UnaryExpr"
	case *BinaryExpr:
		return "BinaryExpr"
	case *CallExpr:
		return "CallExpr"
	case *ArrayLiteral:
		return "ArrayLiteral"
	case *IndexExpr:
		return "IndexExpr"
	case *RangeExpr:
		return "RangeExpr"
	default:
		return "Unknown"
	}
}

type docField struct {
	key string
	val *yaml.Node
}

func docMap(fields ...docField) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		out.Content = append(out.Content, docString(f.key), f.val)
	}
	return out
}

func docString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func docInt(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func docBool(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func docSpan(s Span) *yaml.Node {
	if s == (Span{}) {
		return nil
	}
	n := docMap(
		docField{"offset", docInt(s.Offset)},
		docField{"sLine", docInt(s.Start.Line)},
		docField{"sPos", docInt(s.Start.Column)},
		docField{"eLine", docInt(s.End.Line)},
		docField{"ePos", docInt(s.End.Column)},
	)
	n.Style = yaml.FlowStyle
	return n
}

func docList[T Node](items []T) *yaml.Node {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, item := range items {
		out.Content = append(out.Content, documentNode(item))
	}
	return out
}

func docOptional(n Node) *yaml.Node {
	if n == nil {
		return nil
	}
	return documentNode(n)
}

func documentNode(n Node) *yaml.Node {
	head := []docField{{"type", docString(nodeType(n))}}
	var fields []docField
	switch v := n.(type) {
	case *Program:
		fields = []docField{{"statements", docList(v.Statements)}}
	case *AssignStmt:
		fields = []docField{{"name", docString(v.Name)}, {"value", documentNode(v.Value)}}
	case *ExprStmt:
		fields = []docField{{"expr", documentNode(v.Expr)}}
	case *IfStmt:
		fields = []docField{{"clauses", docList(v.Clauses)}}
		if v.Else != nil {
			fields = append(fields, docField{"else", docList(v.Else)})
		}
	case *IfClause:
		fields = []docField{{"condition", documentNode(v.Condition)}, {"body", docList(v.Body)}}
	case *WhileStmt:
		fields = []docField{{"condition", documentNode(v.Condition)}, {"body", docList(v.Body)}}
	case *ReturnStmt:
		fields = []docField{{"value", docOptional(v.Value)}}
	case *PrintStmt:
		fields = []docField{{"value", documentNode(v.Value)}}
	case *NumberLiteral:
		fields = []docField{{"text", docString(v.Text)}}
	case *StringLiteral:
		fields = []docField{{"text", docString(v.Text)}}
	case *BoolLiteral:
		fields = []docField{{"value", docBool(v.Value)}}
	case *Identifier:
		fields = []docField{{"name", docString(v.Name)}}
	case *UnaryExpr:
		fields = []docField{{"op", docString(v.Operator)}, {"operand", documentNode(v.Operand)}}
	case *BinaryExpr:
		fields = []docField{
			{"op", docString(v.Operator)},
			{"opSpan", docSpan(v.OpSpan)},
			{"left", documentNode(v.Left)},
			{"right", documentNode(v.Right)},
		}
	case *CallExpr:
		fields = []docField{{"name", docString(v.Name)}, {"args", docList(v.Args)}}
	case *ArrayLiteral:
		fields = []docField{{"items", docList(v.Items)}}
	case *IndexExpr:
		fields = []docField{{"name", docString(v.Name)}, {"items", docList(v.Items)}}
	case *RangeExpr:
		fields = []docField{{"start", docOptional(v.Start)}, {"end", docOptional(v.End)}}
	}
	fields = append(head, fields...)
	fields = append(fields, docField{"span", docSpan(n.Location())})
	return docMap(fields...)
}
