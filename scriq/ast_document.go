package scriq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DocumentFormat selects the encoding of a syntax tree document.
type DocumentFormat string

const (
	FormatYAML DocumentFormat = "yaml"
	FormatJSON DocumentFormat = "json"
)

// ParseDocumentFormat maps a format name to a DocumentFormat.
func ParseDocumentFormat(name string) (DocumentFormat, error) {
	switch DocumentFormat(name) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown document format %q (want yaml or json)", name)
	}
}

// DocumentError reports a malformed syntax tree document.
type DocumentError struct {
	Line    int
	Message string
}

func (e *DocumentError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("document line %d: %s", e.Line, e.Message)
	}
	return "document: " + e.Message
}

func docErrorf(n *yaml.Node, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return &DocumentError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// DecodeDocument reads a syntax tree from a YAML or JSON document. Each node
// is a mapping with a type key, its fields, and an optional span mapping.
func DecodeDocument(data []byte) (Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DocumentError{Message: err.Error()}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &DocumentError{Message: "empty document"}
	}
	return decodeNode(root.Content[0])
}

// ReadDocument is DecodeDocument over a reader.
func ReadDocument(r io.Reader) (Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(data)
}

type docMapping struct {
	node   *yaml.Node
	fields map[string]*yaml.Node
}

func asMapping(n *yaml.Node) (*docMapping, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, docErrorf(n, "expected a node mapping, found %s", n.ShortTag())
	}
	m := &docMapping{node: n, fields: make(map[string]*yaml.Node, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		m.fields[n.Content[i].Value] = n.Content[i+1]
	}
	return m, nil
}

func (m *docMapping) optional(key string) *yaml.Node {
	n, ok := m.fields[key]
	if !ok || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil
	}
	return n
}

func (m *docMapping) required(key string) (*yaml.Node, error) {
	n := m.optional(key)
	if n == nil {
		return nil, docErrorf(m.node, "%s is missing %q", m.typeName(), key)
	}
	return n, nil
}

func (m *docMapping) typeName() string {
	if n, ok := m.fields["type"]; ok {
		return n.Value
	}
	return "node"
}

func (m *docMapping) text(key string) (string, error) {
	n, err := m.required(key)
	if err != nil {
		return "", err
	}
	if n.Kind != yaml.ScalarNode {
		return "", docErrorf(n, "%s.%s must be a scalar", m.typeName(), key)
	}
	return n.Value, nil
}

func (m *docMapping) span() (Span, error) {
	n := m.optional("span")
	if n == nil {
		return Span{}, nil
	}
	return decodeSpan(n)
}

func decodeSpan(n *yaml.Node) (Span, error) {
	var raw struct {
		Offset int `yaml:"offset"`
		SLine  int `yaml:"sLine"`
		SPos   int `yaml:"sPos"`
		ELine  int `yaml:"eLine"`
		EPos   int `yaml:"ePos"`
	}
	if err := n.Decode(&raw); err != nil {
		return Span{}, docErrorf(n, "bad span: %v", err)
	}
	return Span{
		Offset: raw.Offset,
		Start:  Position{Line: raw.SLine, Column: raw.SPos},
		End:    Position{Line: raw.ELine, Column: raw.EPos},
	}, nil
}

func (m *docMapping) expr(key string) (Expression, error) {
	n, err := m.required(key)
	if err != nil {
		return nil, err
	}
	return decodeExpression(n)
}

func (m *docMapping) optionalExpr(key string) (Expression, error) {
	n := m.optional(key)
	if n == nil {
		return nil, nil
	}
	return decodeExpression(n)
}

func (m *docMapping) exprs(key string) ([]Expression, error) {
	n := m.optional(key)
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, docErrorf(n, "%s.%s must be a sequence", m.typeName(), key)
	}
	out := make([]Expression, 0, len(n.Content))
	for _, item := range n.Content {
		e, err := decodeExpression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *docMapping) block(key string) ([]Statement, error) {
	n := m.optional(key)
	if n == nil {
		return nil, nil
	}
	return decodeBlock(n)
}

func decodeBlock(n *yaml.Node) ([]Statement, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, docErrorf(n, "statement list must be a sequence")
	}
	out := make([]Statement, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeStatement(n *yaml.Node) (Statement, error) {
	node, err := decodeNode(n)
	if err != nil {
		return nil, err
	}
	switch v := node.(type) {
	case Statement:
		return v, nil
	case Expression:
		return &ExprStmt{Span: v.Location(), Expr: v}, nil
	default:
		return nil, docErrorf(n, "expected a statement")
	}
}

func decodeExpression(n *yaml.Node) (Expression, error) {
	node, err := decodeNode(n)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, docErrorf(n, "%s is not an expression", nodeType(node))
	}
	return expr, nil
}

func decodeNode(n *yaml.Node) (Node, error) {
	m, err := asMapping(n)
	if err != nil {
		return nil, err
	}
	kind, err := m.text("type")
	if err != nil {
		return nil, err
	}
	span, err := m.span()
	if err != nil {
		return nil, err
	}

	switch kind {
	case "Program":
		body, err := m.block("statements")
		if err != nil {
			return nil, err
		}
		return &Program{Span: span, Statements: body}, nil
	case "AssignStmt":
		name, err := m.text("name")
		if err != nil {
			return nil, err
		}
		value, err := m.expr("value")
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Span: span, Name: name, Value: value}, nil
	case "ExprStmt":
		expr, err := m.expr("expr")
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Span: span, Expr: expr}, nil
	case "IfStmt":
		return decodeIf(m, span)
	case "WhileStmt":
		cond, err := m.expr("condition")
		if err != nil {
			return nil, err
		}
		body, err := m.block("body")
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Span: span, Condition: cond, Body: body}, nil
	case "BreakStmt":
		return &BreakStmt{Span: span}, nil
	case "ContinueStmt":
		return &ContinueStmt{Span: span}, nil
	case "ReturnStmt":
		value, err := m.optionalExpr("value")
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Span: span, Value: value}, nil
	case "PrintStmt":
		value, err := m.expr("value")
		if err != nil {
			return nil, err
		}
		return &PrintStmt{Span: span, Value: value}, nil
	case "NumberLiteral":
		text, err := m.text("text")
		if err != nil {
			return nil, err
		}
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return nil, docErrorf(n, "NumberLiteral text %q is not a number", text)
		}
		return &NumberLiteral{Span: span, Text: text}, nil
	case "StringLiteral":
		text, err := m.text("text")
		if err != nil {
			return nil, err
		}
		return &StringLiteral{Span: span, Text: text}, nil
	case "BoolLiteral":
		vn, err := m.required("value")
		if err != nil {
			return nil, err
		}
		var b bool
		if err := vn.Decode(&b); err != nil {
			return nil, docErrorf(vn, "BoolLiteral value must be true or false")
		}
		return &BoolLiteral{Span: span, Value: b}, nil
	case "NullLiteral":
		return &NullLiteral{Span: span}, nil
	case "Identifier":
		name, err := m.text("name")
		if err != nil {
			return nil, err
		}
		return &Identifier{Span: span, Name: name}, nil
	case "UnaryExpr":
		op, err := m.text("op")
		if err != nil {
			return nil, err
		}
		if op != OpNeg && op != OpNot {
			return nil, docErrorf(n, "unknown unary operator %q", op)
		}
		operand, err := m.expr("operand")
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Span: span, Operator: op, Operand: operand}, nil
	case "BinaryExpr":
		return decodeBinary(m, span)
	case "CallExpr":
		name, err := m.text("name")
		if err != nil {
			return nil, err
		}
		args, err := m.exprs("args")
		if err != nil {
			return nil, err
		}
		return &CallExpr{Span: span, Name: name, Args: args}, nil
	case "ArrayLiteral":
		items, err := m.exprs("items")
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Span: span, Items: items}, nil
	case "IndexExpr":
		name, err := m.text("name")
		if err != nil {
			return nil, err
		}
		items, err := m.exprs("items")
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Span: span, Name: name, Items: items}, nil
	case "RangeExpr":
		start, err := m.optionalExpr("start")
		if err != nil {
			return nil, err
		}
		end, err := m.optionalExpr("end")
		if err != nil {
			return nil, err
		}
		return &RangeExpr{Span: span, Start: start, End: end}, nil
	default:
		return nil, docErrorf(n, "unknown node type %q", kind)
	}
}

func decodeIf(m *docMapping, span Span) (Node, error) {
	cn, err := m.required("clauses")
	if err != nil {
		return nil, err
	}
	if cn.Kind != yaml.SequenceNode || len(cn.Content) == 0 {
		return nil, docErrorf(cn, "IfStmt.clauses must be a non-empty sequence")
	}
	stmt := &IfStmt{Span: span}
	for _, item := range cn.Content {
		cm, err := asMapping(item)
		if err != nil {
			return nil, err
		}
		cspan, err := cm.span()
		if err != nil {
			return nil, err
		}
		cond, err := cm.expr("condition")
		if err != nil {
			return nil, err
		}
		body, err := cm.block("body")
		if err != nil {
			return nil, err
		}
		stmt.Clauses = append(stmt.Clauses, &IfClause{Span: cspan, Condition: cond, Body: body})
	}
	if stmt.Else, err = m.block("else"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func decodeBinary(m *docMapping, span Span) (Node, error) {
	op, err := m.text("op")
	if err != nil {
		return nil, err
	}
	if !IsBinaryOperator(op) {
		return nil, docErrorf(m.node, "unknown binary operator %q", op)
	}
	left, err := m.expr("left")
	if err != nil {
		return nil, err
	}
	right, err := m.expr("right")
	if err != nil {
		return nil, err
	}
	expr := &BinaryExpr{Span: span, Operator: op, Left: left, Right: right}
	if on := m.optional("opSpan"); on != nil {
		if expr.OpSpan, err = decodeSpan(on); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

// EncodeDocument writes a syntax tree in the format DecodeDocument reads.
func EncodeDocument(root Node, format DocumentFormat) ([]byte, error) {
	if root == nil {
		return nil, errors.New("nil syntax tree")
	}
	doc := documentNode(root)
	switch format {
	case FormatJSON:
		var generic any
		if err := doc.Decode(&generic); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(generic); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}
}
