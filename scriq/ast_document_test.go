package scriq

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const loopDocument = `
type: Program
statements:
  - {type: AssignStmt, name: i, value: {type: NumberLiteral, text: "0"}}
  - type: WhileStmt
    condition: {type: BinaryExpr, op: "<", left: {type: Identifier, name: i}, right: {type: NumberLiteral, text: "5"}}
    body:
      - type: AssignStmt
        name: i
        value: {type: BinaryExpr, op: "+", left: {type: Identifier, name: i}, right: {type: NumberLiteral, text: "1"}}
      - type: IfStmt
        clauses:
          - condition: {type: BinaryExpr, op: "==", left: {type: Identifier, name: i}, right: {type: NumberLiteral, text: 3}}
            body:
              - {type: ReturnStmt, value: {type: CallExpr, name: sum, args: [{type: ArrayLiteral, items: [{type: Identifier, name: i}, {type: NumberLiteral, text: "0.5"}]}], span: {offset: 120, sLine: 4, sPos: 15, eLine: 4, ePos: 30}}}
`

func TestDecodeDocumentEvaluates(t *testing.T) {
	root, err := DecodeDocument([]byte(loopDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	prog, ok := root.(*Program)
	if !ok || len(prog.Statements) != 2 {
		t.Fatalf("unexpected root %T", root)
	}

	engine, _ := newTestEngine(t)
	_ = engine.RegisterFunc("sum", 1, func(ctx context.Context, args []Value) (Value, error) {
		items, err := args[0].AsTuple()
		if err != nil {
			return NewVoid(), err
		}
		total := 0.0
		for _, item := range items {
			f, _ := item.AsNumber()
			total += f
		}
		return NewNumber(total), nil
	})
	cache := ArgCache{}
	got, err := engine.Eval(context.Background(), root, nil, EvalOptions{Args: cache})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	requireNumber(t, got, 3.5)
	if _, ok := cache.Lookup(120); !ok {
		t.Fatalf("expected arguments recorded under the decoded span offset")
	}
}

func TestDecodeDocumentAcceptsJSON(t *testing.T) {
	doc := `{"type": "BinaryExpr", "op": "**", "left": {"type": "NumberLiteral", "text": "2"}, "right": {"type": "NumberLiteral", "text": 8}}`
	root, err := DecodeDocument([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	engine, _ := newTestEngine(t)
	requireNumber(t, evalProgram(t, engine, nil, root), 256)
}

func TestDecodeDocumentErrorsNameLine(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		line int
		want string
	}{
		{"unknown type", "type: Program\nstatements:\n  - type: Goto\n", 3, "unknown node type"},
		{"missing field", "type: Program\nstatements:\n  - type: AssignStmt\n    name: x\n", 3, "missing \"value\""},
		{"bad operator", "type: BinaryExpr\nop: \"<>\"\nleft: {type: NullLiteral}\nright: {type: NullLiteral}\n", 1, "unknown binary operator"},
		{"bad number", "type: NumberLiteral\ntext: abc\n", 1, "not a number"},
		{"statement as expression", "type: AssignStmt\nname: x\nvalue: {type: BreakStmt}\n", 3, "not an expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.doc))
			var docErr *DocumentError
			if !errors.As(err, &docErr) {
				t.Fatalf("expected document error, got %v", err)
			}
			if docErr.Line != tt.line {
				t.Fatalf("expected line %d, got %d (%v)", tt.line, docErr.Line, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}

	if _, err := DecodeDocument(nil); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestEncodeDocumentRoundTrip(t *testing.T) {
	root, err := DecodeDocument([]byte(loopDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, format := range []DocumentFormat{FormatYAML, FormatJSON} {
		data, err := EncodeDocument(root, format)
		if err != nil {
			t.Fatalf("encode %s: %v", format, err)
		}
		again, err := DecodeDocument(data)
		if err != nil {
			t.Fatalf("decode %s output: %v\n%s", format, err, data)
		}
		if Format(again) != Format(root) {
			t.Fatalf("%s round trip changed the tree:\n%s\nvs\n%s", format, Format(again), Format(root))
		}
	}
}

func TestParseDocumentFormat(t *testing.T) {
	if f, err := ParseDocumentFormat("yml"); err != nil || f != FormatYAML {
		t.Fatalf("expected yaml, got %q (%v)", f, err)
	}
	if _, err := ParseDocumentFormat("xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
