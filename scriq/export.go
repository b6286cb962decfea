package scriq

// Export flattens a syntax tree into nested maps for serialization or
// visualization. Every node records its type and span; operator tokens and
// names appear as {type: token, text: ...} children.
func Export(n Node) map[string]any {
	if n == nil {
		return nil
	}
	out := map[string]any{"type": nodeType(n)}
	putSpan(out, n.Location())

	var children []any
	token := func(text string, span Span) {
		tok := map[string]any{"type": "token", "text": text}
		putSpan(tok, span)
		children = append(children, tok)
	}
	switch v := n.(type) {
	case *NumberLiteral:
		out["text"] = v.Text
	case *StringLiteral:
		out["text"] = v.Text
	case *BoolLiteral:
		out["value"] = v.Value
	case *Identifier:
		token(v.Name, v.Span)
	case *AssignStmt:
		token(v.Name, v.Span)
	case *CallExpr:
		token(v.Name, v.Span)
	case *IndexExpr:
		token(v.Name, v.Span)
	case *UnaryExpr:
		token(v.Operator, v.Span)
	}

	kids := Children(n)
	if b, ok := n.(*BinaryExpr); ok && len(kids) == 2 {
		children = append(children, Export(kids[0]))
		span := b.OpSpan
		if span == (Span{}) {
			span = b.Span
		}
		token(b.Operator, span)
		children = append(children, Export(kids[1]))
	} else {
		for _, child := range kids {
			children = append(children, Export(child))
		}
	}
	if len(children) > 0 {
		out["children"] = children
	}
	return out
}

func putSpan(m map[string]any, s Span) {
	m["offset"] = s.Offset
	m["sLine"] = s.Start.Line
	m["sPos"] = s.Start.Column
	m["eLine"] = s.End.Line
	m["ePos"] = s.End.Column
}
