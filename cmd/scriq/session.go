package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/haymant/scriq/scriq"
)

// nodeTypes completes the type key of flow-style nodes.
var nodeTypes = []string{
	"ArrayLiteral", "AssignStmt", "BinaryExpr", "BoolLiteral", "BreakStmt",
	"CallExpr", "ContinueStmt", "ExprStmt", "Identifier", "IfStmt", "IndexExpr",
	"NullLiteral", "NumberLiteral", "PrintStmt", "Program", "RangeExpr",
	"ReturnStmt", "StringLiteral", "UnaryExpr", "WhileStmt",
}

// replSession is the evaluation state shared by both REPL front ends. The
// env persists across inputs; print output is captured per input.
type replSession struct {
	engine  *scriq.Engine
	env     *scriq.Env
	printed *strings.Builder
}

func newREPLSession(cfg scriq.Config) (*replSession, error) {
	printed := new(strings.Builder)
	cfg.Stdout = printed
	engine, err := scriq.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return &replSession{
		engine:  engine,
		env:     scriq.NewEnv(),
		printed: printed,
	}, nil
}

// evaluate decodes one document and runs it against the session env. The
// result is bound to _ so later inputs can refer to it.
func (s *replSession) evaluate(doc []byte) (string, bool) {
	root, err := scriq.DecodeDocument(doc)
	if err != nil {
		return err.Error(), true
	}
	s.printed.Reset()
	result, err := s.engine.Eval(context.Background(), root, s.env, scriq.EvalOptions{})
	printed := strings.TrimRight(s.printed.String(), "\n")
	if err != nil {
		var re *scriq.RuntimeError
		if errors.As(err, &re) {
			return fmt.Sprintf("%s: %s", re.Kind, re.Message), true
		}
		return err.Error(), true
	}
	out := "ok"
	if !result.IsVoid() {
		out = result.String()
		if bound, ok := resultBinding(result); ok {
			if err := s.env.Set("_", bound); err != nil {
				return err.Error(), true
			}
		}
	}
	if printed != "" {
		out = printed + "\n" + out
	}
	return out, false
}

// resultBinding converts a result to the form a variable holds. Tuples
// become arrays; ranges and irregular tuples are not bound.
func resultBinding(v scriq.Value) (scriq.Value, bool) {
	switch v.Kind() {
	case scriq.KindRange:
		return v, false
	case scriq.KindTuple:
		items, _ := v.AsTuple()
		arr, err := scriq.NDArrayFromNested(items)
		if err != nil {
			return v, false
		}
		return scriq.NewArray(arr), true
	default:
		return v, true
	}
}

func (s *replSession) load(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return err.Error(), true
	}
	return s.evaluate(data)
}

func (s *replSession) completions(prefix string) []string {
	var matches []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !slices.Contains(matches, name) {
			matches = append(matches, name)
		}
	}
	for _, name := range nodeTypes {
		add(name)
	}
	for _, proc := range s.engine.Procedures() {
		add(proc.Name)
	}
	for _, name := range s.env.Names() {
		add(name)
	}
	return matches
}

// lastWord splits off the word under the cursor at the end of text.
func lastWord(text string) (head, word string) {
	i := strings.LastIndexAny(text, " {[,:")
	return text[:i+1], text[i+1:]
}
