package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/haymant/scriq/scriq"
)

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var globals varList
	fs.Var(&globals, "var", "treat name as bound before evaluation (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("scriq analyze: document path required")
	}

	path, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve document path: %w", err)
	}
	root, err := readDocument(path)
	if err != nil {
		return err
	}

	engine := scriq.MustNewEngine(scriq.Config{})
	warnings := engine.Analyze(root, globals.names()...)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := warning.Pos.Line
		column := warning.Pos.Column
		if line <= 0 {
			line = 1
		}
		if column <= 0 {
			column = 1
		}
		fmt.Printf("%s:%d:%d: %s\n", path, line, column, warning.Message)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}
