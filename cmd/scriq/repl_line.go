package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const linePrompt = "scriq> "

type linePrompter interface {
	Prompt(prompt string) (string, error)
}

// runLineREPL serves the REPL through a line editor. It is used when the
// terminal cannot host the full-screen interface, including piped input.
func runLineREPL(s *replSession) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(text string) []string {
		head, word := lastWord(text)
		if word == "" {
			return nil
		}
		var out []string
		for _, match := range s.completions(word) {
			out = append(out, head+match)
		}
		return out
	})

	historyFile := filepath.Join(os.TempDir(), ".scriq_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(os.Stdout, "scriq REPL (%s)\n", s.engine.ConfigSummary())
	fmt.Fprintln(os.Stdout, "Enter flow-style YAML nodes; :help lists commands, Ctrl+D quits")
	return lineLoop(s, line, os.Stdout, line.AppendHistory)
}

func lineLoop(s *replSession, in linePrompter, out io.Writer, remember func(string)) error {
	for {
		input, err := in.Prompt(linePrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(out, "^C")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if remember != nil {
			remember(trimmed)
		}

		if strings.HasPrefix(trimmed, ":") {
			if quit := s.lineCommand(trimmed, out); quit {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			continue
		}
		text, failed := s.evaluate([]byte(trimmed))
		writeOutcome(out, text, failed)
	}
}

func (s *replSession) lineCommand(line string, out io.Writer) bool {
	parts := strings.Fields(line)
	switch parts[0] {
	case ":quit", ":q":
		return true
	case ":reset", ":r":
		s.env.Clear()
		fmt.Fprintln(out, "Environment reset")
	case ":vars", ":v":
		if s.env.Len() == 0 {
			fmt.Fprintln(out, "No variables defined")
		}
		for _, name := range s.env.Names() {
			val, _ := s.env.Get(name)
			fmt.Fprintf(out, "  %s = %s\n", name, val.String())
		}
	case ":load", ":l":
		if len(parts) != 2 {
			writeOutcome(out, "usage: :load <document>", true)
			break
		}
		text, failed := s.load(parts[1])
		writeOutcome(out, text, failed)
	case ":help", ":h":
		fmt.Fprintln(out, "  :load <file>  evaluate a document file")
		fmt.Fprintln(out, "  :vars         list variables")
		fmt.Fprintln(out, "  :reset        reset environment")
		fmt.Fprintln(out, "  :quit         exit")
	default:
		writeOutcome(out, fmt.Sprintf("Unknown command: %s", parts[0]), true)
	}
	return false
}

func writeOutcome(out io.Writer, text string, failed bool) {
	if failed {
		fmt.Fprintln(out, "error: "+text)
		return
	}
	fmt.Fprintln(out, text)
}
