package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/haymant/scriq/scriq"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "export":
		return exportCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	async := fs.Bool("async", false, "print a pending future instead of awaiting it")
	configPath := fs.String("config", "", "YAML file with evaluation limits")
	verbose := fs.Bool("v", false, "log evaluation details to stderr")
	watch := fs.Bool("watch", false, "evaluate again whenever the document changes")
	var vars varList
	fs.Var(&vars, "var", "bind a variable before evaluation, name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("scriq run: document path required")
	}
	path := remaining[0]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	engine, err := scriq.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	evaluate := func() error {
		root, err := readDocument(path)
		if err != nil {
			return err
		}
		env, err := vars.env()
		if err != nil {
			return err
		}
		result, err := engine.Eval(ctx, root, env, scriq.EvalOptions{Async: *async})
		if err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		if !result.IsVoid() {
			printResult(os.Stdout, result)
		}
		return nil
	}

	if !*watch {
		return evaluate()
	}
	if err := evaluate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return watchDocument(ctx, path, func() {
		if err := evaluate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	})
}

func readDocument(path string) (scriq.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	root, err := scriq.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// printResult colours the result when stdout is a terminal.
func printResult(w io.Writer, v scriq.Value) {
	text := v.String()
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		text = resultStyle.Render(text)
	}
	fmt.Fprintln(w, text)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	title := lipgloss.NewStyle().Bold(true)
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] <document>\n", prog)
	fmt.Fprintln(os.Stderr, title.Render("Commands:"))
	fmt.Fprintln(os.Stderr, "  run [-async] [-config file] [-var name=value] [-v] [-watch] <document>")
	fmt.Fprintln(os.Stderr, "    evaluate a syntax tree document and print the result")
	fmt.Fprintln(os.Stderr, "  export [-format json|yaml] <document>")
	fmt.Fprintln(os.Stderr, "    print the tree as nested maps with spans and tokens")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths...>")
	fmt.Fprintln(os.Stderr, "    print documents as script source, or rewrite them canonically")
	fmt.Fprintln(os.Stderr, "  analyze [-var name] <document>")
	fmt.Fprintln(os.Stderr, "    report unreachable code, stray loop control and unknown names")
	fmt.Fprintln(os.Stderr, "  repl [-plain]")
	fmt.Fprintln(os.Stderr, "    evaluate flow-style YAML nodes interactively")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

type varList []string

func (l *varList) String() string {
	return strings.Join(*l, ",")
}

func (l *varList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func (l varList) env() (*scriq.Env, error) {
	env := scriq.NewEnv()
	for _, raw := range l {
		name, text, ok := strings.Cut(raw, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid -var %q, want name=value", raw)
		}
		if err := env.Set(name, parseVarValue(text)); err != nil {
			return nil, fmt.Errorf("-var %s: %w", name, err)
		}
	}
	return env, nil
}

func (l varList) names() []string {
	out := make([]string, 0, len(l))
	for _, raw := range l {
		name, _, _ := strings.Cut(raw, "=")
		out = append(out, name)
	}
	return out
}

func parseVarValue(text string) scriq.Value {
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return scriq.NewNumber(f)
	}
	switch text {
	case "true", "True":
		return scriq.NewBool(true)
	case "false", "False":
		return scriq.NewBool(false)
	case "null", "None":
		return scriq.NewNull()
	}
	return scriq.NewText(text)
}
