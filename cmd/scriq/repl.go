package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/haymant/scriq/scriq"
)

var (
	accentColor    = lipgloss.Color("#0EA5E9")
	successColor   = lipgloss.Color("#22C55E")
	errorColor     = lipgloss.Color("#F43F5E")
	mutedColor     = lipgloss.Color("#71717A")
	highlightColor = lipgloss.Color("#EAB308")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type transcriptLine struct {
	input  string
	output string
	failed bool
}

type replModel struct {
	*replSession
	input      textinput.Model
	transcript []transcriptLine
	submitted  []string
	recallIdx  int
	width      int
	height     int
	showHelp   bool
	showVars   bool
	quitting   bool
	sized      bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
	Clear key.Binding
	Tab   key.Binding
	Vars  key.Binding
	Help  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous input"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next input"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "evaluate"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+d"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "complete"),
	),
	Vars: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel(cfg scriq.Config) (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "{type: NumberLiteral, text: \"1\"}"
	ti.Focus()
	ti.CharLimit = 4000
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "scriq> "

	session, err := newREPLSession(cfg)
	if err != nil {
		return replModel{}, err
	}

	return replModel{
		replSession: session,
		input:       ti,
		recallIdx:   -1,
	}, nil
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10
		m.sized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Clear):
			m.transcript = nil
			return m, nil

		case key.Matches(msg, keys.Vars):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.submitted) > 0 {
				if m.recallIdx == -1 {
					m.recallIdx = len(m.submitted) - 1
				} else if m.recallIdx > 0 {
					m.recallIdx--
				}
				m.input.SetValue(m.submitted[m.recallIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.recallIdx != -1 {
				if m.recallIdx < len(m.submitted)-1 {
					m.recallIdx++
					m.input.SetValue(m.submitted[m.recallIdx])
				} else {
					m.recallIdx = -1
					m.input.SetValue("")
				}
				m.input.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.complete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.recallIdx = -1

			if strings.HasPrefix(line, ":") {
				return m.handleCommand(line)
			}

			output, failed := m.evaluate([]byte(line))
			m.transcript = append(m.transcript, transcriptLine{input: line, output: output, failed: failed})
			m.submitted = append(m.submitted, line)
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(line string) (replModel, tea.Cmd) {
	parts := strings.Fields(line)
	switch parts[0] {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.transcript = nil
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.env.Clear()
		m.transcript = append(m.transcript, transcriptLine{input: line, output: "Environment reset"})
	case ":load", ":l":
		if len(parts) != 2 {
			m.transcript = append(m.transcript, transcriptLine{input: line, output: "usage: :load <document>", failed: true})
			break
		}
		output, failed := m.load(parts[1])
		m.transcript = append(m.transcript, transcriptLine{input: line, output: output, failed: failed})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.transcript = append(m.transcript, transcriptLine{
			input:  line,
			output: fmt.Sprintf("Unknown command: %s", parts[0]),
			failed: true,
		})
	}
	return m, nil
}

func (m replModel) complete() replModel {
	head, word := lastWord(m.input.Value())
	if word == "" {
		return m
	}
	matches := m.completions(word)
	switch {
	case len(matches) == 1:
		m.input.SetValue(head + matches[0])
		m.input.CursorEnd()
	case len(matches) > 1:
		m.transcript = append(m.transcript, transcriptLine{output: "Completions: " + strings.Join(matches, ", ")})
	}
	return m
}

func (m replModel) View() string {
	if !m.sized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("scriq REPL") + " " + mutedStyle.Render(m.engine.ConfigSummary()) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	reserved := 8
	if m.showHelp {
		reserved += 11
	}
	if m.showVars {
		reserved += m.env.Len() + 3
	}
	available := max(m.height-reserved, 1)

	start := 0
	if len(m.transcript) > available {
		start = len(m.transcript) - available
	}
	for _, entry := range m.transcript[start:] {
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.failed {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(m.env))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.input.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(env *scriq.Env) string {
	if env.Len() == 0 {
		return panelStyle.Render(mutedStyle.Render("No variables defined"))
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables")}
	nameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range env.Names() {
		val, _ := env.Get(name)
		lines = append(lines, fmt.Sprintf("  %s = %s", nameStyle.Render(name), val.String()))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate input history"},
		{"Tab", "Complete node types, procedures, names"},
		{"Enter", "Evaluate a flow-style YAML node"},
		{":load", "Evaluate a document file"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear transcript"},
		{":reset", "Reset environment"},
		{":quit", "Exit REPL"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc)))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use a line editor instead of the full-screen interface")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return errors.New("scriq repl: takes no arguments")
	}

	if *plain || !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		session, err := newREPLSession(scriq.Config{})
		if err != nil {
			return err
		}
		return runLineREPL(session)
	}

	model, err := newREPLModel(scriq.Config{})
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
