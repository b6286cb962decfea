package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sumDocument = `
type: Program
statements:
  - {type: AssignStmt, name: total, value: {type: BinaryExpr, op: "*", left: {type: Identifier, name: x}, right: {type: NumberLiteral, text: "2"}}}
  - {type: ExprStmt, expr: {type: Identifier, name: total}}
`

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"scriq", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"scriq", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"scriq"})
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("expected invalid command error, got %v", err)
	}
}

func TestRunCommandPrintsResult(t *testing.T) {
	path := writeDocument(t, "doc.yaml", sumDocument)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-var", "x=21", path})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "42.0" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandReportsFaultKind(t *testing.T) {
	path := writeDocument(t, "doc.yaml", sumDocument)

	_, err := captureStdout(t, func() error {
		return runCommand([]string{path})
	})
	if err == nil {
		t.Fatalf("expected undefined variable failure")
	}
	if !strings.Contains(err.Error(), "UndefinedVariable") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandRequiresDocumentPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "document path required") {
		t.Fatalf("expected document path error, got %v", err)
	}
}

func TestRunCommandRejectsMalformedVar(t *testing.T) {
	path := writeDocument(t, "doc.yaml", sumDocument)
	err := runCommand([]string{"-var", "=3", path})
	if err == nil || !strings.Contains(err.Error(), "want name=value") {
		t.Fatalf("expected malformed var error, got %v", err)
	}
}

func TestRunCommandHonoursStepQuota(t *testing.T) {
	doc := writeDocument(t, "loop.yaml", `
type: WhileStmt
condition: {type: BoolLiteral, value: true}
body:
  - {type: ExprStmt, expr: {type: NullLiteral}}
`)
	cfg := writeDocument(t, "limits.yaml", "step_quota: 50\n")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-config", cfg, doc})
	})
	if err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected step quota failure, got %v", err)
	}
}

func TestParseVarValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3", "3.0"},
		{"2.5", "2.5"},
		{"True", "true"},
		{"false", "false"},
		{"None", "null"},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		if got := parseVarValue(tt.in).String(); got != tt.want {
			t.Fatalf("parseVarValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeDocument(t, "limits.yaml", "step_quota: 10\nmemory_quota_bytes: 2048\nawait_timeout: 2s\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.StepQuota != 10 || cfg.MemoryQuotaBytes != 2048 || cfg.AwaitTimeout != 2*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	empty := writeDocument(t, "empty.yaml", "")
	cfg, err = loadConfig(empty)
	if err != nil {
		t.Fatalf("empty config failed: %v", err)
	}
	if cfg.StepQuota != 0 {
		t.Fatalf("expected zero config for empty file, got %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeDocument(t, "limits.yaml", "steps: 10\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
	bad := writeDocument(t, "bad.yaml", "await_timeout: soon\n")
	if _, err := loadConfig(bad); err == nil || !strings.Contains(err.Error(), "await_timeout") {
		t.Fatalf("expected duration error, got %v", err)
	}
}

func TestExportCommandEmitsTokens(t *testing.T) {
	path := writeDocument(t, "doc.yaml", `{type: BinaryExpr, op: "+", left: {type: Identifier, name: a}, right: {type: NumberLiteral, text: "1"}}`)

	out, err := captureStdout(t, func() error {
		return exportCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("exportCommand failed: %v", err)
	}
	for _, want := range []string{`"type": "BinaryExpr"`, `"type": "token"`, `"text": "+"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("export output missing %s:\n%s", want, out)
		}
	}

	out, err = captureStdout(t, func() error {
		return exportCommand([]string{"-format", "yaml", path})
	})
	if err != nil {
		t.Fatalf("yaml export failed: %v", err)
	}
	if !strings.Contains(out, "type: BinaryExpr") {
		t.Fatalf("unexpected yaml export:\n%s", out)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	path := writeDocument(t, "doc.yaml", sumDocument)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{"-var", "x", path})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsUnreachableStatements(t *testing.T) {
	path := writeDocument(t, "doc.yaml", `
type: Program
statements:
  - {type: ReturnStmt, value: {type: NumberLiteral, text: "1"}}
  - {type: ExprStmt, expr: {type: NumberLiteral, text: "2"}}
`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{path})
	})
	if err == nil || !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !strings.Contains(out, "unreachable statement") {
		t.Fatalf("expected unreachable statement warning, got %q", out)
	}
}

func TestAnalyzeCommandReportsUnboundName(t *testing.T) {
	path := writeDocument(t, "doc.yaml", sumDocument)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{path})
	})
	if err == nil {
		t.Fatalf("expected analyze failure")
	}
	if !strings.Contains(out, "x is never assigned") {
		t.Fatalf("expected unbound name warning, got %q", out)
	}
}

func writeDocument(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
