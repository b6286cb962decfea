package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFmtCommandPrintsSource(t *testing.T) {
	path := writeDocument(t, "doc.yaml", sumDocument)

	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmtCommand failed: %v", err)
	}
	want := "total = x * 2\ntotal\n"
	if out != want {
		t.Fatalf("unexpected source:\n%s\nwant:\n%s", out, want)
	}
}

func TestFmtCommandWriteThenCheck(t *testing.T) {
	path := writeDocument(t, "doc.yaml", "type:    NullLiteral\n")

	if err := fmtCommand([]string{"-check", path}); err == nil {
		t.Fatalf("expected check to fail for non-canonical document")
	} else if !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}

	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rewritten document: %v", err)
	}
	if got := string(rewritten); got != "type: NullLiteral\n" {
		t.Fatalf("unexpected canonical document %q", got)
	}

	if err := fmtCommand([]string{"-check", path}); err != nil {
		t.Fatalf("expected canonical document to pass check: %v", err)
	}
}

func TestFmtCommandWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"a.yaml":    "type:  NullLiteral\n",
		"b.json":    `{"type":"NullLiteral"}`,
		"notes.txt": "ignored",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := collectDocuments([]string{dir, filepath.Join(dir, "a.yaml")})
	if err != nil {
		t.Fatalf("collectDocuments failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 documents, got %v", files)
	}

	err = fmtCommand([]string{"-check", dir})
	if err == nil || !strings.Contains(err.Error(), "2 file(s) need formatting") {
		t.Fatalf("expected both documents flagged, got %v", err)
	}
}

func TestFmtCommandRequiresPath(t *testing.T) {
	if err := fmtCommand(nil); err == nil || !strings.Contains(err.Error(), "path required") {
		t.Fatalf("expected path error, got %v", err)
	}
}
