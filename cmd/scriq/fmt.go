package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/haymant/scriq/scriq"
)

var documentExtensions = map[string]scriq.DocumentFormat{
	".yaml": scriq.FormatYAML,
	".yml":  scriq.FormatYAML,
	".json": scriq.FormatJSON,
}

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "rewrite documents in canonical form instead of printing source")
	check := fs.Bool("check", false, "fail if any document is not in canonical form")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("scriq fmt: path required")
	}

	files, err := collectDocuments(targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	changedCount := 0
	for _, path := range files {
		original, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		root, err := scriq.DecodeDocument(original)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		canonical, err := scriq.EncodeDocument(root, documentExtensions[filepath.Ext(path)])
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		changed := !bytes.Equal(canonical, original)
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, canonical, info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(scriq.Format(root))
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("scriq fmt: %d file(s) need formatting", changedCount)
	}

	return nil
}

func collectDocuments(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if _, ok := documentExtensions[filepath.Ext(path)]; !ok {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
