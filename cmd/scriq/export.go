package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/haymant/scriq/scriq"
	"gopkg.in/yaml.v3"
)

func exportCommand(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	formatName := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("scriq export: document path required")
	}
	format, err := scriq.ParseDocumentFormat(*formatName)
	if err != nil {
		return err
	}
	root, err := readDocument(remaining[0])
	if err != nil {
		return err
	}

	tree := scriq.Export(root)
	switch format {
	case scriq.FormatYAML:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		return nil
	}
}
