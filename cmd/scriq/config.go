package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/haymant/scriq/scriq"
	"gopkg.in/yaml.v3"
)

type configFile struct {
	StepQuota        int    `yaml:"step_quota"`
	MemoryQuotaBytes int    `yaml:"memory_quota_bytes"`
	AwaitTimeout     string `yaml:"await_timeout"`
}

// loadConfig reads engine limits from a YAML file. An empty path yields the
// engine defaults.
func loadConfig(path string) (scriq.Config, error) {
	if path == "" {
		return scriq.Config{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return scriq.Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return scriq.Config{}, nil
		}
		return scriq.Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	cfg := scriq.Config{
		StepQuota:        raw.StepQuota,
		MemoryQuotaBytes: raw.MemoryQuotaBytes,
	}
	if raw.AwaitTimeout != "" {
		d, err := time.ParseDuration(raw.AwaitTimeout)
		if err != nil {
			return scriq.Config{}, fmt.Errorf("config %s: await_timeout: %w", path, err)
		}
		cfg.AwaitTimeout = d
	}
	return cfg, nil
}
