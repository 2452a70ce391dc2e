// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for rigrun-bench.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/rigrun-bench/internal/ollama"
	"github.com/jeranaias/rigrun-bench/internal/output"
	"github.com/jeranaias/rigrun-bench/internal/runner"
	"github.com/jeranaias/rigrun-bench/internal/table"
	"github.com/jeranaias/rigrun-bench/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigrun-bench configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server" yaml:"server"`
	Command CommandConfig `toml:"command" json:"command" yaml:"command"`
	Table   TableConfig   `toml:"table" json:"table" yaml:"table"`
	Output  OutputConfig  `toml:"output" json:"output" yaml:"output"`
	Log     LogConfig     `toml:"log" json:"log" yaml:"log"`
}

// ServerConfig describes the Ollama server to probe.
type ServerConfig struct {
	// URL is probed with a GET; only 200 OK counts as running
	URL string `toml:"url" json:"url" yaml:"url"`
	// ProbeTimeoutSecs bounds the probe (0 = no timeout)
	ProbeTimeoutSecs int `toml:"probe_timeout_secs" json:"probe_timeout_secs" yaml:"probe_timeout_secs"`
	// WaitSecs keeps probing for up to this long before giving up (0 = probe once)
	WaitSecs int `toml:"wait_secs" json:"wait_secs" yaml:"wait_secs"`
}

// CommandConfig describes the benchmark command line.
type CommandConfig struct {
	Name    string   `toml:"name" json:"name" yaml:"name"`
	Args    []string `toml:"args" json:"args" yaml:"args"`
	WorkDir string   `toml:"work_dir" json:"work_dir" yaml:"work_dir"`
	// TimeoutSecs kills the command after this long (0 = wait forever)
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
}

// TableConfig controls how the result table is located.
type TableConfig struct {
	// HeaderKeywords must all appear on the header line
	HeaderKeywords []string `toml:"header_keywords" json:"header_keywords" yaml:"header_keywords"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	// Format is one of: table, text, json, yaml
	Format string `toml:"format" json:"format" yaml:"format"`
	// Color is one of: auto, always, never
	Color string `toml:"color" json:"color" yaml:"color"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is a logrus level name (default: warn)
	Level string `toml:"level" json:"level" yaml:"level"`
	// Format is "text" or "json"
	Format string `toml:"format" json:"format" yaml:"format"`
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: ollama.DefaultBaseURL,
		},
		Command: CommandConfig{
			Name: runner.DefaultCommand,
			Args: []string{runner.DefaultArg},
		},
		Table: TableConfig{
			HeaderKeywords: append([]string(nil), table.DefaultHeaderKeywords...),
		},
		Output: OutputConfig{
			Format: string(output.FormatTable),
			Color:  ColorAuto,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ProbeTimeout returns the probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Server.ProbeTimeoutSecs) * time.Second
}

// Wait returns how long to wait for the server to come up.
func (c *Config) Wait() time.Duration {
	return time.Duration(c.Server.WaitSecs) * time.Second
}

// CommandTimeout returns the command timeout as a duration.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Command.TimeoutSecs) * time.Second
}

// RunnerConfig returns the process configuration for the benchmark command.
func (c *Config) RunnerConfig() runner.Config {
	return runner.Config{
		Command: c.Command.Name,
		Args:    append([]string(nil), c.Command.Args...),
		WorkDir: c.Command.WorkDir,
		Timeout: c.CommandTimeout(),
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.rigrun-bench.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rigrun-bench"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config at path (or the default path when empty) on top of
// the defaults and applies environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			cfg := Default()
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		path = p
	}

	cfg, err := LoadFromPath(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadFromPath decodes a TOML file on top of the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Save writes cfg as TOML to path atomically, creating the directory if
// needed.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides:
//   - RIGRUN_BENCH_OLLAMA_URL: overrides server.url
//   - RIGRUN_BENCH_COMMAND: overrides command.name
//   - RIGRUN_BENCH_FORMAT: overrides output.format
//   - RIGRUN_BENCH_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RIGRUN_BENCH_OLLAMA_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("RIGRUN_BENCH_COMMAND"); v != "" {
		c.Command.Name = v
	}
	if v := os.Getenv("RIGRUN_BENCH_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("RIGRUN_BENCH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateErrors collects every invalid field.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks every field and returns ValidateErrors, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.Server.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("server.url", "must be an http(s) URL (got %q)", c.Server.URL)
	}
	if c.Server.ProbeTimeoutSecs < 0 {
		add("server.probe_timeout_secs", "must not be negative")
	}
	if c.Server.WaitSecs < 0 {
		add("server.wait_secs", "must not be negative")
	}

	if strings.TrimSpace(c.Command.Name) == "" {
		add("command.name", "must not be empty")
	}
	if c.Command.TimeoutSecs < 0 {
		add("command.timeout_secs", "must not be negative")
	}

	keywords := 0
	for _, k := range c.Table.HeaderKeywords {
		if strings.TrimSpace(k) != "" {
			keywords++
		}
	}
	if keywords == 0 {
		add("table.header_keywords", "must contain at least one keyword")
	}

	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		add("output.format", "%v", err)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		add("output.color", "must be auto, always or never (got %q)", c.Output.Color)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "%v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		add("log.format", "must be text or json (got %q)", c.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
