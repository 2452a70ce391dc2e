// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jeranaias/rigrun-bench/internal/config"
	"github.com/jeranaias/rigrun-bench/internal/logging"
	"github.com/jeranaias/rigrun-bench/internal/output"
)

// globalFlags holds the persistent flag values.
type globalFlags struct {
	configPath string
	url        string
	command    string
	format     string
	noColor    bool
	verbose    bool
	wait       time.Duration
	timeout    time.Duration
	strict     bool
}

// settings is the resolved configuration for one invocation:
// defaults, then the config file, then env, then flags.
type settings struct {
	cfg        *config.Config
	configPath string
	// configErr is set when the config could not be loaded or is invalid.
	// Only commands annotated config-tolerant run with it set.
	configErr error

	format         output.Format
	color          bool
	wait           time.Duration
	commandTimeout time.Duration
	strict         bool
	log            *logrus.Logger
}

func newRootCmd(app *App) *cobra.Command {
	flags := &globalFlags{}
	st := &settings{}

	rootCmd := &cobra.Command{
		Use:   "rigrun-bench",
		Short: "Run llm-benchmark against a local Ollama server and show the results",
		Long: `rigrun-bench checks that the local Ollama server is up, runs
"llm_benchmark run" and shows its result table.`,
		Example: `  rigrun-bench                     Check Ollama and run the benchmark
  rigrun-bench --wait 30s          Give Ollama 30s to come up first
  rigrun-bench --format json       Emit one JSON document
  llm_benchmark run | rigrun-bench parse -`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.resolve(cmd, app, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, app, st)
		},
	}
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("rigrun-bench %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate))
	rootCmd.SetIn(app.Stdin)
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.rigrun-bench/config.toml)")
	pf.StringVar(&flags.url, "url", "", "Ollama server URL (default http://localhost:11434/)")
	pf.StringVar(&flags.command, "command", "", "Benchmark executable (default llm_benchmark)")
	pf.StringVarP(&flags.format, "format", "o", "", "Output format: table|text|json|yaml")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log diagnostics to stderr")
	pf.DurationVar(&flags.wait, "wait", 0, "Wait up to this long for Ollama to come up (0 = probe once)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "Kill the benchmark after this long (0 = no limit)")
	pf.BoolVar(&flags.strict, "strict", false, "Exit non-zero when the benchmark run fails")

	rootCmd.AddCommand(
		newRunCmd(app, st),
		newParseCmd(app, st),
		newDoctorCmd(app, st),
		newConfigCmd(app, st),
		newVersionCmd(app, st),
	)

	return rootCmd
}

// resolve layers the config file, env and flags into st.
func (st *settings) resolve(cmd *cobra.Command, app *App, flags *globalFlags) error {
	path := flags.configPath
	if path == "" {
		if p, err := config.ConfigPath(); err == nil {
			path = p
		}
	}
	st.configPath = path

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		st.configErr = &ConfigError{Path: path, Err: err}
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}

	fs := cmd.Flags()
	if flagChanged(fs, "url") {
		cfg.Server.URL = flags.url
	}
	if flagChanged(fs, "command") {
		cfg.Command.Name = flags.command
	}
	if flagChanged(fs, "format") {
		cfg.Output.Format = flags.format
	}
	if flagChanged(fs, "no-color") && flags.noColor {
		cfg.Output.Color = config.ColorNever
	}

	if st.configErr == nil {
		if err := cfg.Validate(); err != nil {
			st.configErr = &ConfigError{Path: path, Err: err}
		}
	}
	st.cfg = cfg

	st.wait = cfg.Wait()
	if flagChanged(fs, "wait") {
		st.wait = flags.wait
	}
	st.commandTimeout = cfg.CommandTimeout()
	if flagChanged(fs, "timeout") {
		st.commandTimeout = flags.timeout
	}
	if st.wait < 0 || st.commandTimeout < 0 {
		return &UsageError{Err: fmt.Errorf("--wait and --timeout must not be negative")}
	}
	st.strict = flags.strict

	st.format, err = output.ParseFormat(cfg.Output.Format)
	if err != nil {
		st.format = output.FormatTable
	}
	st.color = ColorsEnabled(cfg.Output.Color, app.Stdout, app.Getenv)
	applyColorProfile(st.color)

	st.log = logging.New(app.Stderr, logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: flags.verbose,
		Color:   ColorsEnabled(cfg.Output.Color, app.Stderr, app.Getenv),
	})
	st.log.WithFields(logrus.Fields{
		"config":  path,
		"url":     cfg.Server.URL,
		"command": cfg.Command.Name,
		"format":  st.format,
	}).Debug("settings resolved")

	if st.configErr != nil && !toleratesConfigErrors(cmd) {
		return st.configErr
	}
	return nil
}

// toleratesConfigErrors reports whether cmd still runs with a broken config.
func toleratesConfigErrors(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationConfigTolerant] == "true"
}

const annotationConfigTolerant = "config-tolerant"

// noArgs rejects positional arguments with a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Err: fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

// maxArgs is cobra.MaximumNArgs with a usage error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return &UsageError{Err: fmt.Errorf("%s accepts at most %d arg(s), received %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

// flagChanged reports whether a flag was set on the command line.
func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
