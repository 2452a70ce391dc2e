// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package benchmark runs llm-benchmark and renders its result table.
package benchmark

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/rigrun-bench/internal/output"
	"github.com/jeranaias/rigrun-bench/internal/runner"
	"github.com/jeranaias/rigrun-bench/internal/table"
)

// User-facing names and links.
const (
	ToolName       = "llm-benchmark"
	InstallCommand = "pip install llm-benchmark"
	DownloadURL    = "https://ollama.com/download"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Prober reports whether the inference server is reachable.
type Prober interface {
	IsRunning(ctx context.Context) bool
}

// VersionReporter is optionally implemented by a Prober; the version is
// shown alongside the outdated-server message.
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

// Executor runs the benchmark command.
type Executor interface {
	Execute(ctx context.Context) *runner.Result
}

// CommandExecutor runs a fixed command line with runner.Run.
type CommandExecutor struct {
	Config runner.Config
}

// Execute runs the configured command.
func (e CommandExecutor) Execute(ctx context.Context) *runner.Result {
	return runner.Run(ctx, e.Config)
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner drives one benchmark run.
// Note: Runner is not thread-safe and should not be used concurrently
// from multiple goroutines.
type Runner struct {
	prober   Prober
	exec     Executor
	sink     output.Sink
	log      logrus.FieldLogger
	keywords []string
	newID    func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithHeaderKeywords overrides the keywords used to find the table header.
func WithHeaderKeywords(keywords ...string) Option {
	return func(r *Runner) {
		r.keywords = keywords
	}
}

// NewRunner creates a new benchmark runner.
func NewRunner(p Prober, e Executor, sink output.Sink, opts ...Option) *Runner {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	r := &Runner{
		prober:   p,
		exec:     e,
		sink:     sink,
		log:      quiet,
		keywords: table.DefaultHeaderKeywords,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome is the result of one run.
type Outcome struct {
	RunID    string
	Kind     ErrorKind
	Err      error
	Table    *table.Table
	Duration time.Duration
}

// Run probes the server, runs the benchmark and renders its table. Failures
// are reported on the sink and recorded in the Outcome; Run never panics on
// them and never retries.
func (r *Runner) Run(ctx context.Context) *Outcome {
	start := time.Now()
	out := &Outcome{RunID: r.newID()}
	log := r.log.WithField("run_id", out.RunID)

	out.Table, out.Err = r.run(ctx, log)
	out.Kind = KindOf(out.Err)
	out.Duration = time.Since(start)

	log.WithFields(logrus.Fields{
		"kind":     out.Kind.String(),
		"duration": FormatDuration(out.Duration),
	}).Debug("benchmark run finished")

	if err := r.sink.Flush(statusOf(out)); err != nil {
		log.WithError(err).Warn("failed to flush output")
	}
	return out
}

func (r *Runner) run(ctx context.Context, log logrus.FieldLogger) (*table.Table, error) {
	log.Debug("probing inference server")
	if !r.prober.IsRunning(ctx) {
		r.emit(
			output.Errorf("Error: Ollama server is not running."),
			output.Hint("Please start the Ollama server to run the benchmark."),
		)
		return nil, &Error{Kind: KindServerUnreachable, Message: "Ollama server is not running"}
	}

	log.Debug("running benchmark command")
	res := r.exec.Execute(ctx)
	log.WithFields(logrus.Fields{
		"command":   res.Command,
		"exit_code": res.ExitCode,
		"kind":      res.Kind.String(),
		"duration":  FormatDuration(res.Duration),
	}).Debug("benchmark command finished")

	if !res.OK() {
		return nil, r.reportCommandFailure(ctx, res)
	}

	return Display(r.sink, res.Stdout, r.keywords...)
}

func (r *Runner) reportCommandFailure(ctx context.Context, res *runner.Result) error {
	kind := kindFromRunner(res.Kind)
	cause := res.Err()

	switch kind {
	case KindExecutableMissing:
		r.emit(
			output.Errorf("Error: %s command not found.", ToolName),
			output.Hint("Please make sure you have installed the "+ToolName+" library:"),
			output.Hint(InstallCommand),
		)
		return &Error{Kind: kind, Message: ToolName + " command not found", Cause: cause}

	case KindOutdatedDependencyVersion:
		r.emit(
			output.Errorf("Error: Your Ollama version is outdated."),
			output.Hint("The benchmark requires a newer version of Ollama to download the models."),
		)
		if v := r.serverVersion(ctx); v != "" {
			r.emit(output.Hint("Installed Ollama version: " + v))
		}
		r.emit(output.Message{Level: output.LevelInfo, Text: "Please download the latest version from: ", Link: DownloadURL})
		return &Error{Kind: kind, Message: "Ollama version is outdated", Cause: cause}

	case KindCommandTimedOut:
		r.emit(
			output.Errorf("Error running %s: %v", ToolName, cause),
			output.Hint("Increase --timeout or command.timeout_secs, or set it to 0 to wait indefinitely."),
		)
		return &Error{Kind: kind, Message: ToolName + " timed out", Cause: cause}

	default:
		r.emit(
			output.Errorf("Error running %s: %v", ToolName, cause),
			output.Raw("Stderr: "+res.Stderr),
		)
		return &Error{Kind: KindGenericCommandFailure, Message: ToolName + " failed", Cause: cause}
	}
}

func (r *Runner) serverVersion(ctx context.Context) string {
	vr, ok := r.prober.(VersionReporter)
	if !ok {
		return ""
	}
	v, err := vr.Version(ctx)
	if err != nil {
		r.log.WithError(err).Debug("could not read server version")
		return ""
	}
	return v
}

func (r *Runner) emit(msgs ...output.Message) {
	for _, m := range msgs {
		if err := r.sink.Message(m); err != nil {
			r.log.WithError(err).Warn("failed to write message")
		}
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// Display parses raw benchmark output and renders it on sink. When no table
// can be found the full raw output is echoed so nothing is lost.
func Display(sink output.Sink, raw string, keywords ...string) (*table.Table, error) {
	tbl, err := table.Parse(raw, table.WithHeaderKeywords(keywords...))
	switch {
	case errors.Is(err, table.ErrNoOutput):
		sink.Message(output.Errorf("Benchmark returned no output."))
		return nil, &Error{Kind: KindEmptyOutput, Message: "benchmark returned no output"}

	case errors.Is(err, table.ErrTableNotFound):
		sink.Message(output.Errorf("Could not find the benchmark result table in the output."))
		sink.Message(output.Infof("Full output:"))
		sink.Message(output.Raw(raw))
		return nil, &Error{Kind: KindTableNotFound, Message: "result table not found"}

	case err != nil:
		return nil, err
	}

	if err := sink.Table(tbl); err != nil {
		return tbl, err
	}
	return tbl, nil
}

func statusOf(o *Outcome) output.Status {
	return output.Status{
		RunID:   o.RunID,
		Success: o.Err == nil,
		Kind:    o.Kind.String(),
	}
}
