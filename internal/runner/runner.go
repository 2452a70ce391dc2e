// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Default command line for llm-benchmark.
const (
	DefaultCommand = "llm_benchmark"
	DefaultArg     = "run"
)

const waitDelay = 2 * time.Second

// Config holds the configuration for one command execution.
type Config struct {
	// Command is the name or path of the executable (required)
	Command string

	// Args are the command-line arguments
	Args []string

	// WorkDir is the working directory; empty inherits ours
	WorkDir string

	// Env is passed as-is when non-nil; nil inherits our environment
	Env []string

	// Timeout kills the process after this long. Zero means no timeout.
	Timeout time.Duration
}

// Result is the outcome of one execution.
type Result struct {
	Kind     Kind
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration

	// Cause is the underlying exec error for failed runs.
	Cause error
}

// OK reports whether the command exited with status 0.
func (r *Result) OK() bool {
	return r.Kind == KindSuccess
}

// Err returns nil for successful runs and a *Error otherwise.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Kind: r.Kind, Command: r.Command, ExitCode: r.ExitCode, Stderr: r.Stderr, Cause: r.Cause}
}

// Run executes cfg and captures both output streams as text. A non-zero exit
// is a failure; its Kind comes from Classify.
func Run(ctx context.Context, cfg Config) *Result {
	res := &Result{Command: cfg.Command, ExitCode: -1}
	if cfg.Command == "" {
		res.Kind = KindExecutableMissing
		res.Cause = errors.New("command is required")
		return res
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	if cfg.WorkDir != "" {
		cmd.Dir = cfg.WorkDir
	}
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}

	// Grandchildren can hold the pipes open after a kill.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = DecodeText(stdout.Bytes())
	res.Stderr = DecodeText(stderr.Bytes())

	if err == nil {
		res.Kind = KindSuccess
		res.ExitCode = 0
		return res
	}

	res.Cause = err
	if cfg.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Kind = KindTimedOut
		res.Cause = fmt.Errorf("command timed out after %v", cfg.Timeout)
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	res.Kind = Classify(err, res.Stderr)
	return res
}

// LookPath reports where name resolves on PATH.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found in PATH: %w", name, err)
	}
	return path, nil
}
