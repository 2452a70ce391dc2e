// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-bench/internal/detect"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App owns CLI wiring: where output goes and where the environment comes from.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	// Accelerator reports the GPU doctor shows; nil uses detect.New().Detect
	Accelerator func(context.Context) *detect.Accelerator
}

// NewApp constructs an App bound to the process streams.
func NewApp() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,

		Accelerator: detect.New().Detect,
	}
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	DisplayError(a.Stderr, err)
	return GetExitCode(err)
}

// RootCommand exposes the root command for tests and doc generation.
func (a *App) RootCommand() *cobra.Command {
	return newRootCmd(a)
}

// Execute runs rigrun-bench with the process arguments.
func Execute(ctx context.Context) int {
	return NewApp().Execute(ctx, os.Args[1:])
}
