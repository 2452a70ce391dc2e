// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling and exit codes for rigrun-bench commands.
//
// Commands always return errors and never exit themselves; App.Execute
// prints them once and maps them to an exit code with GetExitCode.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/rigrun-bench/internal/benchmark"
	"github.com/jeranaias/rigrun-bench/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// ExitCodeFor maps a benchmark failure kind to the exit code used by --strict.
func ExitCodeFor(kind benchmark.ErrorKind) int {
	switch kind {
	case benchmark.KindNone:
		return ExitSuccess
	case benchmark.KindServerUnreachable, benchmark.KindOutdatedDependencyVersion:
		return ExitNetworkError
	case benchmark.KindExecutableMissing:
		return ExitNotFoundError
	case benchmark.KindCommandTimedOut:
		return ExitTimeoutError
	default:
		return ExitGeneralError
	}
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ExitError carries an exit code. Silent errors have already been shown to
// the user and are not printed again.
type ExitError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// UsageError represents invalid flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ConfigError represents a config file that could not be loaded or is invalid.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// DISPLAY
// =============================================================================

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return ExitConfigError
	}
	var validateErrs config.ValidateErrors
	if errors.As(err, &validateErrs) {
		return ExitConfigError
	}

	if errors.Is(err, os.ErrNotExist) {
		return ExitNotFoundError
	}

	return ExitGeneralError
}

// DisplayError prints err to w unless it is silent.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Silent {
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error:"), err.Error())
}
