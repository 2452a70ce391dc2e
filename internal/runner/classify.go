// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// =============================================================================
// KINDS
// =============================================================================

// Kind tags how a command run ended.
type Kind int

const (
	KindSuccess Kind = iota
	// KindExecutableMissing: the executable is not on PATH.
	KindExecutableMissing
	// KindOutdatedServer: llm_benchmark could not pull a model manifest
	// because the local Ollama is too old.
	KindOutdatedServer
	// KindCommandFailed: any other non-zero exit or start failure.
	KindCommandFailed
	// KindTimedOut: the configured timeout elapsed.
	KindTimedOut
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindExecutableMissing:
		return "executable_missing"
	case KindOutdatedServer:
		return "outdated_server"
	case KindCommandFailed:
		return "command_failed"
	case KindTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// =============================================================================
// STDERR PATTERNS
// =============================================================================

// Pattern maps stderr text to a Kind. Every substring in AllOf must appear.
type Pattern struct {
	Kind  Kind
	AllOf []string
}

// Matches reports whether stderr contains every substring of the pattern.
func (p Pattern) Matches(stderr string) bool {
	if len(p.AllOf) == 0 {
		return false
	}
	for _, s := range p.AllOf {
		if !strings.Contains(stderr, s) {
			return false
		}
	}
	return true
}

// Patterns are checked in order against stderr of a non-zero exit.
var Patterns = []Pattern{
	{Kind: KindOutdatedServer, AllOf: []string{"pull model manifest", "newer version of Ollama"}},
}

// Classify returns the Kind for a failed run. Priority: missing executable,
// then the first matching stderr pattern, then KindCommandFailed.
func Classify(err error, stderr string) Kind {
	if err == nil {
		return KindSuccess
	}
	if isNotFound(err) {
		return KindExecutableMissing
	}
	for _, p := range Patterns {
		if p.Matches(stderr) {
			return p.Kind
		}
	}
	return KindCommandFailed
}

func isNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}

// =============================================================================
// ERROR
// =============================================================================

// Error is a failed run as an error value.
type Error struct {
	Kind     Kind
	Command  string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindExecutableMissing:
		return fmt.Sprintf("%s: command not found", e.Command)
	case KindTimedOut:
		return fmt.Sprintf("%s: %v", e.Command, e.Cause)
	}
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Cause)
	}
	return e.Command + " failed"
}

func (e *Error) Unwrap() error {
	return e.Cause
}
