// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"errors"

	"github.com/jeranaias/rigrun-bench/internal/runner"
)

// ErrorKind tags why a run stopped.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindServerUnreachable
	KindExecutableMissing
	KindOutdatedDependencyVersion
	KindGenericCommandFailure
	KindCommandTimedOut
	KindEmptyOutput
	KindTableNotFound
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return ""
	case KindServerUnreachable:
		return "server_unreachable"
	case KindExecutableMissing:
		return "executable_missing"
	case KindOutdatedDependencyVersion:
		return "outdated_dependency_version"
	case KindGenericCommandFailure:
		return "command_failure"
	case KindCommandTimedOut:
		return "command_timed_out"
	case KindEmptyOutput:
		return "empty_output"
	case KindTableNotFound:
		return "table_not_found"
	default:
		return "unknown"
	}
}

// Error is a terminal run failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of a *Error anywhere in err's chain, KindNone for
// nil, and KindGenericCommandFailure for anything else.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var benchErr *Error
	if errors.As(err, &benchErr) {
		return benchErr.Kind
	}
	return KindGenericCommandFailure
}

// kindFromRunner maps a process failure onto a run failure.
func kindFromRunner(k runner.Kind) ErrorKind {
	switch k {
	case runner.KindSuccess:
		return KindNone
	case runner.KindExecutableMissing:
		return KindExecutableMissing
	case runner.KindOutdatedServer:
		return KindOutdatedDependencyVersion
	case runner.KindTimedOut:
		return KindCommandTimedOut
	default:
		return KindGenericCommandFailure
	}
}
