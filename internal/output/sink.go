// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package output renders parsed tables and status messages.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/rigrun-bench/internal/table"
)

// Level classifies a message.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelHint  Level = "hint"
	// LevelRaw is echoed verbatim with no styling.
	LevelRaw Level = "raw"
)

// Message is one line (or block, for LevelRaw) of user-facing text.
type Message struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	// Link is appended after Text; consoles that support it render a hyperlink.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Errorf builds a LevelError message.
func Errorf(format string, args ...any) Message {
	return Message{Level: LevelError, Text: fmt.Sprintf(format, args...)}
}

// Infof builds a LevelInfo message.
func Infof(format string, args ...any) Message {
	return Message{Level: LevelInfo, Text: fmt.Sprintf(format, args...)}
}

// Hint builds a LevelHint message.
func Hint(text string) Message {
	return Message{Level: LevelHint, Text: text}
}

// Raw builds a verbatim message.
func Raw(text string) Message {
	return Message{Level: LevelRaw, Text: text}
}

// Status summarizes a finished run for sinks that emit one document.
type Status struct {
	RunID   string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Success bool   `json:"success" yaml:"success"`
	// Kind is empty on success, otherwise the error kind name.
	Kind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
}

// Sink receives everything a run shows the user.
type Sink interface {
	Table(t *table.Table) error
	Message(m Message) error
	// Flush is called exactly once when the run is over.
	Flush(s Status) error
}

// =============================================================================
// FORMATS
// =============================================================================

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (supported: table, text, json, yaml)", s)
}

// New returns the sink for format writing to w. color only affects the
// console formats.
func New(format Format, w io.Writer, color bool) (Sink, error) {
	switch format {
	case FormatTable, "":
		return NewConsole(w, color), nil
	case FormatText:
		return NewText(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	case FormatYAML:
		return NewYAML(w), nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}
