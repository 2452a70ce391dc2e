// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Structured output for commands other than run/parse.
//
// doctor, config show and version emit the same envelope in JSON and YAML
// so scripts can consume them.

package cli

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigrun-bench/internal/output"
)

// Response is the envelope for structured command output.
type Response struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success" yaml:"success"`

	// Data contains the command-specific payload
	Data any `json:"data" yaml:"data"`

	// Error contains the error message if Success is false
	Error *string `json:"error" yaml:"error"`

	// Timestamp is when the response was generated (RFC3339, UTC)
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// Command is the command that produced the response
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// NewResponse creates a successful response.
func NewResponse(command string, data any) *Response {
	return &Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Fail marks the response as failed with msg.
func (r *Response) Fail(msg string) *Response {
	r.Success = false
	r.Error = &msg
	return r
}

// Write encodes the response in format. Only json and yaml are structured;
// callers handle the console formats themselves.
func (r *Response) Write(w io.Writer, format output.Format) error {
	if format == output.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// isStructured reports whether format is machine-readable.
func isStructured(format output.Format) bool {
	return format == output.FormatJSON || format == output.FormatYAML
}
