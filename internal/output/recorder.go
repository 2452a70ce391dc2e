// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"strings"

	"github.com/jeranaias/rigrun-bench/internal/table"
)

// Recorder is a Sink that keeps everything it is given. Tests use it to
// inspect output without a terminal.
type Recorder struct {
	Tables   []*table.Table
	Messages []Message
	Status   *Status
	Flushes  int
}

// Table records t.
func (r *Recorder) Table(t *table.Table) error {
	r.Tables = append(r.Tables, t)
	return nil
}

// Message records m.
func (r *Recorder) Message(m Message) error {
	r.Messages = append(r.Messages, m)
	return nil
}

// Flush records the final status.
func (r *Recorder) Flush(s Status) error {
	r.Status = &s
	r.Flushes++
	return nil
}

// Text joins the text of every message, one per line.
func (r *Recorder) Text() string {
	lines := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		lines = append(lines, m.Text+m.Link)
	}
	return strings.Join(lines, "\n")
}

// Levels returns the level of every message in order.
func (r *Recorder) Levels() []Level {
	levels := make([]Level, 0, len(r.Messages))
	for _, m := range r.Messages {
		levels = append(levels, m.Level)
	}
	return levels
}
