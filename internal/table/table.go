// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"errors"
	"regexp"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoOutput is returned when the input is empty or whitespace only.
	ErrNoOutput = errors.New("benchmark returned no output")

	// ErrTableNotFound is returned when no line carries every header keyword.
	ErrTableNotFound = errors.New("could not find the benchmark result table in the output")
)

// DefaultHeaderKeywords identify the header line of llm_benchmark's table:
// the model column and the prompt evaluation speed column.
var DefaultHeaderKeywords = []string{"Model", "Prompt Eval Speed"}

// =============================================================================
// TABLE
// =============================================================================

// Table is a parsed result table.
type Table struct {
	Header []string   `json:"header" yaml:"header"`
	Rows   [][]string `json:"rows" yaml:"rows"`
}

// Headers returns the column titles.
func (t *Table) Headers() []string {
	return t.Header
}

// Columns returns the number of header columns.
func (t *Table) Columns() int {
	return len(t.Header)
}

// Width returns the widest row, which is never less than the header width.
func (t *Table) Width() int {
	w := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// =============================================================================
// TOKENIZER
// =============================================================================

// columnSep matches the gap between two columns.
var columnSep = regexp.MustCompile(`\s{2,}`)

// SplitColumns splits one line into trimmed cells on runs of two or more
// whitespace characters. Leading and trailing whitespace is ignored, so a blank
// line yields no cells.
func SplitColumns(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := columnSep.Split(line, -1)
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// =============================================================================
// PARSER
// =============================================================================

// Option configures Parse.
type Option func(*parser)

type parser struct {
	keywords []string
}

// WithHeaderKeywords overrides the keywords a line must contain to be taken as
// the header. Empty keywords are ignored; an empty set keeps the defaults.
func WithHeaderKeywords(keywords ...string) Option {
	return func(p *parser) {
		kept := make([]string, 0, len(keywords))
		for _, k := range keywords {
			if k != "" {
				kept = append(kept, k)
			}
		}
		if len(kept) > 0 {
			p.keywords = kept
		}
	}
}

// Parse locates the header line in raw and returns the table below it.
//
// The line right after the header is skipped unconditionally (it is the dash
// separator). Blank lines and lines starting with '-' are dropped.
func Parse(raw string, opts ...Option) (*Table, error) {
	p := &parser{keywords: DefaultHeaderKeywords}
	for _, opt := range opts {
		opt(p)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoOutput
	}
	lines := strings.Split(trimmed, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	headerIdx := p.findHeader(lines)
	if headerIdx < 0 {
		return nil, ErrTableNotFound
	}

	header := SplitColumns(lines[headerIdx])
	t := &Table{Header: header, Rows: make([][]string, 0)}

	start := headerIdx + 2
	if start > len(lines) {
		return t, nil
	}
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "-") {
			continue
		}
		t.Rows = append(t.Rows, Pad(SplitColumns(line), len(header)))
	}
	return t, nil
}

// findHeader returns the index of the first line containing every keyword,
// or -1.
func (p *parser) findHeader(lines []string) int {
	for i, line := range lines {
		if containsAll(line, p.keywords) {
			return i
		}
	}
	return -1
}

func containsAll(line string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(line, k) {
			return false
		}
	}
	return true
}

// Pad right-pads row with empty cells up to n. Rows already n or longer are
// returned unchanged.
func Pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}
