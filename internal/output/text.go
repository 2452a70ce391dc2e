// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/rigrun-bench/internal/table"
)

// columnGap separates columns in plain text output. Two spaces keeps the
// output re-parseable by table.Parse.
const columnGap = "  "

// Text writes unstyled, space-aligned columns, for pipes and logs.
type Text struct {
	w io.Writer
}

// NewText creates a plain text sink.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Table writes the header, a dash separator and the rows.
func (s *Text) Table(t *table.Table) error {
	widths := make([]int, t.Width())
	measure := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = strings.Repeat("-", max(widths[i], 1))
	}

	var b strings.Builder
	writeRow(&b, t.Header, widths)
	writeRow(&b, sep, widths)
	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}
	_, err := io.WriteString(s.w, b.String())
	return err
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	var line strings.Builder
	for i, cell := range row {
		if i > 0 {
			line.WriteString(columnGap)
		}
		line.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}

// Message writes m.Text (and its link) without styling.
func (s *Text) Message(m Message) error {
	text := m.Text
	if m.Link != "" {
		text += m.Link
	}
	_, err := fmt.Fprintln(s.w, text)
	return err
}

// Flush is a no-op.
func (s *Text) Flush(Status) error {
	return nil
}
