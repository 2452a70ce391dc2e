// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigrun-bench/internal/table"
)

// Console renders a bordered lipgloss table and colored messages.
type Console struct {
	w        io.Writer
	color    bool
	term     *termenv.Output
	renderer *lipgloss.Renderer

	headerStyle lipgloss.Style
	cellStyle   lipgloss.Style
	borderStyle lipgloss.Style
	errorStyle  lipgloss.Style
	warnStyle   lipgloss.Style
	hintStyle   lipgloss.Style
}

// NewConsole creates a console sink. With color false everything is rendered
// with the ASCII profile (no escape sequences).
func NewConsole(w io.Writer, color bool) *Console {
	profile := termenv.Ascii
	if color {
		profile = termenv.NewOutput(w).EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
	}

	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	re := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	re.SetColorProfile(profile)

	return &Console{
		w:        w,
		color:    color,
		term:     out,
		renderer: re,

		// Bold magenta header, as llm-benchmark users know it.
		headerStyle: re.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Padding(0, 1),
		cellStyle:   re.NewStyle().Padding(0, 1),
		borderStyle: re.NewStyle().Foreground(lipgloss.Color("240")),
		errorStyle:  re.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		warnStyle:   re.NewStyle().Foreground(lipgloss.Color("214")),
		hintStyle:   re.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// Table renders t. Rows wider than the header get untitled extra columns.
func (c *Console) Table(t *table.Table) error {
	headers := table.Pad(append([]string(nil), t.Header...), t.Width())

	lt := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(c.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return c.headerStyle
			}
			return c.cellStyle
		}).
		Headers(headers...).
		Rows(t.Rows...)

	_, err := fmt.Fprintln(c.w, lt.Render())
	return err
}

// Message renders m on its own line.
func (c *Console) Message(m Message) error {
	text := m.Text
	if m.Link != "" {
		text += c.link(m.Link)
	}

	var err error
	switch m.Level {
	case LevelRaw:
		_, err = fmt.Fprintln(c.w, text)
	case LevelError:
		_, err = fmt.Fprintln(c.w, c.errorStyle.Render(text))
	case LevelWarn:
		_, err = fmt.Fprintln(c.w, c.warnStyle.Render(text))
	case LevelHint:
		_, err = fmt.Fprintln(c.w, c.hintStyle.Render(text))
	default:
		_, err = fmt.Fprintln(c.w, text)
	}
	return err
}

// Flush is a no-op; the console writes as it goes.
func (c *Console) Flush(Status) error {
	return nil
}

func (c *Console) link(url string) string {
	if !c.color {
		return url
	}
	return c.term.Hyperlink(url, url)
}
