// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for rigrun-bench.
//
// Colors are used only when stdout is a terminal, unless overridden:
// - NO_COLOR (any non-empty value) disables colors (https://no-color.org/)
// - FORCE_COLOR (any non-empty value) enables them for piped output
// - --no-color and the [output] color setting beat both

package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/rigrun-bench/internal/config"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

// ColorsEnabled decides whether output written to w should be colored.
// mode is one of config.ColorAuto, config.ColorAlways, config.ColorNever.
func ColorsEnabled(mode string, w io.Writer, getenv func(string) string) bool {
	switch mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	}

	// NO_COLOR takes precedence (any non-empty value disables colors)
	if getenv("NO_COLOR") != "" {
		return false
	}
	// FORCE_COLOR overrides TTY detection
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return isTerminal(w)
}

// applyColorProfile points the shared lipgloss styles at the right profile.
func applyColorProfile(enabled bool) {
	if !enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	// Let termenv auto-detect the best profile for this terminal
	profile := termenv.ColorProfile()
	if profile == termenv.Ascii {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
