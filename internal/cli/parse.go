// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-bench/internal/benchmark"
	"github.com/jeranaias/rigrun-bench/internal/output"
	"github.com/jeranaias/rigrun-bench/internal/runner"
)

func newParseCmd(app *App, st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [FILE|-]",
		Short: "Format captured llm_benchmark output without running anything",
		Long: `Reads llm_benchmark output from FILE (or stdin when FILE is "-" or
omitted) and shows its result table. The server is not probed.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			return parseOutput(app, st, src)
		},
	}
}

func parseOutput(app *App, st *settings, src string) error {
	raw, err := readSource(app.Stdin, src)
	if err != nil {
		return err
	}

	sink, err := output.New(st.format, app.Stdout, st.color)
	if err != nil {
		return &UsageError{Err: err}
	}

	_, err = benchmark.Display(sink, runner.DecodeText(raw), st.cfg.Table.HeaderKeywords...)
	kind := benchmark.KindOf(err)

	status := output.Status{RunID: uuid.NewString(), Success: err == nil}
	if err != nil {
		status.Kind = kind.String()
	}
	st.log.WithField("run_id", status.RunID).WithField("kind", kind.String()).Debug("parse finished")

	if flushErr := sink.Flush(status); flushErr != nil {
		return flushErr
	}
	return st.exitFor(kind, err)
}

// readSource reads FILE, or stdin for "-".
func readSource(stdin io.Reader, src string) ([]byte, error) {
	if src == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return b, nil
}
