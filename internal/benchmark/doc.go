// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package benchmark runs llm-benchmark against the local Ollama server and
// shows its result table.
//
// A run is strictly sequential:
//
//  1. probe the server (abort with ServerUnreachable if it is down)
//  2. run `llm_benchmark run` and wait for it
//  3. parse its stdout into a table
//  4. render the table
//
// Every failure is terminal for the run and is reported on the output sink
// with installation or upgrade guidance. Nothing is retried.
//
// # Usage
//
//	r := benchmark.NewRunner(
//	    ollama.NewClient(),
//	    benchmark.CommandExecutor{Config: runner.Config{Command: "llm_benchmark", Args: []string{"run"}}},
//	    output.NewConsole(os.Stdout, true),
//	)
//	outcome := r.Run(ctx)
//	if outcome.Err != nil {
//	    // already shown to the user; outcome.Kind says what went wrong
//	}
package benchmark
