// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the rigrun-bench command tree.
//
// Commands:
//
//	rigrun-bench [run]         Check Ollama, run llm_benchmark, show the table
//	rigrun-bench parse [FILE]  Format captured llm_benchmark output (stdin with -)
//	rigrun-bench doctor        Check the server, the benchmark tool and the config
//	rigrun-bench config show   Print the effective configuration
//	rigrun-bench config init   Write the default configuration file
//	rigrun-bench version       Print version information
//
// A benchmark run always exits 0, whatever happened, unless --strict is set;
// then the failure kind picks the exit code (see ExitCodeFor).
package cli
