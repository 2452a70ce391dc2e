// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for rigrun-bench.
//
// Everything has a working default, so the config file is optional. Values
// are layered, later wins:
//
//   - Built-in defaults (Default)
//   - ~/.rigrun-bench/config.toml, or the file given with --config
//   - RIGRUN_BENCH_* environment variables (ApplyEnvOverrides)
//   - Command-line flags (applied by the cli package)
//
// # Example
//
//	[server]
//	url = "http://localhost:11434/"
//	probe_timeout_secs = 0
//
//	[command]
//	name = "llm_benchmark"
//	args = ["run"]
//
//	[table]
//	header_keywords = ["Model", "Prompt Eval Speed"]
package config
