// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner executes the external benchmark command and classifies how
// it failed.
//
// Run never returns a bare error. Every outcome is a Result tagged with a
// Kind, so callers switch on the kind instead of searching error strings:
//
//	res := runner.Run(ctx, runner.Config{Command: "llm_benchmark", Args: []string{"run"}})
//	switch res.Kind {
//	case runner.KindSuccess:
//	    fmt.Print(res.Stdout)
//	case runner.KindExecutableMissing:
//	    // suggest pip install llm-benchmark
//	}
package runner
