// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect reports which accelerator a benchmark run will use.
//
// Benchmark numbers are only comparable between runs on the same hardware,
// so doctor prints what it finds. Supported accelerators:
//   - NVIDIA (via nvidia-smi)
//   - AMD (via rocm-smi, Linux only)
//   - Apple Silicon (via sysctl on darwin/arm64)
//
// Anything else is reported as CPU.
package detect
