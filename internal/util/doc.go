// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small file helpers shared by rigrun-bench packages.
//
//	// Write the config so a crash leaves either the old or the new file
//	err := util.AtomicWriteFile(path, data, 0o644)
package util
