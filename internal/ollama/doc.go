// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama probes the local Ollama server.
//
// The benchmark only ever needs to know whether the server answers, so the
// client is deliberately small: a root GET for availability and /api/version
// for diagnostics.
//
// # Usage
//
//	client := ollama.NewClient()
//	if !client.IsRunning(ctx) {
//	    // tell the user to start `ollama serve`
//	}
//
// To block until a server that is still starting comes up:
//
//	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
//	defer cancel()
//	err := client.WaitUntilRunning(ctx, 500*time.Millisecond)
package ollama
