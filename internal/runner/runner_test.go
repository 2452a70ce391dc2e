// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not on PATH")
	}
}

func sh(script string) Config {
	return Config{Command: "sh", Args: []string{"-c", script}}
}

// =============================================================================
// RUN TESTS
// =============================================================================

func TestRun_Success(t *testing.T) {
	requireShell(t)

	res := Run(context.Background(), sh(`printf 'Model  Prompt Eval Speed\n'; printf 'warn\n' >&2`))

	assert.True(t, res.OK())
	assert.Equal(t, KindSuccess, res.Kind)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "Model  Prompt Eval Speed\n", res.Stdout)
	assert.Equal(t, "warn\n", res.Stderr)
	assert.NoError(t, res.Err())
}

func TestRun_ExecutableMissing(t *testing.T) {
	res := Run(context.Background(), Config{Command: "definitely-not-a-real-binary-rigrun", Args: []string{"run"}})

	assert.Equal(t, KindExecutableMissing, res.Kind)
	assert.Equal(t, -1, res.ExitCode)

	var runErr *Error
	require.ErrorAs(t, res.Err(), &runErr)
	assert.Equal(t, KindExecutableMissing, runErr.Kind)
	assert.Contains(t, runErr.Error(), "command not found")
}

func TestRun_EmptyCommand(t *testing.T) {
	res := Run(context.Background(), Config{})
	assert.Equal(t, KindExecutableMissing, res.Kind)
}

func TestRun_OutdatedServer(t *testing.T) {
	requireShell(t)

	script := `echo 'Error: pull model manifest: 412: The model you are attempting to pull requires a newer version of Ollama.' >&2; exit 1`
	res := Run(context.Background(), sh(script))

	assert.Equal(t, KindOutdatedServer, res.Kind)
	assert.Equal(t, 1, res.ExitCode)
}

func TestRun_GenericFailure(t *testing.T) {
	requireShell(t)

	res := Run(context.Background(), sh(`echo 'pull model manifest: connection reset' >&2; exit 3`))

	assert.Equal(t, KindCommandFailed, res.Kind)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "connection reset")
	assert.EqualError(t, res.Err(), "sh exited with status 3")
}

func TestRun_Timeout(t *testing.T) {
	requireShell(t)

	cfg := sh(`exec sleep 5`)
	cfg.Timeout = 50 * time.Millisecond

	res := Run(context.Background(), cfg)
	assert.Equal(t, KindTimedOut, res.Kind)
	assert.Less(t, res.Duration, 5*time.Second)
}

func TestRun_Env(t *testing.T) {
	requireShell(t)

	cfg := sh(`printf '%s' "$BENCH_MARK"`)
	cfg.Env = []string{"BENCH_MARK=hello"}

	res := Run(context.Background(), cfg)
	require.True(t, res.OK())
	assert.Equal(t, "hello", res.Stdout)
}

// =============================================================================
// CLASSIFY TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	exitErr := errors.New("exit status 1")

	tests := []struct {
		name   string
		err    error
		stderr string
		want   Kind
	}{
		{"success", nil, "", KindSuccess},
		{"not found", &exec.Error{Name: "llm_benchmark", Err: exec.ErrNotFound}, "", KindExecutableMissing},
		{"not found beats stderr", &exec.Error{Name: "x", Err: exec.ErrNotFound}, "pull model manifest newer version of Ollama", KindExecutableMissing},
		{"outdated", exitErr, "Error: pull model manifest: requires a newer version of Ollama", KindOutdatedServer},
		{"manifest only", exitErr, "Error: pull model manifest: file does not exist", KindCommandFailed},
		{"version only", exitErr, "please install a newer version of Ollama", KindCommandFailed},
		{"case sensitive", exitErr, "PULL MODEL MANIFEST newer version of ollama", KindCommandFailed},
		{"other", exitErr, "Traceback (most recent call last):", KindCommandFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err, tc.stderr))
		})
	}
}

func TestPattern_EmptyNeverMatches(t *testing.T) {
	assert.False(t, Pattern{Kind: KindOutdatedServer}.Matches("anything"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "executable_missing", KindExecutableMissing.String())
	assert.Equal(t, "outdated_server", KindOutdatedServer.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

// =============================================================================
// DECODE TESTS
// =============================================================================

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "", DecodeText(nil))
	assert.Equal(t, "Model", DecodeText([]byte("Model")))
	assert.Equal(t, "Model", DecodeText([]byte("\xef\xbb\xbfModel")))
	// UTF-16LE with BOM
	assert.Equal(t, "Hi", DecodeText([]byte{0xff, 0xfe, 'H', 0, 'i', 0}))
	assert.Equal(t, "a�b", DecodeText([]byte("a\xffb")))
}
