// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package benchmark

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-bench/internal/output"
	"github.com/jeranaias/rigrun-bench/internal/runner"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeProber struct {
	running bool
	version string
	calls   int
}

func (p *fakeProber) IsRunning(context.Context) bool {
	p.calls++
	return p.running
}

type versionProber struct {
	fakeProber
}

func (p *versionProber) Version(context.Context) (string, error) {
	if p.version == "" {
		return "", errors.New("no version")
	}
	return p.version, nil
}

type fakeExecutor struct {
	result *runner.Result
	calls  int
}

func (e *fakeExecutor) Execute(context.Context) *runner.Result {
	e.calls++
	return e.result
}

const sampleOutput = `Running benchmarks for 2 models...

Model      Prompt Eval Speed   Eval Speed
---------  ------------------  ----------
llama2     42.10 tok/s         18.30 tok/s
phi3       88.00 tok/s
`

func newTestRunner(p Prober, e Executor) (*Runner, *output.Recorder) {
	rec := &output.Recorder{}
	r := NewRunner(p, e, rec)
	r.newID = func() string { return "run-1" }
	return r, rec
}

// =============================================================================
// RUN TESTS
// =============================================================================

func TestRun_Success(t *testing.T) {
	ex := &fakeExecutor{result: &runner.Result{Kind: runner.KindSuccess, Stdout: sampleOutput, ExitCode: 0}}
	r, rec := newTestRunner(&fakeProber{running: true}, ex)

	out := r.Run(context.Background())

	require.NoError(t, out.Err)
	assert.Equal(t, KindNone, out.Kind)
	assert.Equal(t, "run-1", out.RunID)
	require.Len(t, rec.Tables, 1)
	assert.Equal(t, []string{"Model", "Prompt Eval Speed", "Eval Speed"}, rec.Tables[0].Header)
	assert.Equal(t, [][]string{
		{"llama2", "42.10 tok/s", "18.30 tok/s"},
		{"phi3", "88.00 tok/s", ""},
	}, rec.Tables[0].Rows)
	assert.Empty(t, rec.Messages)

	require.NotNil(t, rec.Status)
	assert.True(t, rec.Status.Success)
	assert.Equal(t, "run-1", rec.Status.RunID)
	assert.Equal(t, 1, rec.Flushes)
}

func TestRun_ServerUnreachable(t *testing.T) {
	ex := &fakeExecutor{}
	r, rec := newTestRunner(&fakeProber{running: false}, ex)

	out := r.Run(context.Background())

	assert.Equal(t, KindServerUnreachable, out.Kind)
	assert.Zero(t, ex.calls, "benchmark must not run when the server is down")
	assert.Empty(t, rec.Tables)
	assert.Equal(t, "Error: Ollama server is not running.\nPlease start the Ollama server to run the benchmark.", rec.Text())
	assert.Equal(t, output.LevelError, rec.Messages[0].Level)
	assert.Equal(t, "server_unreachable", rec.Status.Kind)
	assert.False(t, rec.Status.Success)
}

func TestRun_ExecutableMissing(t *testing.T) {
	res := &runner.Result{
		Kind:     runner.KindExecutableMissing,
		Command:  "llm_benchmark",
		ExitCode: -1,
		Cause:    &exec.Error{Name: "llm_benchmark", Err: exec.ErrNotFound},
	}
	r, rec := newTestRunner(&fakeProber{running: true}, &fakeExecutor{result: res})

	out := r.Run(context.Background())

	assert.Equal(t, KindExecutableMissing, out.Kind)
	assert.ErrorIs(t, out.Err, exec.ErrNotFound)
	assert.Equal(t,
		"Error: llm-benchmark command not found.\n"+
			"Please make sure you have installed the llm-benchmark library:\n"+
			"pip install llm-benchmark",
		rec.Text())
}

func TestRun_OutdatedServer(t *testing.T) {
	res := &runner.Result{
		Kind:     runner.KindOutdatedServer,
		Command:  "llm_benchmark",
		ExitCode: 1,
		Stderr:   "Error: pull model manifest: requires a newer version of Ollama",
	}
	r, rec := newTestRunner(&fakeProber{running: true}, &fakeExecutor{result: res})

	out := r.Run(context.Background())

	assert.Equal(t, KindOutdatedDependencyVersion, out.Kind)
	require.Len(t, rec.Messages, 3)
	assert.Equal(t, "Error: Your Ollama version is outdated.", rec.Messages[0].Text)
	assert.Equal(t, DownloadURL, rec.Messages[2].Link)
	assert.NotContains(t, rec.Text(), "Stderr:")
}

func TestRun_OutdatedServerShowsVersion(t *testing.T) {
	res := &runner.Result{Kind: runner.KindOutdatedServer, Command: "llm_benchmark", ExitCode: 1}
	p := &versionProber{fakeProber{running: true, version: "0.1.32"}}
	r, rec := newTestRunner(p, &fakeExecutor{result: res})

	r.Run(context.Background())

	assert.Contains(t, rec.Text(), "Installed Ollama version: 0.1.32")
}

func TestRun_GenericFailure(t *testing.T) {
	res := &runner.Result{
		Kind:     runner.KindCommandFailed,
		Command:  "llm_benchmark",
		ExitCode: 2,
		Stderr:   "Traceback: boom",
	}
	r, rec := newTestRunner(&fakeProber{running: true}, &fakeExecutor{result: res})

	out := r.Run(context.Background())

	assert.Equal(t, KindGenericCommandFailure, out.Kind)
	require.Len(t, rec.Messages, 2)
	assert.Equal(t, "Error running llm-benchmark: llm_benchmark exited with status 2", rec.Messages[0].Text)
	assert.Equal(t, output.Raw("Stderr: Traceback: boom"), rec.Messages[1])
}

func TestRun_Timeout(t *testing.T) {
	res := &runner.Result{Kind: runner.KindTimedOut, Command: "llm_benchmark", Cause: errors.New("command timed out after 1s")}
	r, rec := newTestRunner(&fakeProber{running: true}, &fakeExecutor{result: res})

	out := r.Run(context.Background())

	assert.Equal(t, KindCommandTimedOut, out.Kind)
	assert.Contains(t, rec.Text(), "timed out")
}

func TestRun_EmptyOutput(t *testing.T) {
	res := &runner.Result{Kind: runner.KindSuccess, Stdout: "  \n\n"}
	r, rec := newTestRunner(&fakeProber{running: true}, &fakeExecutor{result: res})

	out := r.Run(context.Background())

	assert.Equal(t, KindEmptyOutput, out.Kind)
	assert.Empty(t, rec.Tables)
	assert.Equal(t, "Benchmark returned no output.", rec.Text())
}

func TestRun_TableNotFound(t *testing.T) {
	raw := "pulling manifest\nverifying sha256 digest\nsuccess\n"
	res := &runner.Result{Kind: runner.KindSuccess, Stdout: raw}
	r, rec := newTestRunner(&fakeProber{running: true}, &fakeExecutor{result: res})

	out := r.Run(context.Background())

	assert.Equal(t, KindTableNotFound, out.Kind)
	assert.Empty(t, rec.Tables)
	require.Len(t, rec.Messages, 3)
	assert.Equal(t, output.Raw(raw), rec.Messages[2], "raw output is echoed verbatim")
}

func TestRun_CustomKeywords(t *testing.T) {
	res := &runner.Result{Kind: runner.KindSuccess, Stdout: "Name  Rate\n--  --\nqwen  9"}
	rec := &output.Recorder{}
	r := NewRunner(&fakeProber{running: true}, &fakeExecutor{result: res}, rec, WithHeaderKeywords("Name", "Rate"))

	out := r.Run(context.Background())

	require.NoError(t, out.Err)
	assert.NotEmpty(t, out.RunID)
	require.Len(t, rec.Tables, 1)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindTableNotFound, KindOf(&Error{Kind: KindTableNotFound}))
	assert.Equal(t, KindEmptyOutput, KindOf(errors.Join(errors.New("x"), &Error{Kind: KindEmptyOutput})))
	assert.Equal(t, KindGenericCommandFailure, KindOf(errors.New("other")))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "", KindNone.String())
	assert.Equal(t, "outdated_dependency_version", KindOutdatedDependencyVersion.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "N/A", FormatDuration(0))
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m 5s", FormatDuration(125*time.Second))
}
