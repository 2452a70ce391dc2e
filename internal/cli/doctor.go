// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for rigrun-bench.
//
// Command: doctor
// Short:   Check everything a benchmark run needs
//
// Health Checks Performed:
//   1. Config Valid      - The config file loads and validates
//   2. Ollama Running    - The server answers its root URL with 200 OK
//   3. Ollama Version    - /api/version answers (warn only)
//   4. Benchmark Tool    - llm_benchmark resolves on PATH
//   5. Accelerator       - A GPU was found (warn only; CPU runs still work)
//
// Status Symbols:
//   [OK]     Pass - Check successful
//   [!!]     Warn - Non-critical issue detected
//   [FAIL]   Fail - A benchmark run would fail
//
// Exit Codes:
//   0   No check failed
//   1   One or more checks failed

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-bench/internal/benchmark"
	"github.com/jeranaias/rigrun-bench/internal/detect"
	"github.com/jeranaias/rigrun-bench/internal/ollama"
	"github.com/jeranaias/rigrun-bench/internal/runner"
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the string representation of the check status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the bracketed symbol for the check status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return SuccessStyle.Render("[OK]")
	case CheckWarn:
		return WarningStyle.Render("[!!]")
	case CheckFail:
		return ErrorStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // Suggested fix command or instruction
}

// Render returns a formatted string representation of the health check.
func (c *HealthCheck) Render() string {
	result := fmt.Sprintf("%s %s", c.Status.Symbol(), ValueStyle.Render(c.Message))
	if c.Status != CheckPass && c.Fix != "" {
		result += "\n  " + DimStyle.Render("-> "+c.Fix)
	}
	return result
}

// doctorCheck is the structured form of a HealthCheck.
type doctorCheck struct {
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
	Fix     string `json:"fix,omitempty" yaml:"fix,omitempty"`
}

// DoctorSummary counts check results.
type DoctorSummary struct {
	Passed  int  `json:"passed" yaml:"passed"`
	Warned  int  `json:"warned" yaml:"warned"`
	Failed  int  `json:"failed" yaml:"failed"`
	Healthy bool `json:"healthy" yaml:"healthy"`
}

// DoctorData is the structured doctor payload.
type DoctorData struct {
	Checks  []doctorCheck `json:"checks" yaml:"checks"`
	Summary DoctorSummary `json:"summary" yaml:"summary"`
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

func newDoctorCmd(app *App, st *settings) *cobra.Command {
	return &cobra.Command{
		Use:         "doctor",
		Aliases:     []string{"diag"},
		Short:       "Check the Ollama server, the benchmark tool and the config",
		Args:        noArgs,
		Annotations: map[string]string{annotationConfigTolerant: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			accelerator := app.Accelerator
			if accelerator == nil {
				accelerator = detect.New().Detect
			}
			return runDoctor(cmd.Context(), app.Stdout, st, accelerator)
		},
	}
}

func runDoctor(ctx context.Context, w io.Writer, st *settings, accelerator func(context.Context) *detect.Accelerator) error {
	checks := runAllChecks(ctx, st, accelerator)

	var summary DoctorSummary
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarn:
			summary.Warned++
		case CheckFail:
			summary.Failed++
		}
	}
	summary.Healthy = summary.Failed == 0

	var failure error
	if summary.Failed > 0 {
		failure = fmt.Errorf("%d health check(s) failed", summary.Failed)
	}

	if isStructured(st.format) {
		data := DoctorData{Summary: summary}
		for _, check := range checks {
			data.Checks = append(data.Checks, doctorCheck{
				Name:    check.Name,
				Status:  check.Status.String(),
				Message: check.Message,
				Fix:     check.Fix,
			})
		}
		resp := NewResponse("doctor", data)
		if failure != nil {
			resp.Fail(failure.Error())
		}
		if err := resp.Write(w, st.format); err != nil {
			return err
		}
		if failure != nil {
			return &ExitError{Code: ExitGeneralError, Err: failure, Silent: true}
		}
		return nil
	}

	fmt.Fprintln(w, TitleStyle.Render("rigrun-bench Doctor"))
	fmt.Fprintln(w, RenderSeparator("=", 41))
	for _, check := range checks {
		fmt.Fprintln(w, check.Render())
	}
	fmt.Fprintln(w, RenderSeparator("-", 41))

	parts := []string{fmt.Sprintf("%d passed", summary.Passed)}
	if summary.Warned > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d warning", summary.Warned)))
	}
	if summary.Failed > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))

	return failure
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

// runAllChecks runs all health checks in order.
func runAllChecks(ctx context.Context, st *settings, accelerator func(context.Context) *detect.Accelerator) []*HealthCheck {
	client := newOllamaClient(st)

	running := checkOllamaRunning(ctx, client)
	checks := []*HealthCheck{checkConfig(st), running}
	if running.Status == CheckPass {
		checks = append(checks, checkOllamaVersion(ctx, client))
	}
	checks = append(checks,
		checkBenchmarkTool(st.cfg.Command.Name),
		checkAccelerator(accelerator(ctx)),
	)
	return checks
}

func checkConfig(st *settings) *HealthCheck {
	check := &HealthCheck{Name: "Config Valid"}
	if st.configErr != nil {
		check.Status = CheckFail
		check.Message = st.configErr.Error()
		check.Fix = "Fix the file or regenerate it: rigrun-bench config init --force"
		return check
	}
	check.Status = CheckPass
	check.Message = "Configuration is valid"
	return check
}

func checkOllamaRunning(ctx context.Context, client *ollama.Client) *HealthCheck {
	check := &HealthCheck{Name: "Ollama Running"}
	err := client.CheckRunning(ctx)
	if err == nil {
		check.Status = CheckPass
		check.Message = "Ollama is running at " + client.BaseURL()
		return check
	}

	check.Status = CheckFail
	switch {
	case ollama.IsNotRunning(err):
		check.Message = "Ollama is not running at " + client.BaseURL()
		check.Fix = "Run: ollama serve"
	case ollama.IsTimeout(err):
		check.Message = "Ollama did not answer in time at " + client.BaseURL()
		check.Fix = "Check the server, or raise server.probe_timeout_secs"
	default:
		check.Message = fmt.Sprintf("Ollama is not healthy at %s: %v", client.BaseURL(), err)
		check.Fix = "Install or update Ollama: " + benchmark.DownloadURL
	}
	return check
}

func checkOllamaVersion(ctx context.Context, client *ollama.Client) *HealthCheck {
	check := &HealthCheck{Name: "Ollama Version"}
	version, err := client.Version(ctx)
	if err != nil {
		check.Status = CheckWarn
		check.Message = fmt.Sprintf("Could not read the Ollama version: %v", err)
		check.Fix = "Update Ollama: " + benchmark.DownloadURL
		return check
	}
	check.Status = CheckPass
	check.Message = "Ollama version " + version
	return check
}

func checkBenchmarkTool(name string) *HealthCheck {
	check := &HealthCheck{Name: "Benchmark Tool"}
	path, err := runner.LookPath(name)
	if err != nil {
		check.Status = CheckFail
		check.Message = name + " not found on PATH"
		check.Fix = "Run: " + benchmark.InstallCommand
		return check
	}
	check.Status = CheckPass
	check.Message = name + " found at " + path
	return check
}

func checkAccelerator(acc *detect.Accelerator) *HealthCheck {
	check := &HealthCheck{Name: "Accelerator"}
	if !acc.IsGPU() {
		check.Status = CheckWarn
		check.Message = "No GPU detected, models will run on " + acc.String()
		check.Fix = "Results are only comparable with other CPU runs"
		return check
	}
	check.Status = CheckPass
	check.Message = acc.Kind.String() + " GPU: " + acc.String()
	return check
}
