// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-bench/internal/benchmark"
	"github.com/jeranaias/rigrun-bench/internal/ollama"
	"github.com/jeranaias/rigrun-bench/internal/output"
)

// waitPollInterval paces probes while --wait is in effect.
const waitPollInterval = time.Second

func newRunCmd(app *App, st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check Ollama, run llm_benchmark and show its result table (default)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, app, st)
		},
	}
}

// runBenchmark performs one run. Failures are shown through the sink; the
// returned error only carries the exit code when --strict is set.
func runBenchmark(cmd *cobra.Command, app *App, st *settings) error {
	sink, err := output.New(st.format, app.Stdout, st.color)
	if err != nil {
		return &UsageError{Err: err}
	}

	client := newOllamaClient(st)
	var prober benchmark.Prober = client
	if st.wait > 0 {
		prober = &waitingProber{Client: client, wait: st.wait, interval: waitPollInterval, log: st.log}
	}

	rc := st.cfg.RunnerConfig()
	rc.Timeout = st.commandTimeout

	r := benchmark.NewRunner(prober, benchmark.CommandExecutor{Config: rc}, sink,
		benchmark.WithLogger(st.log),
		benchmark.WithHeaderKeywords(st.cfg.Table.HeaderKeywords...),
	)
	out := r.Run(cmd.Context())

	return st.exitFor(out.Kind, out.Err)
}

// exitFor turns a run's failure into an exit code under --strict.
func (st *settings) exitFor(kind benchmark.ErrorKind, err error) error {
	if !st.strict || kind == benchmark.KindNone {
		return nil
	}
	return &ExitError{Code: ExitCodeFor(kind), Err: err, Silent: true}
}

func newOllamaClient(st *settings) *ollama.Client {
	return ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL: st.cfg.Server.URL,
		Timeout: st.cfg.ProbeTimeout(),
	})
}

// waitingProber gives the server up to wait to start answering. It keeps
// the client's Version so outdated-server messages can still name it.
type waitingProber struct {
	*ollama.Client
	wait     time.Duration
	interval time.Duration
	log      logrus.FieldLogger
}

func (p *waitingProber) IsRunning(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.wait)
	defer cancel()

	p.log.WithField("wait", p.wait.String()).Debug("waiting for Ollama")
	if err := p.WaitUntilRunning(ctx, p.interval); err != nil {
		p.log.WithError(err).Debug("Ollama did not come up")
		return false
	}
	return true
}
