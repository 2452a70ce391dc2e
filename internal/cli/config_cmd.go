// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-bench/internal/config"
)

func newConfigCmd(app *App, st *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
		Args:  noArgs,
	}
	cmd.AddCommand(newConfigShowCmd(app, st), newConfigInitCmd(app, st))
	return cmd
}

func newConfigShowCmd(app *App, st *settings) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration (file, env and flags applied)",
		Args:        noArgs,
		Annotations: map[string]string{annotationConfigTolerant: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isStructured(st.format) {
				resp := NewResponse("config show", st.cfg)
				if st.configErr != nil {
					resp.Fail(st.configErr.Error())
				}
				return resp.Write(app.Stdout, st.format)
			}

			fmt.Fprintln(app.Stdout, DimStyle.Render("# "+st.configPath))
			if err := toml.NewEncoder(app.Stdout).Encode(st.cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if st.configErr != nil {
				fmt.Fprintln(app.Stderr, WarningStyle.Render("[!!]"), st.configErr.Error())
			}
			return nil
		},
	}
}

func newConfigInitCmd(app *App, st *settings) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration to the config path",
		Args:        noArgs,
		Annotations: map[string]string{annotationConfigTolerant: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if st.configPath == "" {
				return &ConfigError{Err: errors.New("cannot determine config path; pass --config")}
			}
			if _, err := os.Stat(st.configPath); err == nil && !force {
				return &ConfigError{Path: st.configPath, Err: errors.New("already exists (use --force to overwrite)")}
			}
			if err := config.Save(config.Default(), st.configPath); err != nil {
				return &ConfigError{Path: st.configPath, Err: err}
			}
			fmt.Fprintln(app.Stdout, SuccessStyle.Render("[OK]"), "Wrote", st.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
