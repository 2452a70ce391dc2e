// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo is the structured form of the version command.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCmd(app *App, st *settings) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        noArgs,
		Annotations: map[string]string{annotationConfigTolerant: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   Version,
				GitCommit: GitCommit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if isStructured(st.format) {
				return NewResponse("version", info).Write(app.Stdout, st.format)
			}
			fmt.Fprintf(app.Stdout, "rigrun-bench version %s\n", info.Version)
			fmt.Fprintf(app.Stdout, "  Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(app.Stdout, "  Build date: %s\n", info.BuildDate)
			fmt.Fprintf(app.Stdout, "  Go:         %s (%s)\n", info.GoVersion, info.Platform)
			return nil
		},
	}
}
