// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

type versionView struct {
	CLI     string `json:"cli" yaml:"cli"`
	BaseURL string `json:"base_url" yaml:"base_url"`
	Service string `json:"service" yaml:"service"`
}

// versionCmd prints the CLI version and whether the configured service answers.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version and service status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api := a.publicAPI()
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		v := versionView{CLI: Version, BaseURL: a.cfg.BaseURL, Service: "unreachable"}
		if msg, err := api.Health(ctx); err == nil {
			v.Service = msg
		} else {
			a.logger.Debug("health check failed", "error", err)
		}

		return a.render(v, func(w io.Writer) error {
			pterm.Fprintln(w, "paperassist "+v.CLI)
			pterm.Fprintln(w, "service "+v.BaseURL+": "+v.Service)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
