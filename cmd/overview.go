// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"paperassist/cli/internal/backend"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type overviewView struct {
	Papers  []backend.Paper `json:"papers" yaml:"papers"`
	Models  []string        `json:"supported_models" yaml:"supported_models"`
	Default string          `json:"default,omitempty" yaml:"default,omitempty"`
}

// overviewCmd fetches the paper list and the model list concurrently, the two
// things needed before asking anything. A failure of one call does not cancel
// the other.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show your papers and the available models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}

		var view overviewView
		view.Default = a.cfg.DefaultModel
		_, err = spin(a, "Loading...", func() (struct{}, error) {
			ctx := cmd.Context()
			var g errgroup.Group
			g.Go(func() error {
				papers, err := api.ListPapers(ctx)
				view.Papers = papers
				return err
			})
			g.Go(func() error {
				models, err := api.ListModels(ctx)
				view.Models = models
				return err
			})
			return struct{}{}, g.Wait()
		})
		if err != nil {
			return err
		}

		return a.render(view, func(w io.Writer) error {
			pterm.Fprintln(w, pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Papers"))
			if len(view.Papers) == 0 {
				info(w, "No papers uploaded yet")
			} else if err := paperTable(w, view.Papers); err != nil {
				return err
			}
			pterm.Fprintln(w)
			pterm.Fprintln(w, pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Models"))
			return modelList(w, modelsView{Models: view.Models, Default: view.Default})
		})
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
