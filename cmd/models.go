// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type modelsView struct {
	Models  []string `json:"supported_models" yaml:"supported_models"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty"`
}

// modelsCmd lists the language models the service can summarise with.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the service supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}
		models, err := spin(a, "Loading models...", func() ([]string, error) {
			return api.ListModels(cmd.Context())
		})
		if err != nil {
			return err
		}
		view := modelsView{Models: models, Default: a.cfg.DefaultModel}
		return a.render(view, func(w io.Writer) error {
			return modelList(w, view)
		})
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func modelList(w io.Writer, v modelsView) error {
	if len(v.Models) == 0 {
		info(w, "The service reports no models")
		return nil
	}
	items := make([]pterm.BulletListItem, 0, len(v.Models))
	for _, m := range v.Models {
		text := m
		if m == v.Default {
			text += pterm.NewStyle(pterm.FgGray).Sprint(" (default)")
		}
		items = append(items, pterm.BulletListItem{Level: 0, Text: text})
	}
	return pterm.DefaultBulletList.WithItems(items).WithWriter(w).Render()
}
