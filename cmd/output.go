// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"io"

	"paperassist/cli/internal/backend"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// render writes v as JSON or YAML, or calls text for the human format.
func (a *app) render(v any, text func(w io.Writer) error) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(a.stdout)
}

// paperTable renders papers as an ID/Title table.
func paperTable(w io.Writer, papers []backend.Paper) error {
	data := pterm.TableData{{"ID", "Title"}}
	for _, p := range papers {
		data = append(data, []string{p.ID, p.Title})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
