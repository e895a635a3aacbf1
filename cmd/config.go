// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"

	"paperassist/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configCmd groups the settings subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.render(a.cfg, func(w io.Writer) error {
			c := a.cfg
			data := pterm.TableData{
				{"Key", "Value"},
				{"base_url", c.BaseURL},
				{"default_model", c.DefaultModel},
				{"top_k", fmt.Sprint(c.TopK)},
				{"global_top_k", fmt.Sprint(c.GlobalTopK)},
				{"log_level", c.LogLevel},
				{"request_timeout", c.RequestTimeout},
			}
			if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render(); err != nil {
				return err
			}
			pterm.Fprintln(w, pterm.NewStyle(pterm.FgGray).Sprint("from "+a.cfgPath))
			return nil
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting and save it",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		// env and flag overrides are not persisted
		c, err := config.LoadFrom(a.cfgPath)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveTo(a.cfgPath, c); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		return a.render(c, func(w io.Writer) error {
			success(w, "%s updated", args[0])
			return nil
		})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.Fprintln(current.stdout, current.cfgPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
