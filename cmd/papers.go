// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"paperassist/cli/internal/backend"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type papersView struct {
	Papers []backend.Paper `json:"papers" yaml:"papers"`
}

// uploadCmd sends a PDF to the service, which indexes it for the current user.
var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a paper (PDF)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open paper: %w", err)
		}
		defer f.Close()

		name := filepath.Base(args[0])
		res, err := spin(a, "Uploading "+name+"...", func() (*backend.UploadResult, error) {
			return api.UploadPaper(cmd.Context(), backend.Upload{Filename: name, Content: f})
		})
		if err != nil {
			return err
		}

		return a.render(res, func(w io.Writer) error {
			msg := res.Message
			if msg == "" {
				msg = "Uploaded " + name
			}
			success(w, "%s", msg)
			if res.PaperID != "" {
				pterm.Fprintln(w, "   Paper ID: "+res.PaperID)
			}
			return nil
		})
	},
}

// papersCmd lists every paper the current user has uploaded.
var papersCmd = &cobra.Command{
	Use:     "papers",
	Aliases: []string{"ls"},
	Short:   "List your uploaded papers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}
		papers, err := spin(a, "Loading papers...", func() ([]backend.Paper, error) {
			return api.ListPapers(cmd.Context())
		})
		if err != nil {
			return err
		}
		return a.render(papersView{Papers: papers}, func(w io.Writer) error {
			if len(papers) == 0 {
				info(w, "No papers uploaded yet. Try 'paperassist upload <file>'.")
				return nil
			}
			return paperTable(w, papers)
		})
	},
}

// recommendCmd lists the user's papers whose title matches a keyword.
var recommendCmd = &cobra.Command{
	Use:   "recommend <keyword>",
	Short: "Find your papers whose title matches a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}
		keyword := args[0]
		papers, err := spin(a, "Searching...", func() ([]backend.Paper, error) {
			return api.RecommendPapers(cmd.Context(), keyword)
		})
		if err != nil {
			return err
		}
		return a.render(papersView{Papers: papers}, func(w io.Writer) error {
			if len(papers) == 0 {
				info(w, "No papers match %q", keyword)
				return nil
			}
			return paperTable(w, papers)
		})
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd, papersCmd, recommendCmd)
}
