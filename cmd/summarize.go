// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"io"
	"strings"

	"paperassist/cli/internal/backend"
	clierrors "paperassist/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	summarizeQuery string
	summarizeTopK  int
	summarizeModel string

	askTopK     int
	askNoPapers bool
	askModel    string
)

// summarizeCmd summarises a whole paper, or answers --query from its most
// relevant passages.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <paper-id>",
	Short: "Summarize a paper or ask a question about it",
	Long: `Without --query the whole paper is summarised. With --query the service answers
the question from the --top-k most relevant passages of the paper.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		model, err := a.resolveModel(ctx, api, summarizeModel)
		if err != nil {
			return err
		}
		paperID := args[0]

		if strings.TrimSpace(summarizeQuery) == "" {
			sum, err := spin(a, "Summarizing with "+model+"...", func() (*backend.Summary, error) {
				return api.SummarizeFull(ctx, paperID, model)
			})
			if err != nil {
				return err
			}
			return a.render(sum, func(w io.Writer) error {
				return answerBox(w, "Summary", sum.Model, sum.Summary)
			})
		}

		topK := a.cfg.TopK
		if cmd.Flags().Changed("top-k") {
			topK = summarizeTopK
		}
		ans, err := spin(a, "Asking "+model+"...", func() (*backend.Answer, error) {
			return api.SummarizeQuery(ctx, paperID, summarizeQuery, topK, model)
		})
		if err != nil {
			return err
		}
		return a.render(ans, func(w io.Writer) error {
			return answerBox(w, "Answer", ans.Model, ans.Answer)
		})
	},
}

// askCmd asks a question across all of the user's papers, or of the model alone
// with --no-papers.
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a question across all your papers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		api, err := a.apiClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		model, err := a.resolveModel(ctx, api, askModel)
		if err != nil {
			return err
		}

		q := backend.GlobalQuery{Query: strings.Join(args, " "), Model: model, TopK: a.cfg.GlobalTopK}
		if cmd.Flags().Changed("top-k") {
			q.TopK = askTopK
		}
		if askNoPapers {
			no := false
			q.UsePapers = &no
		}

		ans, err := spin(a, "Asking "+model+"...", func() (*backend.Answer, error) {
			return api.GlobalQuery(ctx, q)
		})
		if err != nil {
			return err
		}
		return a.render(ans, func(w io.Writer) error {
			return answerBox(w, "Answer", ans.Model, ans.Answer)
		})
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeQuery, "query", "q", "", "Question to answer from the paper")
	summarizeCmd.Flags().IntVarP(&summarizeTopK, "top-k", "k", 0, "Passages to consider for --query (default from config top_k)")
	summarizeCmd.Flags().StringVarP(&summarizeModel, "model", "m", "", "Model to use (default from config default_model)")

	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Passages to consider (default from config global_top_k)")
	askCmd.Flags().BoolVar(&askNoPapers, "no-papers", false, "Ask the model without consulting your papers")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model to use (default from config default_model)")

	rootCmd.AddCommand(summarizeCmd, askCmd)
}

// resolveModel picks the --model flag, then config default_model, then the
// first model the service offers.
func (a *app) resolveModel(ctx context.Context, api backend.API, flag string) (string, error) {
	if m := strings.TrimSpace(flag); m != "" {
		return m, nil
	}
	if a.cfg.DefaultModel != "" {
		return a.cfg.DefaultModel, nil
	}
	models, err := api.ListModels(ctx)
	if err != nil {
		return "", err
	}
	if len(models) == 0 {
		return "", clierrors.Validationf("no model given and the service offers none")
	}
	a.logger.Debug("using first available model", "model", models[0])
	return models[0], nil
}

func answerBox(w io.Writer, title, model, text string) error {
	if model != "" {
		title += " · " + model
	}
	pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(title)).
		WithWriter(w).
		Println(strings.TrimSpace(text))
	return nil
}
