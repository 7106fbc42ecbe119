package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/codextendo/internal/application"
)

func newSummarizeCmd(app *app) *cobra.Command {
	var (
		path      string
		label     string
		model     string
		maxTokens int
	)

	cmd := &cobra.Command{
		Use:   "summarize [index]",
		Short: "Summarize one session into JSON and Markdown artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionPath := path
			if len(args) == 1 {
				index, err := parseIndex(args[0])
				if err != nil {
					return err
				}

				entry, err := app.cache.Resolve(cmd.Context(), index)
				if err != nil {
					return err
				}
				sessionPath = entry.Path
			}
			if sessionPath == "" {
				return errors.New("provide a search result index or --path")
			}

			summarizer, err := app.newSummarizer()
			if err != nil {
				return err
			}

			counter := app.newTokenCounter()
			if !counter.Precise() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Precise token counting is unavailable; using an approximate fallback.")
			}

			service := app.refreshService(summarizer, counter)

			var result application.SummaryResult
			err = runSummarizeSpinner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context) error {
				var workErr error
				result, workErr = service.SummarizeFile(ctx, sessionPath, label, model, maxTokens)
				return workErr
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Summary saved -> %s\n", result.JSONPath)
			fmt.Fprintf(out, "Markdown saved -> %s\n", result.MarkdownPath)
			if result.Artifact.Truncated {
				fmt.Fprintln(out, "(Transcript truncated to stay within the token budget.)")
			}
			fmt.Fprintf(out, "History updated -> %s\n", result.HistoryPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Session transcript file (bypasses the search cache)")
	cmd.Flags().StringVar(&label, "label", "", "Label override for the summary prompt")
	cmd.Flags().StringVar(&model, "model", app.cfg.GetString("summary.model"), "Summarization model")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", app.cfg.GetInt("summary.token_limit"), "Transcript token budget")

	return cmd
}
