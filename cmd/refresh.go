package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/codextendo/internal/application"
)

func newRefreshCmd(app *app) *cobra.Command {
	var (
		limit     int
		force     bool
		model     string
		maxTokens int
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-summarize new or changed sessions across the whole corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summarizer, err := app.newSummarizer()
			if err != nil {
				return err
			}

			counter := app.newTokenCounter()
			if !counter.Precise() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Precise token counting is unavailable; using an approximate fallback.")
			}

			service := app.refreshService(summarizer, counter)
			report, err := service.Refresh(cmd.Context(), application.RefreshOptions{
				Root:      app.cfg.GetString("sessions.dir"),
				Limit:     limit,
				Force:     force,
				Model:     model,
				MaxTokens: maxTokens,
				Progress:  cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Refreshed == 0 && len(report.Failures) == 0 {
				_, err = fmt.Fprintln(out, "All summaries are up to date.")
				return err
			}

			if _, err := fmt.Fprintf(out, "Refreshed %d, skipped %d, failed %d.\n", report.Refreshed, report.Skipped, len(report.Failures)); err != nil {
				return err
			}

			for _, failure := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", failure.Path, failure.Err)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Only process the newest N sessions")
	cmd.Flags().BoolVar(&force, "force", false, "Rebuild all summaries regardless of fingerprints")
	cmd.Flags().StringVar(&model, "model", app.cfg.GetString("summary.model"), "Summarization model")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", app.cfg.GetInt("summary.token_limit"), "Transcript token budget per session")

	return cmd
}
