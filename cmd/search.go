package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/codextendo/internal/application"
)

func newSearchCmd(app *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <pattern>...",
		Short: "Search session transcripts and cache the result list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := strings.Join(args, " ")

			entries, err := app.searchService.Search(cmd.Context(), app.cfg.GetString("sessions.dir"), application.SearchOptions{
				Pattern:     pattern,
				Limit:       limit,
				SkipPhrases: app.cfg.GetStringSlice("search.skip_phrases"),
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.renderResults(pattern, entries))
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", app.cfg.GetInt("search.limit"), "Maximum number of results")

	return cmd
}
